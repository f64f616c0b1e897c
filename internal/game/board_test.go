package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillRow(b *Board, row int, color int, skip ...int) {
	skipped := map[int]bool{}
	for _, c := range skip {
		skipped[c] = true
	}
	for col := 0; col < b.Cols(); col++ {
		if !skipped[col] {
			b.cells[row][col] = color
		}
	}
}

func verticalI() [][]bool {
	return Rotate(ShapeOf(PieceI))
}

func TestIsFreeBounds(t *testing.T) {
	b := NewBoard(10)
	bar := ShapeOf(PieceI)

	assert.True(t, b.IsFree(bar, 0, 0))
	assert.True(t, b.IsFree(bar, 6, 0))
	assert.False(t, b.IsFree(bar, -1, 0), "left of column 0")
	assert.False(t, b.IsFree(bar, 7, 0), "past the right edge")
	assert.True(t, b.IsFree(bar, 3, Rows-1))
	assert.False(t, b.IsFree(bar, 3, Rows), "below the floor")
	assert.True(t, b.IsFree(bar, 3, -1), "above the top is allowed")
	assert.True(t, b.IsFree(verticalI(), 0, -3))
}

func TestIsFreeIgnoresEmptyShapeCells(t *testing.T) {
	b := NewBoard(10)
	tee := ShapeOf(PieceT)
	b.cells[0][0] = 1

	// Only the T's empty corner overlaps the locked cell.
	assert.True(t, b.IsFree(tee, 0, 0))
	assert.False(t, b.IsFree(tee, 0, -1))

	right := Rotate(tee)
	assert.True(t, b.IsFree(right, 8, 5))
	assert.False(t, b.IsFree(right, 9, 5))
}

func TestIsFreeDetectsOccupiedCell(t *testing.T) {
	b := NewBoard(10)
	b.cells[10][4] = 3

	assert.False(t, b.IsFree(verticalI(), 4, 7))
	assert.True(t, b.IsFree(verticalI(), 4, 6))
	assert.True(t, b.IsFree(verticalI(), 5, 7))
}

func TestIsFreeAlongEmptyColumn(t *testing.T) {
	b := NewBoard(10)
	shape := verticalI()
	for row := -4; row <= Rows-4; row++ {
		assert.True(t, b.IsFree(shape, 2, row), "row %d", row)
	}
	assert.False(t, b.IsFree(shape, 2, Rows-3))
}

func TestLockWritesColor(t *testing.T) {
	b := NewBoard(10)
	b.Lock(ShapeOf(PieceT), 2, 18, ColorOf(PieceT))

	assert.Equal(t, 0, b.Cell(18, 2))
	assert.Equal(t, ColorOf(PieceT), b.Cell(18, 3))
	assert.Equal(t, 0, b.Cell(18, 4))
	for col := 2; col <= 4; col++ {
		assert.Equal(t, ColorOf(PieceT), b.Cell(19, col))
	}
}

func TestLockSkipsCellsAboveTop(t *testing.T) {
	b := NewBoard(10)
	require.NotPanics(t, func() {
		b.Lock(verticalI(), 0, -2, ColorOf(PieceI))
	})
	assert.Equal(t, ColorOf(PieceI), b.Cell(0, 0))
	assert.Equal(t, ColorOf(PieceI), b.Cell(1, 0))
	assert.Equal(t, 0, b.Cell(2, 0))
}

func TestClearFullLinesScenario(t *testing.T) {
	b := NewBoard(10)
	fillRow(b, Rows-1, 2, 9)
	b.cells[10][3] = 5

	shape := verticalI()
	require.True(t, b.IsFree(shape, 9, Rows-4))
	b.Lock(shape, 9, Rows-4, ColorOf(PieceI))

	assert.Equal(t, []int{Rows - 1}, b.FullRows())
	assert.Equal(t, 1, b.ClearFullLines())

	for row := Rows - 3; row < Rows; row++ {
		assert.Equal(t, ColorOf(PieceI), b.Cell(row, 9), "row %d", row)
		for col := 0; col < 9; col++ {
			assert.Equal(t, 0, b.Cell(row, col))
		}
	}
	assert.Equal(t, 0, b.Cell(Rows-4, 9))
	assert.Equal(t, 5, b.Cell(11, 3), "rows above shift down by one")
	assert.Equal(t, 0, b.Cell(10, 3))
	assert.Equal(t, make([]int, 10), b.Grid()[0])
	assert.Empty(t, b.FullRows())
}

func TestClearFullLinesNonContiguous(t *testing.T) {
	b := NewBoard(10)
	fillRow(b, 19, 1)
	b.cells[18][0] = 4
	fillRow(b, 17, 1)
	b.cells[16][5] = 6

	assert.Equal(t, 2, b.ClearFullLines())
	assert.Equal(t, 4, b.Cell(19, 0))
	assert.Equal(t, 6, b.Cell(18, 5))
	for row := 0; row < 18; row++ {
		for col := 0; col < 10; col++ {
			assert.Equal(t, 0, b.Cell(row, col))
		}
	}
}

func TestClearFullLinesHasNoUpperBound(t *testing.T) {
	b := NewBoard(12)
	for row := 0; row < Rows; row++ {
		fillRow(b, row, 3)
	}
	assert.Equal(t, Rows, b.ClearFullLines())
	assert.Equal(t, make([]int, Rows*12), b.ToFlat())
}

func TestClearFullLinesPreservesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		b := NewBoard(10)
		for row := 0; row < Rows; row++ {
			switch rng.Intn(3) {
			case 0:
				fillRow(b, row, 1+rng.Intn(NumPieceTypes))
			case 1:
				for col := 0; col < 10; col++ {
					if rng.Intn(2) == 0 {
						b.cells[row][col] = 1 + rng.Intn(NumPieceTypes)
					}
				}
			}
		}

		before := b.Grid()
		var kept [][]int
		for _, row := range before {
			full := true
			for _, c := range row {
				if c == 0 {
					full = false
					break
				}
			}
			if !full {
				kept = append(kept, row)
			}
		}
		want := make([][]int, 0, Rows)
		for len(want)+len(kept) < Rows {
			want = append(want, make([]int, 10))
		}
		want = append(want, kept...)

		cleared := b.ClearFullLines()
		require.Equal(t, Rows-len(kept), cleared)
		require.Equal(t, want, b.Grid())
		require.Empty(t, b.FullRows())
	}
}

func TestDropBottomRow(t *testing.T) {
	b := NewBoard(10)
	fillRow(b, 19, 1, 0)
	b.cells[18][2] = 2
	b.cells[0][7] = 3

	b.DropBottomRow()

	assert.Equal(t, 2, b.Cell(19, 2))
	assert.Equal(t, 0, b.Cell(19, 1))
	assert.Equal(t, 3, b.Cell(1, 7))
	assert.Equal(t, make([]int, 10), b.Grid()[0])
}

func TestGridIsACopy(t *testing.T) {
	b := NewBoard(10)
	grid := b.Grid()
	grid[5][5] = 7
	assert.Equal(t, 0, b.Cell(5, 5))
}

func TestBoardFromFlat(t *testing.T) {
	b := NewBoard(12)
	b.Lock(ShapeOf(PieceS), 4, 18, ColorOf(PieceS))

	restored := BoardFromFlat(b.ToFlat(), 12, Rows)
	assert.Equal(t, b.Grid(), restored.Grid())

	short := BoardFromFlat([]int{1, 2}, 10, Rows)
	assert.Equal(t, 2, short.Cell(0, 1))
	assert.Equal(t, 0, short.Cell(19, 9))
}
