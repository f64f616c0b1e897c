package game

// Board owns the grid of locked cells. A cell holds 0 when empty and a
// piece color index otherwise.
type Board struct {
	cells [][]int
	cols  int
}

func NewBoard(cols int) *Board {
	cells := make([][]int, Rows)
	for i := range cells {
		cells[i] = make([]int, cols)
	}
	return &Board{
		cells: cells,
		cols:  cols,
	}
}

func (b *Board) Rows() int { return len(b.cells) }
func (b *Board) Cols() int { return b.cols }

// Cell returns the color index at (row, col), or 0 outside the grid.
func (b *Board) Cell(row, col int) int {
	if row < 0 || row >= len(b.cells) || col < 0 || col >= b.cols {
		return 0
	}
	return b.cells[row][col]
}

// IsFree reports whether shape fits with its top-left corner at (col, row).
// Cells above the top edge are allowed.
func (b *Board) IsFree(shape [][]bool, col, row int) bool {
	for i, line := range shape {
		for j, filled := range line {
			if !filled {
				continue
			}
			x := col + j
			y := row + i
			if x < 0 || x >= b.cols {
				return false
			}
			if y >= len(b.cells) {
				return false
			}
			if y >= 0 && b.cells[y][x] != 0 {
				return false
			}
		}
	}
	return true
}

// Lock writes the occupied cells of shape into the grid. Cells that fall
// outside the grid, including those above the top edge, are skipped.
func (b *Board) Lock(shape [][]bool, col, row, color int) {
	for i, line := range shape {
		for j, filled := range line {
			if !filled {
				continue
			}
			x := col + j
			y := row + i
			if y >= 0 && y < len(b.cells) && x >= 0 && x < b.cols {
				b.cells[y][x] = color
			}
		}
	}
}

func (b *Board) isFull(row int) bool {
	if b.cols == 0 {
		return false
	}
	for _, c := range b.cells[row] {
		if c == 0 {
			return false
		}
	}
	return true
}

// FullRows lists the rows that are currently full, bottom first.
func (b *Board) FullRows() []int {
	var rows []int
	for y := len(b.cells) - 1; y >= 0; y-- {
		if b.isFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearFullLines removes every full row and compacts the rows above it
// downward. It sweeps bottom-up; after a removal the same index is checked
// again since the row above has moved into it.
func (b *Board) ClearFullLines() int {
	cleared := 0
	for y := len(b.cells) - 1; y >= 0; {
		if !b.isFull(y) {
			y--
			continue
		}
		b.removeRow(y)
		cleared++
	}
	return cleared
}

// DropBottomRow discards the bottom row and moves everything else down one.
func (b *Board) DropBottomRow() {
	b.removeRow(len(b.cells) - 1)
}

func (b *Board) removeRow(y int) {
	copy(b.cells[1:y+1], b.cells[:y])
	b.cells[0] = make([]int, b.cols)
}

// Grid returns a deep copy of the cells, row-major.
func (b *Board) Grid() [][]int {
	grid := make([][]int, len(b.cells))
	for y := range b.cells {
		grid[y] = make([]int, b.cols)
		copy(grid[y], b.cells[y])
	}
	return grid
}

// ToFlat returns the board as a flat array of color indices (0 = empty).
func (b *Board) ToFlat() []int {
	flat := make([]int, len(b.cells)*b.cols)
	for y := range b.cells {
		copy(flat[y*b.cols:], b.cells[y])
	}
	return flat
}

// BoardFromFlat reconstructs a Board from a flat color-index array.
// Missing trailing cells are treated as empty.
func BoardFromFlat(flat []int, cols, rows int) *Board {
	b := &Board{
		cols:  cols,
		cells: make([][]int, rows),
	}
	for y := 0; y < rows; y++ {
		b.cells[y] = make([]int, cols)
		for x := 0; x < cols; x++ {
			idx := y*cols + x
			if idx < len(flat) {
				b.cells[y][x] = flat[idx]
			}
		}
	}
	return b
}
