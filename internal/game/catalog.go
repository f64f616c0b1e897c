package game

import (
	"math/rand"
)

// Rows is the fixed grid height. Width is chosen per session.
const Rows = 20

type PieceType int

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceJ
	PieceL
	PieceZ
	PieceS
)

// NoPiece marks an empty hold slot.
const NoPiece PieceType = -1

// NumPieceTypes is the size of the catalog.
const NumPieceTypes = 7

var pieceShapes = [NumPieceTypes][][]bool{
	PieceI: {
		{true, true, true, true},
	},
	PieceO: {
		{true, true},
		{true, true},
	},
	PieceT: {
		{false, true, false},
		{true, true, true},
	},
	PieceJ: {
		{true, false, false},
		{true, true, true},
	},
	PieceL: {
		{false, false, true},
		{true, true, true},
	},
	PieceZ: {
		{true, true, false},
		{false, true, true},
	},
	PieceS: {
		{false, true, true},
		{true, true, false},
	},
}

var pieceNames = [NumPieceTypes]string{"I", "O", "T", "J", "L", "Z", "S"}

func (t PieceType) Valid() bool {
	return t >= 0 && int(t) < NumPieceTypes
}

func (t PieceType) String() string {
	if !t.Valid() {
		return "-"
	}
	return pieceNames[t]
}

// ShapeOf returns a fresh copy of the unrotated shape for t.
func ShapeOf(t PieceType) [][]bool {
	src := pieceShapes[t]
	shape := make([][]bool, len(src))
	for i := range src {
		shape[i] = make([]bool, len(src[i]))
		copy(shape[i], src[i])
	}
	return shape
}

// ColorOf returns the grid color index stored for locked cells of t.
// Index 0 is reserved for empty cells.
func ColorOf(t PieceType) int {
	return int(t) + 1
}

// TypeOfColor maps a grid color index back to its piece type.
func TypeOfColor(color int) PieceType {
	if color < 1 || color > NumPieceTypes {
		return NoPiece
	}
	return PieceType(color - 1)
}

// Rand is the subset of *rand.Rand the engine draws from.
type Rand interface {
	Intn(n int) int
}

// RandomType draws a piece type uniformly from the catalog.
func RandomType(r Rand) PieceType {
	return PieceType(r.Intn(NumPieceTypes))
}

// PieceGenerator produces piece types with fresh uniform draws.
// Two generators created with the same seed produce identical sequences.
type PieceGenerator struct {
	rng Rand
}

// NewPieceGenerator creates a seeded generator.
func NewPieceGenerator(seed int64) *PieceGenerator {
	return &PieceGenerator{rng: rand.New(rand.NewSource(seed))}
}

// NewPieceGeneratorFrom wraps an existing source.
func NewPieceGeneratorFrom(r Rand) *PieceGenerator {
	return &PieceGenerator{rng: r}
}

// Next returns the next piece type.
func (pg *PieceGenerator) Next() PieceType {
	return RandomType(pg.rng)
}

// Rotate returns shape turned 90° clockwise. An h×w shape becomes w×h.
// The input is not modified.
func Rotate(shape [][]bool) [][]bool {
	h := len(shape)
	if h == 0 {
		return nil
	}
	w := len(shape[0])
	rotated := make([][]bool, w)
	for x := range rotated {
		rotated[x] = make([]bool, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rotated[x][h-1-y] = shape[y][x]
		}
	}
	return rotated
}

func shapeWidth(shape [][]bool) int {
	if len(shape) == 0 {
		return 0
	}
	return len(shape[0])
}

// SpawnCol is the column origin that centres shape on a board of the given width.
func SpawnCol(cols int, shape [][]bool) int {
	return cols/2 - shapeWidth(shape)/2
}
