package game

// Piece is the falling piece. Every move is checked against its board;
// a failed move leaves the piece unchanged.
type Piece struct {
	Type  PieceType
	Shape [][]bool
	Col   int
	Row   int

	board *Board
}

// NewPiece places a fresh, unrotated piece of type t at the spawn position.
func NewPiece(b *Board, t PieceType) *Piece {
	shape := ShapeOf(t)
	return &Piece{
		Type:  t,
		Shape: shape,
		Col:   SpawnCol(b.Cols(), shape),
		Row:   0,
		board: b,
	}
}

func (p *Piece) Color() int {
	return ColorOf(p.Type)
}

// Fits reports whether the piece is free at its current position.
func (p *Piece) Fits() bool {
	return p.board.IsFree(p.Shape, p.Col, p.Row)
}

func (p *Piece) TrySlide(dx int) bool {
	if !p.board.IsFree(p.Shape, p.Col+dx, p.Row) {
		return false
	}
	p.Col += dx
	return true
}

// TrySoftDrop moves the piece down one row. Gravity and the manual soft
// drop share it.
func (p *Piece) TrySoftDrop() bool {
	if !p.board.IsFree(p.Shape, p.Col, p.Row+1) {
		return false
	}
	p.Row++
	return true
}

// DropDistance is how many rows the piece can fall before resting.
func (p *Piece) DropDistance() int {
	d := 0
	for p.board.IsFree(p.Shape, p.Col, p.Row+d+1) {
		d++
	}
	return d
}

// GhostRow is the row the piece would rest at after a hard drop.
func (p *Piece) GhostRow() int {
	return p.Row + p.DropDistance()
}

// HardDrop moves the piece to its resting row and returns the distance.
// Locking is left to the session.
func (p *Piece) HardDrop() int {
	d := p.DropDistance()
	p.Row += d
	return d
}

// TryRotate turns the piece clockwise in place. There is no wall kick:
// if the rotated shape collides the piece is left as it was.
func (p *Piece) TryRotate() bool {
	rotated := Rotate(p.Shape)
	if !p.board.IsFree(rotated, p.Col, p.Row) {
		return false
	}
	p.Shape = rotated
	return true
}
