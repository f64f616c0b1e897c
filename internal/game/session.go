package game

import "time"

// Phase is the session's position in the spawn/lock/clear cycle.
type Phase int

const (
	PhaseSpawning Phase = iota
	PhaseFalling
	PhaseLocking
	PhaseLineClearing
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseFalling:
		return "falling"
	case PhaseLocking:
		return "locking"
	case PhaseLineClearing:
		return "line_clearing"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

const (
	// LinesPerLevel is how many cleared lines advance the level by one.
	LinesPerLevel = 10
	// ClearAnimationSteps is the number of AnimationStep calls a fade takes.
	ClearAnimationSteps = 10

	defaultWidth   = 10
	defaultGravity = 500 * time.Millisecond
)

var lineScores = [...]int{0, 100, 300, 500, 800}

// LineScore is the base score for clearing n lines at once, before the
// level and difficulty multipliers.
func LineScore(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= len(lineScores) {
		return lineScores[len(lineScores)-1]
	}
	return lineScores[n]
}

// Config holds the values chosen before a session starts.
type Config struct {
	Width           int
	Gravity         time.Duration
	ScoreMultiplier int
	Seed            int64
	// HighScore is the previously persisted best score.
	HighScore int
	// AnimateClears holds completed rows on screen for ClearAnimationSteps
	// animation steps before they are removed.
	AnimateClears bool
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Gravity <= 0 {
		c.Gravity = defaultGravity
	}
	if c.ScoreMultiplier < 1 {
		c.ScoreMultiplier = 1
	}
	if c.HighScore < 0 {
		c.HighScore = 0
	}
	return c
}

type Option func(*Session)

func WithModifier(m Modifier) Option {
	return func(s *Session) {
		if m != nil {
			s.modifier = m
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithRand replaces the seeded source built from Config.Seed.
func WithRand(r Rand) Option {
	return func(s *Session) {
		s.gen = NewPieceGeneratorFrom(r)
	}
}

// Session runs one game from the first spawn to game over. It is not safe
// for concurrent use; a new game needs a new Session.
type Session struct {
	cfg      Config
	board    *Board
	gen      *PieceGenerator
	modifier Modifier
	recorder Recorder

	current *Piece
	next    PieceType
	held    PieceType
	canHold bool

	score     int
	level     int
	lines     int
	highScore int

	phase        Phase
	paused       bool
	clearingRows []int
	clearStep    int
}

func NewSession(cfg Config, opts ...Option) *Session {
	cfg = cfg.withDefaults()
	s := &Session{
		cfg:       cfg,
		board:     NewBoard(cfg.Width),
		modifier:  noModifier{},
		held:      NoPiece,
		canHold:   true,
		level:     1,
		highScore: cfg.HighScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = NewPieceGenerator(cfg.Seed)
	}
	s.next = s.gen.Next()
	s.spawn()
	return s
}

// spawn takes the queued type, queues a fresh one and places the new piece.
// A piece that does not fit ends the session.
func (s *Session) spawn() {
	s.phase = PhaseSpawning
	t := s.next
	s.next = s.gen.Next()
	s.current = NewPiece(s.board, t)
	if !s.current.Fits() {
		s.endGame()
		return
	}
	s.phase = PhaseFalling
}

func (s *Session) endGame() {
	s.phase = PhaseGameOver
	s.paused = false
	if s.score > s.highScore {
		s.highScore = s.score
	}
	if s.recorder != nil {
		s.recorder.RecordHighScore(s.highScore)
	}
}

// playable gates player actions. Pause only stops gravity.
func (s *Session) playable() bool {
	return s.phase == PhaseFalling
}

// Tick applies one gravity step. It reports whether the piece moved; a
// piece that cannot move is locked. Ticks are ignored while paused.
func (s *Session) Tick() bool {
	if s.paused || !s.playable() {
		return false
	}
	if s.current.TrySoftDrop() {
		return true
	}
	s.lock()
	return false
}

func (s *Session) lock() {
	s.phase = PhaseLocking
	p := s.current
	s.board.Lock(p.Shape, p.Col, p.Row, p.Color())

	s.phase = PhaseLineClearing
	if s.cfg.AnimateClears {
		if rows := s.board.FullRows(); len(rows) > 0 {
			s.clearingRows = rows
			s.clearStep = 0
			return
		}
	}
	s.compact()
}

func (s *Session) compact() {
	n := s.board.ClearFullLines()
	s.clearingRows = nil
	s.clearStep = 0
	s.award(n)

	s.canHold = true
	s.spawn()
}

func (s *Session) award(n int) {
	s.score += LineScore(n) * s.level * s.cfg.ScoreMultiplier
	s.lines += n
	if lvl := s.lines/LinesPerLevel + 1; lvl > s.level {
		s.level = lvl
	}
	if n > 0 {
		s.modifier.LinesCleared(n)
	}
}

// AnimationStep advances the clear fade by one step. When the fade ends the
// rows are removed, the score is updated and the next piece spawns. It
// reports whether the animation is still running. Pause does not stop it.
func (s *Session) AnimationStep() bool {
	if s.phase != PhaseLineClearing || len(s.clearingRows) == 0 {
		return false
	}
	s.clearStep++
	if s.clearStep < ClearAnimationSteps {
		return true
	}
	s.compact()
	return false
}

// Slide moves the piece one column left (dx < 0) or right (dx > 0).
func (s *Session) Slide(dx int) bool {
	if !s.playable() {
		return false
	}
	switch {
	case dx < 0:
		dx = -1
	case dx > 0:
		dx = 1
	default:
		return false
	}
	return s.current.TrySlide(dx)
}

func (s *Session) SoftDrop() bool {
	if !s.playable() {
		return false
	}
	return s.current.TrySoftDrop()
}

func (s *Session) Rotate() bool {
	if !s.playable() {
		return false
	}
	return s.current.TryRotate()
}

// HardDrop drops the piece to rest and locks it. It returns the number of
// rows travelled.
func (s *Session) HardDrop() int {
	if !s.playable() {
		return 0
	}
	d := s.current.HardDrop()
	s.lock()
	return d
}

// Hold sets the current piece aside, once per spawned piece. The first hold
// stores the type and brings in the next piece; later holds swap with the
// stored type, which restarts unrotated at the spawn position. A swapped-in
// piece that collides there ends the game, like a blocked spawn.
func (s *Session) Hold() bool {
	if !s.playable() || !s.canHold {
		return false
	}
	s.canHold = false

	if s.held == NoPiece {
		s.held = s.current.Type
		s.spawn()
		return true
	}

	s.held, s.current = s.current.Type, NewPiece(s.board, s.held)
	if !s.current.Fits() {
		s.endGame()
	}
	return true
}

// TogglePause freezes or resumes gravity. Player actions still apply.
func (s *Session) TogglePause() bool {
	if s.phase == PhaseGameOver {
		return false
	}
	s.paused = !s.paused
	return s.paused
}

// DropBottomRow removes the bottom row of the grid and shifts the rest down.
// It only applies while a piece is falling, so rows waiting to be cleared
// are never moved. It reports whether the grid changed.
func (s *Session) DropBottomRow() bool {
	if s.phase != PhaseFalling {
		return false
	}
	s.board.DropBottomRow()
	return true
}

// GravityPeriod is the time between gravity ticks at now.
func (s *Session) GravityPeriod(now time.Time) time.Duration {
	return s.modifier.GravityPeriod(s.cfg.Gravity, now)
}

func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Paused() bool { return s.paused }
func (s *Session) GameOver() bool { return s.phase == PhaseGameOver }
func (s *Session) Clearing() bool { return len(s.clearingRows) > 0 }
func (s *Session) Score() int { return s.score }
func (s *Session) Level() int { return s.level }
func (s *Session) Lines() int { return s.lines }
func (s *Session) Next() PieceType { return s.next }
func (s *Session) Held() PieceType { return s.held }
func (s *Session) CanHold() bool { return s.canHold }
func (s *Session) Cols() int { return s.board.Cols() }
func (s *Session) ScoreMultiplier() int { return s.cfg.ScoreMultiplier }
func (s *Session) Gravity() time.Duration { return s.cfg.Gravity }
func (s *Session) Cell(row, col int) int { return s.board.Cell(row, col) }
func (s *Session) FlatBoard() []int { return s.board.ToFlat() }
func (s *Session) ClearingRows() []int { return append([]int(nil), s.clearingRows...) }
func (s *Session) ActiveType() PieceType { return s.current.Type }
func (s *Session) ActiveOrigin() (int, int) { return s.current.Col, s.current.Row }

// HighScore is the best of the stored high score and the current score.
func (s *Session) HighScore() int {
	if s.score > s.highScore {
		return s.score
	}
	return s.highScore
}

// FadeProgress runs from 1 down to 0 while rows are being cleared and is 1
// otherwise.
func (s *Session) FadeProgress() float64 {
	if len(s.clearingRows) == 0 {
		return 1
	}
	return 1 - float64(s.clearStep)/float64(ClearAnimationSteps)
}

// ActivePiece is the renderer's view of the falling piece.
type ActivePiece struct {
	Type  PieceType
	Shape [][]bool
	Col   int
	Row   int
	Color int
}

// Snapshot is everything a renderer needs to draw one frame.
type Snapshot struct {
	Grid         [][]int
	Flat         []int // Grid in row-major order, as sent to the relay
	Cols         int
	Rows         int
	Active       ActivePiece
	GhostRow     int
	Next         PieceType
	Held         PieceType
	CanHold      bool
	Score        int
	Level        int
	Lines        int
	HighScore    int
	Paused       bool
	GameOver     bool
	Phase        Phase
	ClearingRows []int
	FadeProgress float64
}

func (s *Session) Snapshot() Snapshot {
	p := s.current
	shape := make([][]bool, len(p.Shape))
	for i := range p.Shape {
		shape[i] = append([]bool(nil), p.Shape[i]...)
	}
	return Snapshot{
		Grid: s.board.Grid(),
		Flat: s.FlatBoard(),
		Cols: s.board.Cols(),
		Rows: s.board.Rows(),
		Active: ActivePiece{
			Type:  p.Type,
			Shape: shape,
			Col:   p.Col,
			Row:   p.Row,
			Color: p.Color(),
		},
		GhostRow:     p.GhostRow(),
		Next:         s.next,
		Held:         s.held,
		CanHold:      s.canHold,
		Score:        s.score,
		Level:        s.level,
		Lines:        s.lines,
		HighScore:    s.HighScore(),
		Paused:       s.paused,
		GameOver:     s.GameOver(),
		Phase:        s.phase,
		ClearingRows: s.ClearingRows(),
		FadeProgress: s.FadeProgress(),
	}
}
