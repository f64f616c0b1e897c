package game

import "time"

// Modifier is an optional side channel the session consults. It sits
// outside the spawn/lock/clear cycle and cannot change its outcome.
type Modifier interface {
	// LinesCleared is called once per clear that removed at least one row.
	LinesCleared(n int)
	// GravityPeriod adjusts the configured gravity period.
	GravityPeriod(base time.Duration, now time.Time) time.Duration
}

// Recorder receives the high score when a session ends.
type Recorder interface {
	RecordHighScore(score int)
}

type noModifier struct{}

func (noModifier) LinesCleared(int) {}

func (noModifier) GravityPeriod(base time.Duration, _ time.Time) time.Duration {
	return base
}
