// Package shop implements the coin side channel: cleared lines earn coins
// that buy a temporary slow-down, removal of the bottom row, or a new
// block palette.
package shop

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/hersh/gotris-pro/internal/game"
)

const (
	CoinsPerLine = 10

	slowDownExtra    = 200 * time.Millisecond
	slowDownDuration = 5 * time.Second
)

var (
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrUnknownItem       = errors.New("unknown item")
	// ErrUnavailable means the item cannot apply right now, for example
	// while completed rows are being cleared.
	ErrUnavailable = errors.New("item unavailable right now")
)

type Item int

const (
	SlowDown Item = iota + 1
	ClearBottomRow
	Recolor
)

// Items lists what the shop sells, in menu order.
var Items = []Item{SlowDown, ClearBottomRow, Recolor}

func (i Item) Cost() int {
	switch i {
	case SlowDown:
		return 50
	case ClearBottomRow:
		return 100
	case Recolor:
		return 75
	}
	return 0
}

func (i Item) String() string {
	switch i {
	case SlowDown:
		return "Slow Down"
	case ClearBottomRow:
		return "Clear Bottom Row"
	case Recolor:
		return "Change Block Color"
	}
	return "Item(" + strconv.Itoa(int(i)) + ")"
}

// DefaultPalette holds one ANSI-256 color per piece type, indexed by
// game.PieceType.
var DefaultPalette = []string{
	"51",  // I cyan
	"226", // O yellow
	"201", // T magenta
	"21",  // J blue
	"208", // L orange
	"46",  // Z green
	"196", // S red
}

// RowClearer is the part of a session the bottom-row item needs.
// DropBottomRow reports whether the row was removed.
type RowClearer interface {
	DropBottomRow() bool
}

// Shop tracks coins and active purchases. It implements game.Modifier.
type Shop struct {
	coins     int
	slowUntil time.Time
	palette   []string
	rng       *rand.Rand
}

var _ game.Modifier = (*Shop)(nil)

func New(seed int64) *Shop {
	return &Shop{
		palette: append([]string(nil), DefaultPalette...),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// LinesCleared credits CoinsPerLine for each cleared line.
func (s *Shop) LinesCleared(n int) {
	if n > 0 {
		s.coins += n * CoinsPerLine
	}
}

// GravityPeriod lengthens the period while a slow-down is active.
func (s *Shop) GravityPeriod(base time.Duration, now time.Time) time.Duration {
	if now.Before(s.slowUntil) {
		return base + slowDownExtra
	}
	return base
}

// Buy spends coins on item. Coins are only taken when the purchase applies.
func (s *Shop) Buy(item Item, target RowClearer, now time.Time) error {
	cost := item.Cost()
	if cost == 0 {
		return fmt.Errorf("buy %d: %w", int(item), ErrUnknownItem)
	}
	if s.coins < cost {
		return fmt.Errorf("buy %s: have %d, need %d: %w", item, s.coins, cost, ErrInsufficientCoins)
	}

	switch item {
	case SlowDown:
		s.slowUntil = now.Add(slowDownDuration)
	case ClearBottomRow:
		if target == nil || !target.DropBottomRow() {
			return fmt.Errorf("buy %s: %w", item, ErrUnavailable)
		}
	case Recolor:
		for i := range s.palette {
			// 16..231 is the 6x6x6 color cube.
			s.palette[i] = strconv.Itoa(16 + s.rng.Intn(216))
		}
	}
	s.coins -= cost
	return nil
}

func (s *Shop) Coins() int { return s.coins }

// SlowedUntil reports when the current slow-down ends. It is the zero time
// if none was bought.
func (s *Shop) SlowedUntil() time.Time { return s.slowUntil }

// Palette returns a copy of the current block colors.
func (s *Shop) Palette() []string {
	return append([]string(nil), s.palette...)
}
