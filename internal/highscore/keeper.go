package highscore

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const opTimeout = 2 * time.Second

// Keeper wraps a Store for the game shell. Storage errors are logged and
// never reach the player: a failed load counts as 0, a failed save is
// dropped. It implements game.Recorder.
type Keeper struct {
	store Store
	log   *zap.Logger
}

func NewKeeper(store Store, log *zap.Logger) *Keeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Keeper{store: store, log: log}
}

// Load returns the stored high score, or 0 if it cannot be read.
func (k *Keeper) Load() int {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	score, err := k.store.Load(ctx)
	if err != nil {
		k.log.Warn("high score unreadable, starting from 0", zap.Error(err))
		return 0
	}
	return score
}

// RecordHighScore saves max(score, stored).
func (k *Keeper) RecordHighScore(score int) {
	best := score
	if prev := k.Load(); prev > best {
		best = prev
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := k.store.Save(ctx, best); err != nil {
		k.log.Warn("high score not saved", zap.Int("score", best), zap.Error(err))
		return
	}
	k.log.Info("high score saved", zap.Int("score", best))
}

func (k *Keeper) Close() error {
	return k.store.Close()
}
