package engine

import (
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"talon/internal/common"
)

// runPruner wakes at the configured session-close boundary and cancels
// every resting GoodForDay order (spec.md §4.5). It follows the two-phase
// protocol the source itself warns is necessary: snapshot the ids to cancel
// under the lock, release it, then cancel — never holding the lock across
// an unbounded sweep.
func (e *Engine) runPruner(t *tomb.Tomb) {
	for {
		wait := e.untilNextClose()
		timer := time.NewTimer(wait)
		select {
		case <-t.Dying():
			timer.Stop()
			return
		case <-timer.C:
		}

		ids := e.snapshotGoodForDay()
		if len(ids) > 0 {
			e.CancelOrders(ids)
			log.Info().Int("count", len(ids)).Msg("engine: pruned good-for-day orders at session close")
		}
	}
}

// untilNextClose returns the duration until the next session-close
// boundary, rolling over to tomorrow if today's has already passed.
func (e *Engine) untilNextClose() time.Duration {
	now := e.now()
	close, err := e.cfg.SessionClose(now)
	if err != nil {
		// config.Load rejects a malformed close time and the engine's
		// default is valid, but New does not re-check one passed via
		// WithConfig; a minute-long retry beats a busy loop.
		log.Error().Err(err).Msg("engine: invalid session close, retrying in a minute")
		return time.Minute
	}
	if !close.After(now) {
		close = close.Add(24 * time.Hour)
	}
	return close.Sub(now)
}

// snapshotGoodForDay collects the ids of every currently resting
// GoodForDay order, without holding the lock across the cancel phase.
func (e *Engine) snapshotGoodForDay() []common.OrderID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Index.Snapshot(func(o *common.Order) bool {
		return o.Type == common.GoodForDay
	})
}
