// Package engine implements the single-instrument limit order book
// matching engine: admission, cancellation, modification, the matching
// loop, lifetime policies, the good-for-day pruner, and depth snapshots.
// Every exported method that touches book state takes the engine's single
// mutex; all except ModifyOrder and CancelOrders hold it for their entire
// duration (those two take it once per step). The matching loop runs in one
// acquisition and never suspends on I/O while holding it (spec.md §5).
package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"talon/internal/common"
	"talon/internal/config"
)

// Engine is the concurrency harness plus the book it guards. One Engine
// instance is assumed per symbol (spec.md §1: multi-symbol routing is out
// of scope).
type Engine struct {
	mu   sync.Mutex
	book *Book

	sequence int64

	reporter Reporter
	cfg      config.Config

	pruner       tomb.Tomb
	shutdownOnce sync.Once
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithReporter installs a Reporter that observes trades and rejections.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// SetReporter swaps the engine's Reporter after construction, for callers
// (the gateway's main, mirroring the teacher's `eng.SetReporter(srv)`) that
// need to break the construction cycle between an Engine and the Reporter
// built on top of it.
func (e *Engine) SetReporter(r Reporter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reporter = r
}

// WithConfig overrides the engine's environment-sourced configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// New constructs an Engine and starts its GFD pruner running in the
// background. Callers must call Shutdown to stop it.
func New(opts ...Option) *Engine {
	e := &Engine{
		book:     newBook(),
		reporter: noopReporter{},
		cfg: config.Config{
			UseThreads:        true,
			MaxWorkers:        8,
			SessionCloseLocal: "16:00",
		},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.pruner.Go(func() error {
		e.runPruner(&e.pruner)
		return nil
	})

	return e
}

// nextSequence assigns the next monotonically non-decreasing arrival
// sequence number. Must be called with mu held.
func (e *Engine) nextSequence() int64 {
	e.sequence++
	return e.sequence
}

// Size returns the number of resting orders across both sides of the book
// (spec.md §6), equal to the original Python source's `len(self._orders)`.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Index.Len()
}

// Shutdown stops the GFD pruner. It is idempotent — calling it more than
// once, or concurrently, is safe (spec.md §6).
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.pruner.Kill(nil)
		if err := e.pruner.Wait(); err != nil {
			log.Error().Err(err).Msg("engine: pruner exited with error")
		}
	})
}

func (e *Engine) now() time.Time {
	return time.Now()
}
