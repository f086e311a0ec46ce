package net

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// connHandler processes one queued task (a net.Conn) under the gateway's
// tomb. Returning a non-nil error is fatal to the whole pool, matching the
// teacher's "any worker error is fatal" convention.
type connHandler func(t *tomb.Tomb, task any) error

// connPool runs up to n instances of connHandler concurrently against a
// shared connection queue, bounding how many client connections the gateway
// services at once (spec.md §6's "worker-pool size for batch submitters",
// repurposed here for inbound connections rather than outbound batches).
type connPool struct {
	n     int
	tasks chan any
	work  connHandler
}

func newConnPool(size int) connPool {
	return connPool{
		tasks: make(chan any, taskChanSize),
		n:     size,
	}
}

// addTask enqueues a connection for some idle worker to service next.
func (p *connPool) addTask(task any) {
	p.tasks <- task
}

// setup keeps exactly n workers running work under t until t starts dying.
func (p *connPool) setup(t *tomb.Tomb, work connHandler) {
	p.work = work
	log.Info().Int("workers", p.n).Msg("net: starting connection pool")
	var active atomic.Int64
	for {
		select {
		case <-t.Dying():
			return
		default:
			if active.Load() < int64(p.n) {
				active.Add(1)
				t.Go(func() error {
					err := p.run(t)
					active.Add(-1)
					return err
				})
			}
		}
	}
}

func (p *connPool) run(t *tomb.Tomb) error {
	select {
	case <-t.Dying():
		return nil
	case task := <-p.tasks:
		if err := p.work(t, task); err != nil {
			log.Error().Err(err).Msg("net: connection task failed")
			return err
		}
	}
	return nil
}
