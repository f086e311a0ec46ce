package net

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"
)

func TestConnPool_ProcessesEveryTaskExactlyOnce(t *testing.T) {
	const numTasks = 20
	pool := newConnPool(4)

	var tb tomb.Tomb
	var processed int64
	tb.Go(func() error {
		pool.setup(&tb, func(_ *tomb.Tomb, task any) error {
			n := task.(int)
			atomic.AddInt64(&processed, int64(n))
			return nil
		})
		return nil
	})

	for i := 1; i <= numTasks; i++ {
		pool.addTask(1)
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&processed) == numTasks
	}, time.Second, time.Millisecond)

	tb.Kill(nil)
	_ = tb.Wait()
}

func TestConnPool_StopsAcceptingWorkAfterKill(t *testing.T) {
	pool := newConnPool(2)
	var tb tomb.Tomb
	tb.Go(func() error {
		pool.setup(&tb, func(_ *tomb.Tomb, task any) error { return nil })
		return nil
	})

	tb.Kill(nil)
	err := tb.Wait()
	assert.NoError(t, err)
}
