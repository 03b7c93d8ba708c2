package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPool(t *testing.T, pool *WorkingPool) (cancel context.CancelFunc, wait func()) {
	t.Helper()

	ctx, cancelCtx := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go pool.Start(ctx, &wg)

	return cancelCtx, wg.Wait
}

func TestWorkingPool_RunsSubmittedJobs(t *testing.T) {
	pool := NewWorkingPool(2, 16)
	cancel, wait := startPool(t, pool)

	var executed atomic.Int32
	done := make(chan struct{})
	for range 8 {
		ok := pool.Submit(func(ctx context.Context) {
			if executed.Add(1) == 8 {
				close(done)
			}
		})
		require.True(t, ok)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not finish in time")
	}

	cancel()
	wait()
	assert.Equal(t, int32(8), executed.Load())
}

func TestWorkingPool_SubmitRejectsWhenSaturated(t *testing.T) {
	// No workers started: the channel fills and Submit must refuse rather
	// than block the caller.
	pool := NewWorkingPool(1, 2)

	assert.True(t, pool.Submit(func(ctx context.Context) {}))
	assert.True(t, pool.Submit(func(ctx context.Context) {}))
	assert.False(t, pool.Submit(func(ctx context.Context) {}))
}

func TestWorkingPool_RecoversFromPanickingJob(t *testing.T) {
	pool := NewWorkingPool(1, 4)
	cancel, wait := startPool(t, pool)

	survived := make(chan struct{})
	require.True(t, pool.Submit(func(ctx context.Context) {
		panic("validation blew up")
	}))
	require.True(t, pool.Submit(func(ctx context.Context) {
		close(survived)
	}))

	select {
	case <-survived:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panicking job")
	}

	cancel()
	wait()
}

func TestWorkingPool_StopsOnCancel(t *testing.T) {
	pool := NewWorkingPool(3, 8)
	cancel, wait := startPool(t, pool)

	cancel()

	stopped := make(chan struct{})
	go func() {
		wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not shut down after cancel")
	}
}
