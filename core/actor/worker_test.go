package actor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestPool_BackoffFairness is the classic fairness scenario: two actors
// each loop Backoff a fixed number of times, incrementing their own
// counter on every iteration. Neither actor ever blocks on a mailbox, so
// with only 2 workers serving 2 always-runnable actors, both counters must
// reach the target without one starving the other.
func TestPool_BackoffFairness(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Shutdown()

	const rounds = 1000
	var counterA, counterB atomic.Int64
	doneA := make(chan struct{})
	doneB := make(chan struct{})

	_, err := pool.Hatch(func(ctx Ctx) {
		for i := 0; i < rounds; i++ {
			counterA.Add(1)
			ctx.Backoff()
		}
		close(doneA)
	})
	require.NoError(t, err)

	_, err = pool.Hatch(func(ctx Ctx) {
		for i := 0; i < rounds; i++ {
			counterB.Add(1)
			ctx.Backoff()
		}
		close(doneB)
	})
	require.NoError(t, err)

	for _, ch := range []chan struct{}{doneA, doneB} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("timeout: A=%d B=%d of %d rounds", counterA.Load(), counterB.Load(), rounds)
		}
	}

	require.EqualValues(t, rounds, counterA.Load())
	require.EqualValues(t, rounds, counterB.Load())
}

// TestPool_BackoffManyRoundRobin generalizes the fairness scenario to more
// actors than workers, checking that a continuous Backoff loop on one
// actor can't starve the others out of the two available workers.
func TestPool_BackoffManyRoundRobin(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Shutdown()

	const actors = 5
	const rounds = 50

	doneCh := make(chan int, actors)
	for a := 0; a < actors; a++ {
		a := a
		_, err := pool.Hatch(func(ctx Ctx) {
			for i := 0; i < rounds; i++ {
				ctx.Backoff()
			}
			doneCh <- a
		})
		require.NoError(t, err)
	}

	seen := make(map[int]bool, actors)
	for i := 0; i < actors; i++ {
		select {
		case a := <-doneCh:
			seen[a] = true
		case <-time.After(5 * time.Second):
			t.Fatalf("timeout: only %d of %d actors finished, starvation suspected", len(seen), actors)
		}
	}
	require.Len(t, seen, actors)
}
