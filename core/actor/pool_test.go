package actor

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPool(workers int) *Pool {
	return New(Options{Workers: workers, Logger: testLogger()})
}

type Ping struct {
	Seq int
}

type Pong struct {
	Seq int
}

// TestPool_PingPongDied hatches a parent that hatches a child, has the
// child round-trip a Ping/Pong with a sibling actor, and checks that the
// parent's mailbox receives a Died once the child terminates. Neither Ping
// nor Pong carries a sender field: Envelope.Src supplies it.
func TestPool_PingPongDied(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Shutdown()

	ponger, err := pool.Hatch(func(ctx Ctx) {
		env := ctx.Recv()
		ping := env.Body.(Ping)
		_ = ctx.Send(env.Src, Pong{Seq: ping.Seq + 1})
	})
	require.NoError(t, err)

	pongCh := make(chan Pong, 1)
	diedCh := make(chan Died, 1)

	_, err = pool.Hatch(func(ctx Ctx) {
		_, herr := ctx.Hatch(func(cctx Ctx) {
			_ = cctx.Send(ponger, Ping{Seq: 1})
			pongCh <- cctx.Recv().Body.(Pong)
		})
		if herr != nil {
			return
		}
		diedCh <- ctx.Recv().Body.(Died)
	})
	require.NoError(t, err)

	select {
	case pong := <-pongCh:
		require.Equal(t, 2, pong.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for pong")
	}

	select {
	case d := <-diedCh:
		require.Equal(t, "normal", d.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for died")
	}
}

// TestPool_HatchThenImmediateSendNeverStrandsWorker repeatedly reproduces
// the canonical S1 shape (hatch a child, immediately send to it, child recvs
// once, replies, and exits without ever calling Park or Backoff) with only
// two workers serving many such children back to back. Before Hatch queued
// the new id for a worker's first resume slice instead of just marking it
// idle, a Send landing before the new actor's own goroutine got scheduled
// could see the id idle, queue it, and have a worker block forever on a
// resumeCh nobody was listening to yet — eventually starving the pool. This
// runs enough iterations that a reintroduced race would hang the test.
func TestPool_HatchThenImmediateSendNeverStrandsWorker(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Shutdown()

	const n = 500
	repliesCh := make(chan int, n)

	for i := 0; i < n; i++ {
		i := i
		child, err := pool.Hatch(func(ctx Ctx) {
			env := ctx.Recv()
			repliesCh <- env.Body.(int)
		})
		require.NoError(t, err)
		require.NoError(t, pool.Send(child, i))
	}

	seen := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		select {
		case v := <-repliesCh:
			seen[v] = true
		case <-time.After(5 * time.Second):
			t.Fatalf("timeout: only %d of %d children replied, a worker is likely stranded", len(seen), n)
		}
	}
	require.Len(t, seen, n)
}

// TestPool_FanOut hatches 100 children from one parent and checks all of
// them ran, even though none of them ever calls Recv: every hatched actor is
// queued for a worker's first resume slice.
func TestPool_FanOut(t *testing.T) {
	pool := newTestPool(4)
	defer pool.Shutdown()

	const n = 100
	resultCh := make(chan int, n)

	_, err := pool.Hatch(func(ctx Ctx) {
		for i := 0; i < n; i++ {
			i := i
			_, _ = ctx.Hatch(func(Ctx) {
				resultCh <- i
			})
		}
		for i := 0; i < n; i++ {
			ctx.Recv()
		}
	})
	require.NoError(t, err)

	seen := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		select {
		case v := <-resultCh:
			seen[v] = true
		case <-time.After(5 * time.Second):
			t.Fatalf("timeout waiting for child %d of %d", i, n)
		}
	}
	require.Len(t, seen, n)
}

// TestPool_OrphanSend checks that sending to an id that never existed, and
// to one that has already terminated, is silently dropped rather than
// erroring: it never panics and never disturbs any other actor.
func TestPool_OrphanSend(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Shutdown()

	done := make(chan struct{})
	gone, err := pool.Hatch(func(ctx Ctx) {
		close(done)
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for actor to finish")
	}

	require.Eventually(t, func() bool {
		return pool.Send(gone, "too late") == nil
	}, time.Second, time.Millisecond)

	require.NoError(t, pool.Send(ActorID(999_999), "never existed"))

	// The pool must still be fully usable afterwards.
	got := make(chan string, 1)
	_, err = pool.Hatch(func(ctx Ctx) {
		got <- ctx.Recv().Body.(string)
	})
	require.NoError(t, err)
	require.NoError(t, pool.Send(mustLast(pool), "hi"))

	select {
	case msg := <-got:
		require.Equal(t, "hi", msg)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on freshly hatched actor")
	}
}

func mustLast(pool *Pool) ActorID {
	pool.mu.RLock()
	defer pool.mu.RUnlock()
	var last ActorID
	for id := range pool.actors {
		if id > last {
			last = id
		}
	}
	return last
}

// TestPool_Quiescence checks that Run returns once every hatched actor has
// terminated, and that the worker goroutines are actually joined.
func TestPool_Quiescence(t *testing.T) {
	pool := newTestPool(3)

	for i := 0; i < 10; i++ {
		_, err := pool.Hatch(func(ctx Ctx) {
			time.Sleep(time.Millisecond)
		})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, pool.Run(ctx))
	require.True(t, pool.sched.quiescent())
}

// TestPool_RunCancelled checks that Run reports ctx's error when the pool
// never goes quiescent in time, and still shuts the workers down.
func TestPool_RunCancelled(t *testing.T) {
	pool := newTestPool(1)

	block := make(chan struct{})
	_, err := pool.Hatch(func(ctx Ctx) {
		<-block
	})
	require.NoError(t, err)
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = pool.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
