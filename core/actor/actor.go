package actor

import (
	"fmt"
	"runtime/debug"
)

// actorHandle is the runtime's private record of a hatched actor. It owns
// the two unbuffered channels that make up the resume/yield rendezvous
// with whichever worker goroutine is currently running this actor's
// current slice, plus the actor's own mailbox and parentage.
type actorHandle struct {
	id      ActorID
	parent  ActorID
	pool    *Pool
	mailbox *mailbox

	resumeCh chan resumeSignal
	yieldCh  chan yieldSignal
}

func newActorHandle(pool *Pool, id, parent ActorID, box *mailbox) *actorHandle {
	return &actorHandle{
		id:       id,
		parent:   parent,
		pool:     pool,
		mailbox:  box,
		resumeCh: make(chan resumeSignal),
		yieldCh:  make(chan yieldSignal),
	}
}

// slice is the single rendezvous point used by every Ctx yield primitive. A
// worker is always on the other end of yieldCh by the time slice is called:
// run below never lets behavior take a single step until a worker has
// already sent the first resumeSignal and is sitting in its own receive on
// yieldCh, so there is no first-call special case to handle here.
func (a *actorHandle) slice(sig yieldSignal) resumeSignal {
	a.yieldCh <- sig
	return <-a.resumeCh
}

// run is the actor's dedicated goroutine: a green thread that lives for the
// actor's entire lifetime. It never executes a single instruction of
// behavior on its own — it waits for a worker to drive its first resume
// slice, the same way scheduler.track enqueued it for one, so a Send that
// lands the instant after Hatch returns always finds either a worker
// already listening on resumeCh or the id still sitting on the work queue,
// never a goroutine that started running unsupervised and raced ahead of
// the scheduler's bookkeeping.
func (a *actorHandle) run(behavior Behavior) {
	<-a.resumeCh

	ctx := &ctxImpl{actor: a}
	reason := "normal"

	func() {
		defer func() {
			if r := recover(); r != nil {
				reason = fmt.Sprintf("panic: %v\n%s", r, debug.Stack())
			}
		}()
		behavior(ctx)
	}()

	// Whether behavior ran for a single slice or never called Recv, Park, or
	// Backoff at all, the worker that sent the resume above is always still
	// waiting right here on yieldCh.
	a.yieldCh <- yieldSignal{kind: yieldTerminate, reason: reason}
}
