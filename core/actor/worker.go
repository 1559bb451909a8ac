package actor

import "log/slog"

// worker is one of a Pool's fixed set of goroutines that actually execute
// actor slices. Workers themselves hold no actor state and never pop a
// mailbox: all they do is pull a runnable id off the scheduler, ping its
// resume rendezvous, and act on however the actor's own goroutine chooses
// to yield back, taking the mailbox lock only to decide atomically whether
// an actor whose Recv found nothing should park.
type worker struct {
	id   int
	pool *Pool
	log  *slog.Logger
}

func (w *worker) run() {
	defer w.pool.wg.Done()

	for {
		waitTimer := w.pool.metrics.WorkerWaitDuration(w.id)
		id, ok := w.pool.sched.next()
		waitTimer.ObserveDuration()
		if !ok {
			return
		}

		entry := w.pool.lookup(id)
		if entry == nil {
			// Terminated between being queued and being picked up.
			continue
		}

		runTimer := w.pool.metrics.ActorRunDuration(id)
		entry.resumeCh <- resumeSignal{}
		sig := <-entry.yieldCh
		runTimer.ObserveDuration()

		switch sig.kind {
		case yieldTerminate:
			w.pool.terminate(entry, sig.reason)

		case yieldPark:
			w.pool.sched.park(id)

		case yieldBackoff:
			w.pool.sched.requeue(id)

		default: // yieldContinue: Recv found an empty mailbox and yielded
			// The park decision has to happen atomically with the
			// emptiness check, under the mailbox's own lock: otherwise a
			// Send landing between a plain length check and sched.park
			// would push its message, see the actor still "running" in the
			// scheduler, and no-op its wake, stranding the message until
			// some unrelated later Send happens to arrive.
			if !entry.mailbox.parkIfEmpty(func() { w.pool.sched.park(id) }) {
				w.pool.sched.requeue(id)
			}
		}
	}
}
