// Package actor provides a lightweight, in-process actor runtime: each
// actor runs on its own goroutine, exchanges isolated (deep-copied)
// messages through a per-actor mailbox, and is scheduled cooperatively in
// non-preemptible resume slices bounded by calls to Ctx.Recv, Ctx.Park, or
// Ctx.Backoff.
//
// # Creating a Pool
//
// A Pool owns a fixed set of worker goroutines that execute actor slices:
//
//	pool := actor.New(actor.Options{Workers: 4})
//	defer pool.Shutdown()
//
// # Hatching Actors
//
// Behaviors are plain functions that call ctx.Recv in a loop:
//
//	id, err := pool.Hatch(func(ctx actor.Ctx) {
//	    for {
//	        env := ctx.Recv()
//	        switch msg := env.Body.(type) {
//	        case Ping:
//	            ctx.Send(env.Src, Pong{})
//	        case Stop:
//	            return
//	        }
//	    }
//	})
//
// Hatching from inside a running actor via ctx.Hatch makes the new actor a
// child: if it terminates, the parent's mailbox receives a [Died].
//
// # Messaging
//
// Send isolates its payload by round-tripping it through JSON into a fresh
// value of the same concrete type, so no two actors ever share memory
// through a message. Unexported fields are not carried across: they arrive
// zero-valued. Hatch does not isolate its Behavior. Sending to a terminated
// or unknown actor is not an error — the message is simply dropped. A
// payload that can't be isolated (a channel, a func) is fatal for the
// calling actor: Ctx.Send panics, and the panic recovers into a normal
// termination with the isolation failure as the exit reason. Pool.Send,
// called from outside any actor, returns ErrIsolationViolation instead.
//
// # Shutdown
//
// Run blocks until every hatched actor has terminated (or ctx is
// cancelled), then stops the worker pool:
//
//	if err := pool.Run(ctx); err != nil {
//	    // ctx was cancelled before quiescence
//	}
package actor
