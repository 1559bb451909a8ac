package actor

import "errors"

// Behavior is the body of an actor: a function that runs on its own
// goroutine for the actor's whole lifetime, calling Recv (or Park) at
// every point where it's willing to give up its execution slice. Behavior
// returning ends the actor normally; a panic inside it ends the actor with
// that panic's value as the termination reason.
type Behavior func(ctx Ctx)

// Ctx is the interface a Behavior uses to interact with the rest of the
// actor system. All methods are only safe to call from the goroutine
// running that actor's Behavior.
type Ctx interface {
	// Self returns this actor's identity.
	Self() ActorID

	// Recv blocks until a message is available and returns it, along with
	// the id of the actor that sent it. Recv yields only when the mailbox is
	// empty; a Recv that finds a message returns it within the current
	// non-preemptible resume slice.
	Recv() Envelope

	// Park unconditionally parks the actor, regardless of what's waiting
	// in its mailbox: it only resumes once some other actor Sends to it.
	// Unlike Recv, a pending message doesn't make Park return early — the
	// message just waits for the next Recv.
	Park()

	// Backoff yields the current slice and re-enqueues the actor at the
	// tail of the run queue, surrendering the worker to whatever else is
	// runnable before this actor gets another turn. Unlike Park, the
	// actor stays runnable the whole time; use it for voluntary fairness
	// rather than waiting on external input.
	Backoff()

	// Send delivers msg to the actor identified by to. The payload is
	// isolated (deep-copied) before delivery. Sending to a terminated or
	// unknown actor is not an error: the message is silently dropped. A
	// payload that cannot be isolated is fatal for the calling actor: Send
	// panics, unwinding to Behavior's caller, which terminates the actor
	// with an isolation-violation reason and notifies its parent.
	Send(to ActorID, msg any) error

	// Hatch starts a new actor running behavior, supervised by this actor:
	// if the child terminates, this actor's mailbox receives a Died{}.
	// behavior must not close over mutable state also reachable from the
	// caller — the runtime has no way to enforce this in Go, unlike the
	// isolation it can enforce on Send and Recv payloads. A Behavior is
	// code, not data, so Hatch never isolates it and never fails with
	// ErrIsolationViolation.
	Hatch(behavior Behavior) (ActorID, error)
}

type yieldKind int

const (
	yieldContinue yieldKind = iota
	yieldPark
	yieldBackoff
	yieldTerminate
)

type yieldSignal struct {
	kind   yieldKind
	reason string
}

// resumeSignal carries nothing: it's purely the worker's "your turn" ping.
// Only Recv ever consumes a mailbox entry, and it does so directly against
// the actor's own mailbox rather than through this rendezvous, so that a
// resume triggered by Park or Backoff can never accidentally eat a message
// the actor hasn't asked for yet.
type resumeSignal struct{}

type ctxImpl struct {
	actor *actorHandle
}

func (c *ctxImpl) Self() ActorID { return c.actor.id }

func (c *ctxImpl) Recv() Envelope {
	for {
		if env, ok := c.actor.mailbox.pop(); ok {
			return Envelope{Src: env.From, Body: env.Payload}
		}
		c.actor.slice(yieldSignal{kind: yieldContinue})
	}
}

func (c *ctxImpl) Park() {
	c.actor.slice(yieldSignal{kind: yieldPark})
}

func (c *ctxImpl) Backoff() {
	c.actor.slice(yieldSignal{kind: yieldBackoff})
}

func (c *ctxImpl) Send(to ActorID, msg any) error {
	err := c.actor.pool.send(c.actor.id, to, msg)
	if errors.Is(err, ErrIsolationViolation) {
		panic(err)
	}
	return err
}

func (c *ctxImpl) Hatch(behavior Behavior) (ActorID, error) {
	return c.actor.pool.hatch(c.actor.id, behavior)
}

var _ Ctx = (*ctxImpl)(nil)
