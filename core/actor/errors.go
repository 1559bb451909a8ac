package actor

import "errors"

var (
	// ErrIsolationViolation is returned when a message payload cannot be
	// copied across an actor boundary (it isn't JSON-representable, or the
	// round-tripped copy doesn't decode back into the original concrete type).
	ErrIsolationViolation = errors.New("actor: message isolation violation")

	// ErrAlreadyRegistered is returned by mailHub.register if the id is
	// already in use. Given ActorID is generated by a monotonic counter,
	// this indicates a bug in id allocation rather than caller error.
	ErrAlreadyRegistered = errors.New("actor: id already registered")

	// ErrPoolClosed is returned by Pool.Hatch and Pool.Send once Shutdown
	// has been called.
	ErrPoolClosed = errors.New("actor: pool is closed")
)
