package actor

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mateon/actorun/internal/reflector"
)

// ActorID uniquely identifies a hatched actor within a Pool. IDs are
// allocated from a monotonic counter starting at 1. ID 0 is reserved: it
// never names a real actor and is used as the From field of runtime-
// synthesized messages such as Died.
type ActorID uint64

// System is the reserved source identity for messages the runtime itself
// generates (Died notifications), and the parent id for actors hatched
// without a supervisor.
const System ActorID = 0

// Died is delivered to an actor's parent when one of its children
// terminates, unless the child was hatched with parent System, in which
// case no notification is sent.
type Died struct {
	ID     ActorID
	Reason string
}

// Envelope is what Recv returns: a message body plus the id of the actor
// that sent it, so a reply doesn't require the payload to carry the
// sender's own address redundantly.
type Envelope struct {
	Src  ActorID
	Body any
}

// envelope is a message in transit through a mailbox. Payload has already
// been isolated (deep-copied) from the sender's value by the time it's
// pushed, so From's and To's goroutines never share memory through it.
type envelope struct {
	From    ActorID
	To      ActorID
	Payload any
}

// isolate produces a value that shares no memory with v, by round-tripping
// it through JSON into a freshly allocated value of v's concrete type. This
// is the enforcement mechanism behind the no-aliasing guarantee on Send: a
// mutation the sender makes to v after the call cannot be observed
// by the receiver, and vice versa.
func isolate(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	isPtr := rv.Kind() == reflect.Pointer

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal %T: %v", ErrIsolationViolation, v, err)
	}

	ti := reflector.TypeInfoOf(v)
	if ti.Type == nil {
		return nil, fmt.Errorf("%w: no type info for %T", ErrIsolationViolation, v)
	}

	fresh := reflect.New(ti.Type)
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		return nil, fmt.Errorf("%w: unmarshal %T: %v", ErrIsolationViolation, v, err)
	}

	if isPtr {
		return fresh.Interface(), nil
	}
	return fresh.Elem().Interface(), nil
}
