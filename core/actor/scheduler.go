package actor

import "sync"

type runState int

const (
	stateIdle runState = iota
	stateQueued
	stateRunning
)

// scheduler owns the run queue and the parked set for a Pool's actors. At
// any instant a tracked id is in exactly one of {stateIdle, stateQueued,
// stateRunning}; an id absent from state has terminated and been removed
// entirely. A single mutex plus condition variable guards both the FIFO of
// runnable ids and the map of parked ones, so a worker blocking on Next
// never races a Send that's trying to wake an idle actor.
type scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	workQ  []ActorID
	state  map[ActorID]runState
	closed bool
}

func newScheduler() *scheduler {
	s := &scheduler{state: make(map[ActorID]runState)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// track registers a newly hatched actor and immediately queues it for its
// first resume slice: pushed onto the work queue's tail with the condition
// variable signaled, exactly like wake/requeue. A hatched actor's body must
// never run except as a worker's resume slice — leaving it merely idle here
// would let a Send race the new goroutine's own start and strand it (wake
// finds it already idle and queues it, a worker dequeues it and blocks
// forever on resumeCh because nothing is listening yet).
func (s *scheduler) track(id ActorID) {
	s.mu.Lock()
	s.state[id] = stateQueued
	s.workQ = append(s.workQ, id)
	s.cond.Signal()
	s.mu.Unlock()
}

// wake moves id from idle to the tail of the run queue. A no-op if id is
// already queued or currently running a slice: if that slice ends with Recv
// finding an empty mailbox, the worker re-checks the mailbox and requeues it
// itself; a slice that ends in Park parks the actor regardless.
func (s *scheduler) wake(id ActorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.state[id]; !ok || st != stateIdle {
		return
	}
	s.state[id] = stateQueued
	s.workQ = append(s.workQ, id)
	s.cond.Signal()
}

// requeue unconditionally puts id at the tail of the run queue, used when a
// slice ends with more mailbox work pending or the actor called Backoff.
func (s *scheduler) requeue(id ActorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state[id]; !ok {
		return
	}
	s.state[id] = stateQueued
	s.workQ = append(s.workQ, id)
	s.cond.Signal()
}

// park moves id to idle, used when Park is called or a slice ends with an
// empty mailbox. It only leaves the idle state again once something Sends
// to it.
func (s *scheduler) park(id ActorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state[id]; !ok {
		return
	}
	s.state[id] = stateIdle
}

// remove drops id from tracking entirely, called on termination.
func (s *scheduler) remove(id ActorID) {
	s.mu.Lock()
	delete(s.state, id)
	s.mu.Unlock()
}

// next blocks until an id is runnable or the scheduler is closed, marking
// the returned id as running before handing it to the caller.
func (s *scheduler) next() (ActorID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.workQ) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.workQ) == 0 {
		return 0, false
	}
	id := s.workQ[0]
	s.workQ = s.workQ[1:]
	s.state[id] = stateRunning
	return id, true
}

// close unblocks every worker parked in next.
func (s *scheduler) close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// quiescent reports whether no actor is tracked at all (all terminated).
func (s *scheduler) quiescent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state) == 0
}
