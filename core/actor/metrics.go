package actor

import "github.com/mateon/actorun/core/metrics"

// PoolMetrics defines the telemetry a Pool reports as actors run. All
// methods must be safe for concurrent use; implementations are called from
// worker goroutines on every slice.
type PoolMetrics interface {
	// WorkerWaitDuration times how long a worker sat idle waiting for
	// runnable work before it picked up its next actor.
	WorkerWaitDuration(workerID int) metrics.Timer

	// ActorRunDuration times a single resume slice for id.
	ActorRunDuration(id ActorID) metrics.Timer

	// MailboxDepth reports the queue length of id's mailbox right after a
	// message was pushed onto it.
	MailboxDepth(id ActorID, depth int)

	// ActorHatched is called once per successful Hatch.
	ActorHatched()

	// ActorTerminated is called once per actor termination, tagged with
	// its exit reason ("normal", "panic: ...", etc).
	ActorTerminated(reason string)

	// MailboxesGauge reports the current number of live mailboxes.
	MailboxesGauge(count int)
}

type nopPoolMetrics struct{}

func (nopPoolMetrics) WorkerWaitDuration(int) metrics.Timer  { return metrics.NopTimer() }
func (nopPoolMetrics) ActorRunDuration(ActorID) metrics.Timer { return metrics.NopTimer() }
func (nopPoolMetrics) MailboxDepth(ActorID, int)              {}
func (nopPoolMetrics) ActorHatched()                          {}
func (nopPoolMetrics) ActorTerminated(string)                 {}
func (nopPoolMetrics) MailboxesGauge(int)                     {}

// NopPoolMetrics returns a PoolMetrics implementation that discards
// everything, the default when Options.Metrics is unset.
func NopPoolMetrics() PoolMetrics { return nopPoolMetrics{} }
