package actor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/singleflight"

	"github.com/mateon/actorun/core/cache"
)

// wakeByte is written to Options.EventWakeWriter once per Send routed to
// Options.EventQueueActorID.
var wakeByte = []byte{'x'}

// Options configures a Pool.
type Options struct {
	// Workers is the number of goroutines that execute actor slices
	// concurrently. Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives structured lifecycle logging. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics receives telemetry for every slice, hatch, and termination.
	// Defaults to a no-op implementation.
	Metrics PoolMetrics

	// DiagnosticsSize bounds how many terminated actors' exit reasons the
	// pool remembers, evicting the least-recently-used once full. Defaults
	// to 256.
	DiagnosticsSize int

	// DiagnosticsTTL bounds how long a terminated actor's exit reason is
	// kept before eviction, regardless of DiagnosticsSize. Zero means no
	// TTL (size-bound only).
	DiagnosticsTTL time.Duration

	// MailboxSize hints the initial capacity of each hatched actor's
	// mailbox, avoiding reallocation for a known-ish message volume. Zero
	// means no hint: mailboxes grow from empty as usual.
	MailboxSize int

	// PollInterval bounds how often Run's supervision loop re-emits the
	// stats.mailboxes gauge while the pool still has live actors. Defaults
	// to 20ms.
	PollInterval time.Duration

	// EventQueueActorID, paired with EventWakeWriter, designates one actor
	// as an external event loop's mailbox: every Send routed to this id
	// also writes one byte to EventWakeWriter, so a poller built on
	// epoll/kqueue/IOCP can be woken without polling the mailbox itself.
	// The zero value (System) disables this feature.
	EventQueueActorID ActorID

	// EventWakeWriter receives one byte per Send routed to
	// EventQueueActorID. The write is best-effort: a failed or short write
	// is retried a few times, then logged and dropped — a lost wake byte
	// never fails the Send itself. Nil disables event-queue waking.
	EventWakeWriter io.Writer
}

func (o *Options) setDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = NopPoolMetrics()
	}
	if o.DiagnosticsSize <= 0 {
		o.DiagnosticsSize = 256
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 20 * time.Millisecond
	}
}

// eventWakeEnabled reports whether o names a real destination and a writer
// to wake it through.
func (o *Options) eventWakeEnabled() bool {
	return o.EventQueueActorID != System && o.EventWakeWriter != nil
}

// PoolStats is a point-in-time summary returned by Snapshot.
type PoolStats struct {
	RunID     string
	Live      []ActorID
	LiveCount int
}

// Pool owns a fixed set of workers, the mailbox index, the run queue, and
// the bookkeeping needed to hatch actors, deliver messages between them,
// and report on the system's state. The zero Pool is not usable; construct
// one with New.
type Pool struct {
	runID string
	opts  Options
	log   *slog.Logger

	metrics PoolMetrics

	hub   *mailHub
	sched *scheduler

	mu            sync.RWMutex
	actors        map[ActorID]*actorHandle
	quiescentCond *sync.Cond
	shuttingDown  bool

	nextID atomic.Uint64

	diagLRU *cache.LRU
	diag    cache.TypedCache[string]

	// snapshotGroup coalesces concurrent Snapshot callers onto a single
	// pool-lock acquisition: building the live-id list is cheap, but
	// there's no reason a burst of callers should each pay for it.
	snapshotGroup singleflight.Group

	wg      sync.WaitGroup
	workers []*worker

	closed atomic.Bool
}

// New starts a Pool with opts.Workers worker goroutines already running.
func New(opts Options) *Pool {
	opts.setDefaults()

	diagLRU := cache.NewLRU(cache.LRUOpts{Size: opts.DiagnosticsSize})

	p := &Pool{
		runID:   gonanoid.Must(8),
		opts:    opts,
		metrics: opts.Metrics,
		hub:     newMailHub(),
		sched:   newScheduler(),
		actors:  make(map[ActorID]*actorHandle),
		diagLRU: diagLRU,
		diag:    cache.NewTyped[string](diagLRU),
	}
	p.quiescentCond = sync.NewCond(&p.mu)
	p.log = opts.Logger.With(slog.String("pool_run_id", p.runID))

	p.workers = make([]*worker, opts.Workers)
	p.wg.Add(opts.Workers)
	for i := range p.workers {
		w := &worker{id: i, pool: p, log: p.log}
		p.workers[i] = w
		go w.run()
	}

	p.log.Info("actor pool started", slog.Int("workers", opts.Workers))
	return p
}

// Hatch starts a new top-level actor with no supervising parent: nothing
// receives a Died notification when it terminates.
func (p *Pool) Hatch(behavior Behavior) (ActorID, error) {
	return p.hatch(System, behavior)
}

// Send delivers msg to id from outside the actor system.
func (p *Pool) Send(to ActorID, msg any) error {
	return p.send(System, to, msg)
}

// Snapshot returns a point-in-time view of the pool's live actors, with
// Live sorted by ActorID for deterministic output.
func (p *Pool) Snapshot() PoolStats {
	v, _, _ := p.snapshotGroup.Do("snapshot", func() (any, error) {
		p.mu.RLock()
		live := make([]ActorID, 0, len(p.actors))
		for id := range p.actors {
			live = append(live, id)
		}
		p.mu.RUnlock()

		sort.Slice(live, func(i, j int) bool { return live[i] < live[j] })

		return PoolStats{
			RunID:     p.runID,
			Live:      live,
			LiveCount: len(live),
		}, nil
	})
	return v.(PoolStats)
}

// TerminatedReason returns the exit reason recorded for id, if it
// terminated recently enough to still be in the diagnostics cache.
func (p *Pool) TerminatedReason(id ActorID) (string, bool) {
	return p.diag.Get(diagKey(id))
}

// Run blocks until every actor has terminated or ctx is done, then stops
// all worker goroutines before returning. It returns ctx.Err() if ctx
// ended the wait early, nil if the pool went quiescent on its own. While
// waiting, it re-emits the stats.mailboxes gauge every Options.PollInterval,
// independent of the (event-driven, not polled) quiescence check itself.
func (p *Pool) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.mu.Lock()
		for len(p.actors) > 0 && !p.shuttingDown {
			p.quiescentCond.Wait()
		}
		p.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			p.Shutdown()
			return nil
		case <-ctx.Done():
			p.Shutdown()
			<-done
			return ctx.Err()
		case <-ticker.C:
			p.mu.RLock()
			count := len(p.actors)
			p.mu.RUnlock()
			p.metrics.MailboxesGauge(count)
		}
	}
}

// Shutdown stops accepting new work and joins every worker goroutine.
// Idempotent; safe to call concurrently with Run.
func (p *Pool) Shutdown() {
	if !p.closed.CompareAndSwap(false, true) {
		p.wg.Wait()
		return
	}
	p.mu.Lock()
	p.shuttingDown = true
	p.quiescentCond.Broadcast()
	p.mu.Unlock()

	p.sched.close()
	p.wg.Wait()
	p.diagLRU.Close()
	p.log.Info("actor pool stopped", slog.String("pool_run_id", p.runID))
}

func (p *Pool) hatch(parent ActorID, behavior Behavior) (ActorID, error) {
	if p.closed.Load() {
		return 0, ErrPoolClosed
	}

	id := ActorID(p.nextID.Add(1))
	box, err := p.hub.register(id, p.opts.MailboxSize)
	if err != nil {
		return 0, err
	}
	handle := newActorHandle(p, id, parent, box)

	p.mu.Lock()
	p.actors[id] = handle
	count := len(p.actors)
	p.mu.Unlock()

	p.sched.track(id)
	p.metrics.ActorHatched()
	p.metrics.MailboxesGauge(count)

	go handle.run(behavior)
	return id, nil
}

func (p *Pool) send(from, to ActorID, msg any) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	payload, err := isolate(msg)
	if err != nil {
		return err
	}
	box, ok := p.hub.get(to)
	if !ok {
		// Destination doesn't exist or has already terminated: dropped
		// silently, not an error. Blocking the sender or complicating every
		// call site with a delivery-failure path isn't worth it.
		return nil
	}
	box.push(envelope{From: from, To: to, Payload: payload})
	p.metrics.MailboxDepth(to, box.len())
	p.sched.wake(to)

	if p.opts.eventWakeEnabled() && to == p.opts.EventQueueActorID {
		p.writeWakeByte()
	}
	return nil
}

// writeWakeByte writes one byte to Options.EventWakeWriter, tolerating a
// short write or a transient error with a few retries before giving up.
// Per the wake-fd contract this is at-least-one-byte-per-burst, not a
// message channel, so a dropped byte after every retry is logged and
// otherwise ignored rather than failing the Send that triggered it.
func (p *Pool) writeWakeByte() {
	const maxAttempts = 3
	var err error
	for i := 0; i < maxAttempts; i++ {
		var n int
		n, err = p.opts.EventWakeWriter.Write(wakeByte)
		if err == nil && n == len(wakeByte) {
			return
		}
	}
	p.log.Debug("event wake write failed", slog.Any("error", err))
}

func (p *Pool) lookup(id ActorID) *actorHandle {
	p.mu.RLock()
	h := p.actors[id]
	p.mu.RUnlock()
	return h
}

func (p *Pool) terminate(h *actorHandle, reason string) {
	p.sched.remove(h.id)
	p.hub.unregister(h.id)

	p.mu.Lock()
	delete(p.actors, h.id)
	remaining := len(p.actors)
	if remaining == 0 {
		p.quiescentCond.Broadcast()
	}
	p.mu.Unlock()

	p.diag.Put(diagKey(h.id), reason, cache.WithTTL(p.opts.DiagnosticsTTL))
	p.metrics.ActorTerminated(reason)
	p.metrics.MailboxesGauge(remaining)

	p.log.Debug("actor terminated",
		slog.Uint64("actor_id", uint64(h.id)),
		slog.String("reason", reason))

	if h.parent != System {
		if err := p.send(System, h.parent, Died{ID: h.id, Reason: reason}); err != nil {
			p.log.Debug("dropped died notification",
				slog.Uint64("actor_id", uint64(h.id)),
				slog.Any("error", err))
		}
	}
}

func diagKey(id ActorID) string {
	return fmt.Sprintf("actor:%d", id)
}
