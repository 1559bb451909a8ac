package prometheus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mateon/actorun/core/actor"
	"github.com/mateon/actorun/core/metrics"
)

// poolMetrics implements actor.PoolMetrics using Prometheus.
type poolMetrics struct {
	workerWait   *prometheus.HistogramVec
	actorRun     prometheus.Histogram
	mailboxDepth *prometheus.GaugeVec
	mailboxes    prometheus.Gauge
	hatchedTotal prometheus.Counter
	diedTotal    *prometheus.CounterVec
}

// NewPoolMetrics creates a Prometheus implementation of actor.PoolMetrics
// and registers its collectors with reg.
func NewPoolMetrics(reg prometheus.Registerer) actor.PoolMetrics {
	m := &poolMetrics{
		workerWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actorun_worker_wait_seconds",
			Help:    "Time a worker goroutine spent idle waiting for runnable work",
			Buckets: defaultBuckets,
		}, []string{"worker_id"}),

		actorRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "actorun_actor_run_seconds",
			Help:    "Duration of a single actor resume slice",
			Buckets: defaultBuckets,
		}),

		mailboxDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "actorun_actor_mailbox_depth",
			Help: "Mailbox queue depth immediately after a send",
		}, []string{"actor_id"}),

		mailboxes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actorun_pool_mailboxes",
			Help: "Number of currently live actor mailboxes",
		}),

		hatchedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actorun_actor_hatched_total",
			Help: "Total number of actors hatched",
		}),

		diedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actorun_actor_terminated_total",
			Help: "Total number of actors terminated, by whether they panicked",
		}, []string{"panicked"}),
	}

	reg.MustRegister(
		m.workerWait,
		m.actorRun,
		m.mailboxDepth,
		m.mailboxes,
		m.hatchedTotal,
		m.diedTotal,
	)

	return m
}

func (m *poolMetrics) WorkerWaitDuration(workerID int) metrics.Timer {
	return newTimer(m.workerWait.WithLabelValues(strconv.Itoa(workerID)))
}

func (m *poolMetrics) ActorRunDuration(actor.ActorID) metrics.Timer {
	return newTimer(m.actorRun)
}

func (m *poolMetrics) MailboxDepth(id actor.ActorID, depth int) {
	m.mailboxDepth.WithLabelValues(strconv.FormatUint(uint64(id), 10)).Set(float64(depth))
}

func (m *poolMetrics) ActorHatched() {
	m.hatchedTotal.Inc()
}

func (m *poolMetrics) ActorTerminated(reason string) {
	panicked := len(reason) >= 6 && reason[:6] == "panic:"
	m.diedTotal.WithLabelValues(boolToStr(panicked)).Inc()
}

func (m *poolMetrics) MailboxesGauge(count int) {
	m.mailboxes.Set(float64(count))
}

var _ actor.PoolMetrics = (*poolMetrics)(nil)
