// Package metrics exposes lot flow counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"lotflow/internal/changefeed"
	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/unit"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements the command metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	unitsStarted      *prometheus.CounterVec
	unitsOverproduced *prometheus.CounterVec
	decisions         *prometheus.CounterVec
	routingUndefined  *prometheus.CounterVec
	counterDesync     *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	changeFeedDropped *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
	jobFailures       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		unitsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotflow_units_started_total",
			Help: "Units created by StartProduction, per origin station",
		}, []string{"station"}),
		unitsOverproduced: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotflow_units_overproduced_total",
			Help: "Units created beyond the planned quantity of their order",
		}, []string{"station"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotflow_quality_decisions_total",
			Help: "Quality decisions applied, per decision",
		}, []string{"decision"}),
		routingUndefined: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotflow_routing_undefined_total",
			Help: "Approvals that found no route from the unit's station",
		}, []string{"station"}),
		counterDesync: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotflow_counter_desync_total",
			Help: "Rejections whose started counter was already zero or missing",
		}, []string{"station"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotflow_notifications_total",
			Help: "Notifications emitted, per kind",
		}, []string{"kind"}),
		changeFeedDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotflow_change_feed_dropped_total",
			Help: "Changes skipped for subscribers whose buffer was full",
		}, []string{"collection"}),
		jobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lotflow_job_duration_seconds",
			Help:    "Duration of scheduled job runs",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		jobFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotflow_job_failures_total",
			Help: "Scheduled job runs that returned an error",
		}, []string{"job"}),
	}
}

func (m *Metrics) UnitsStarted(station kernel.Station, count int) {
	m.unitsStarted.WithLabelValues(station.String()).Add(float64(count))
}

func (m *Metrics) UnitsOverproduced(station kernel.Station, count int) {
	m.unitsOverproduced.WithLabelValues(station.String()).Add(float64(count))
}

func (m *Metrics) DecisionApplied(decision unit.Decision) {
	m.decisions.WithLabelValues(decision.String()).Inc()
}

func (m *Metrics) RoutingUndefined(station kernel.Station) {
	m.routingUndefined.WithLabelValues(station.String()).Inc()
}

func (m *Metrics) CounterDesync(station kernel.Station) {
	m.counterDesync.WithLabelValues(station.String()).Inc()
}

func (m *Metrics) NotificationEmitted(kind notification.Kind) {
	m.notifications.WithLabelValues(kind.String()).Inc()
}

// ChangeFeedDropped matches the drop callback of changefeed.NewBroker.
func (m *Metrics) ChangeFeedDropped(collection changefeed.Collection) {
	m.changeFeedDropped.WithLabelValues(string(collection)).Inc()
}

// JobRun records one scheduled job execution.
func (m *Metrics) JobRun(job string, took time.Duration, err error) {
	m.jobDuration.WithLabelValues(job).Observe(took.Seconds())
	if err != nil {
		m.jobFailures.WithLabelValues(job).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
