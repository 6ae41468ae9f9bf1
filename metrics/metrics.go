package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "op_payload_builder"

type Metrics struct {
	registry *prometheus.Registry

	info prometheus.GaugeVec
	up   prometheus.Gauge

	buildAttempts *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	emptyPayloads *prometheus.CounterVec
	payloadFees   *prometheus.HistogramVec
}

var _ Metricer = (*Metrics)(nil)

func NewMetrics(procName string) *Metrics {
	if procName == "" {
		procName = "default"
	}
	ns := Namespace + "_" + procName

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,

		info: *factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "info",
			Help:      "Pseudo-metric tracking version and config info",
		}, []string{
			"version",
		}),
		up: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "up",
			Help:      "1 if the payload builder has finished starting up",
		}),

		buildAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "build_attempts_total",
			Help:      "Count of payload build attempts by builder and outcome",
		}, []string{"builder", "outcome"}),

		buildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "build_duration_seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			Help:      "Duration of one payload build attempt",
		}, []string{"builder"}),

		emptyPayloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "empty_payloads_total",
			Help:      "Count of empty payloads constructed as fallback",
		}, []string{"builder"}),

		payloadFees: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "payload_fees_wei",
			Buckets:   prometheus.ExponentialBuckets(1e9, 10, 12),
			Help:      "Fee total of sealed payloads, in wei",
		}, []string{"builder"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordInfo sets a pseudo-metric that contains versioning and config info.
func (m *Metrics) RecordInfo(version string) {
	m.info.WithLabelValues(version).Set(1)
}

// RecordUp sets the up metric to 1.
func (m *Metrics) RecordUp() {
	m.up.Set(1)
}

func (m *Metrics) RecordBuildAttempt(builder string) (onDone func(outcome string)) {
	timer := prometheus.NewTimer(m.buildDuration.WithLabelValues(builder))
	return func(outcome string) {
		timer.ObserveDuration()
		m.buildAttempts.WithLabelValues(builder, outcome).Inc()
	}
}

func (m *Metrics) RecordEmptyPayload(builder string) {
	m.emptyPayloads.WithLabelValues(builder).Inc()
}

func (m *Metrics) RecordPayloadFees(builder string, feesWei float64) {
	m.payloadFees.WithLabelValues(builder).Observe(feesWei)
}
