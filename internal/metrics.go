package internal

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks recorder activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	Recording      prometheus.Gauge
	EventsIngested *prometheus.CounterVec
	EventsDropped  *prometheus.CounterVec
	InputMerges    prometheus.Counter
	TabsRemoved    prometheus.Counter
	StepsBuilt     prometheus.Counter
}

// NewMetrics creates the recorder metrics on a private registry
func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		Recording: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "workflow_recorder",
			Name:      "recording",
			Help:      "1 while a recording is in progress",
		}),
		EventsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workflow_recorder",
			Name:      "events_ingested_total",
			Help:      "Events appended to a tab log, by kind",
		}, []string{"kind"}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workflow_recorder",
			Name:      "events_dropped_total",
			Help:      "Events dropped by policy, by reason",
		}, []string{"reason"}),
		InputMerges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workflow_recorder",
			Name:      "input_merges_total",
			Help:      "Input events folded into a previous edit",
		}),
		TabsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workflow_recorder",
			Name:      "tabs_removed_total",
			Help:      "Tab sessions dropped on tab removal",
		}),
		StepsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workflow_recorder",
			Name:      "steps_normalized_total",
			Help:      "Steps produced by normalization",
		}),
	}
	r.MustRegister(m.Recording, m.EventsIngested, m.EventsDropped, m.InputMerges, m.TabsRemoved, m.StepsBuilt)
	return m
}

// Registry returns the registry holding the recorder metrics
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// EventIngested counts an appended event
func (m *Metrics) EventIngested(kind EventKind) {
	if m == nil {
		return
	}
	m.EventsIngested.WithLabelValues(string(kind)).Inc()
}

// EventDropped counts a policy drop
func (m *Metrics) EventDropped(reason string) {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(reason).Inc()
}

// InputMerged counts a merged input edit
func (m *Metrics) InputMerged() {
	if m == nil {
		return
	}
	m.InputMerges.Inc()
}

// TabRemoved counts a dropped tab
func (m *Metrics) TabRemoved() {
	if m == nil {
		return
	}
	m.TabsRemoved.Inc()
}

// SetRecording reflects the recording state
func (m *Metrics) SetRecording(on bool) {
	if m == nil {
		return
	}
	if on {
		m.Recording.Set(1)
	} else {
		m.Recording.Set(0)
	}
}

// StepsNormalized counts produced steps
func (m *Metrics) StepsNormalized(n int) {
	if m == nil {
		return
	}
	m.StepsBuilt.Add(float64(n))
}
