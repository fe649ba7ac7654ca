package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons reported to Metrics.
const (
	SkipInvisible      = "invisible"
	SkipFiltered       = "filtered"
	SkipDimensionChild = "dimension_child"
	SkipAttdef         = "attdef"
	SkipMalformed      = "malformed"
	SkipUnexpected     = "unexpected"
)

// Metrics counts dispatcher activity. A nil *Metrics records nothing.
type Metrics struct {
	RecordsAppended   *prometheus.CounterVec
	PrimitivesSkipped *prometheus.CounterVec
	FramesEntered     *prometheus.CounterVec
	HatchLoopsDropped prometheus.Counter
}

// NewMetrics creates the dispatcher counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsAppended: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dwgdraw_records_appended_total",
				Help: "Geometry records appended, by block name.",
			},
			[]string{"block"},
		),
		PrimitivesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dwgdraw_primitives_skipped_total",
				Help: "Entities and primitives skipped, by reason.",
			},
			[]string{"reason"},
		),
		FramesEntered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dwgdraw_frames_entered_total",
				Help: "Block and entity frames entered, by kind.",
			},
			[]string{"kind"},
		),
		HatchLoopsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dwgdraw_hatch_loops_dropped_total",
				Help: "Hatch boundary loops left out of a region.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.RecordsAppended, m.PrimitivesSkipped, m.FramesEntered, m.HatchLoopsDropped)
	}
	return m
}

func (m *Metrics) recordAppended(block string) {
	if m == nil {
		return
	}
	m.RecordsAppended.WithLabelValues(block).Inc()
}

func (m *Metrics) skipped(reason string) {
	if m == nil {
		return
	}
	m.PrimitivesSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) frameEntered(kind string) {
	if m == nil {
		return
	}
	m.FramesEntered.WithLabelValues(kind).Inc()
}

func (m *Metrics) hatchLoopDropped() {
	if m == nil {
		return
	}
	m.HatchLoopsDropped.Inc()
}
