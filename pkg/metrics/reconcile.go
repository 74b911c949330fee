package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcileMetrics records metadata for the ledger reconciliation job.
type ReconcileMetrics struct {
	duration *prometheus.HistogramVec
	repaired *prometheus.CounterVec
	drift    *prometheus.GaugeVec
}

// NewReconcileMetrics registers the reconcile job metrics on the provided registerer.
func NewReconcileMetrics(reg prometheus.Registerer) *ReconcileMetrics {
	if reg == nil {
		return &ReconcileMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reconcile_duration_seconds",
		Help:    "Duration of reconciliation sweeps.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	repaired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_repaired_total",
		Help: "Campaign raised totals repaired by reconciliation.",
	}, []string{"job"})
	drift := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reconcile_drift_minor_units",
		Help: "Absolute drift found in the last sweep, in minor units.",
	}, []string{"job"})
	reg.MustRegister(duration, repaired, drift)
	return &ReconcileMetrics{
		duration: duration,
		repaired: repaired,
		drift:    drift,
	}
}

// ObserveDuration records the duration of a sweep.
func (r *ReconcileMetrics) ObserveDuration(job string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncRepaired counts a repaired campaign total.
func (r *ReconcileMetrics) IncRepaired(job string) {
	if r == nil || r.repaired == nil {
		return
	}
	r.repaired.WithLabelValues(normalizeLabel(job)).Inc()
}

// SetDrift records the absolute drift observed in the last sweep.
func (r *ReconcileMetrics) SetDrift(job string, driftMinorUnits int64) {
	if r == nil || r.drift == nil {
		return
	}
	r.drift.WithLabelValues(normalizeLabel(job)).Set(float64(driftMinorUnits))
}
