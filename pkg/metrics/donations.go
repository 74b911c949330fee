package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DonationMetrics records the outcome and size of donation transactions.
type DonationMetrics struct {
	submitted *prometheus.CounterVec
	amounts   *prometheus.HistogramVec
	duration  *prometheus.HistogramVec
}

// NewDonationMetrics registers the donation metrics on the provided registerer.
func NewDonationMetrics(reg prometheus.Registerer) *DonationMetrics {
	if reg == nil {
		return &DonationMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "donations_submitted_total",
		Help: "Donation submissions partitioned by terminal outcome.",
	}, []string{"outcome"})
	amounts := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "donation_amount_minor_units",
		Help:    "Applied donation amounts in minor units.",
		Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 50000, 100000, 1000000},
	}, []string{"currency"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "donation_apply_duration_seconds",
		Help:    "Duration of the atomic donation apply step.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(submitted, amounts, duration)
	return &DonationMetrics{
		submitted: submitted,
		amounts:   amounts,
		duration:  duration,
	}
}

// IncOutcome counts a donation submission with the given terminal outcome.
func (d *DonationMetrics) IncOutcome(outcome string) {
	if d == nil || d.submitted == nil {
		return
	}
	d.submitted.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveAmount records an applied donation amount.
func (d *DonationMetrics) ObserveAmount(currency string, amountMinorUnits int64) {
	if d == nil || d.amounts == nil {
		return
	}
	d.amounts.WithLabelValues(normalizeLabel(currency)).Observe(float64(amountMinorUnits))
}

// ObserveApplyDuration records how long the apply step took.
func (d *DonationMetrics) ObserveApplyDuration(outcome string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
