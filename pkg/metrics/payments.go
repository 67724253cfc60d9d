package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records the donation payment flow.
type PaymentMetrics struct {
	initiated     prometheus.Counter
	confirmed     *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	evicted       prometheus.Counter
	sweepDuration prometheus.Histogram
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	initiated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_initiated_total",
		Help: "Payment references issued.",
	})
	confirmed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_confirmed_total",
		Help: "Confirmed payments by token.",
	}, []string{"token"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_rejected_total",
		Help: "Rejected confirmations by reason.",
	}, []string{"reason"})
	evicted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_reference_evicted_total",
		Help: "Abandoned payment references removed by the sweep.",
	})
	sweepDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_sweep_duration_seconds",
		Help:    "Duration of reference store sweeps in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(initiated, confirmed, rejected, evicted, sweepDuration)
	return &PaymentMetrics{
		initiated:     initiated,
		confirmed:     confirmed,
		rejected:      rejected,
		evicted:       evicted,
		sweepDuration: sweepDuration,
	}
}

// IncInitiated counts an issued payment reference.
func (p *PaymentMetrics) IncInitiated() {
	if p == nil || p.initiated == nil {
		return
	}
	p.initiated.Inc()
}

// IncConfirmed counts a settled payment for the given token.
func (p *PaymentMetrics) IncConfirmed(token string) {
	if p == nil || p.confirmed == nil {
		return
	}
	p.confirmed.WithLabelValues(normalizeLabel(token)).Inc()
}

// IncRejected counts a rejected confirmation with its reason.
func (p *PaymentMetrics) IncRejected(reason string) {
	if p == nil || p.rejected == nil {
		return
	}
	p.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// AddEvicted counts references removed by an eviction sweep.
func (p *PaymentMetrics) AddEvicted(count int) {
	if p == nil || p.evicted == nil || count <= 0 {
		return
	}
	p.evicted.Add(float64(count))
}

// ObserveSweepDuration records how long an eviction sweep took.
func (p *PaymentMetrics) ObserveSweepDuration(duration time.Duration) {
	if p == nil || p.sweepDuration == nil {
		return
	}
	p.sweepDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
