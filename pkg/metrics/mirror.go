package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MirrorMetrics records outcomes of the spreadsheet mirror worker.
type MirrorMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	exhausted *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMirrorMetrics registers the mirror metrics on the provided registerer.
// A nil registerer yields a no-op instance, which tests rely on.
func NewMirrorMetrics(reg prometheus.Registerer) *MirrorMetrics {
	if reg == nil {
		return &MirrorMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_rows_published",
		Help: "Outbox rows successfully appended to the spreadsheet.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_rows_failed",
		Help: "Outbox rows whose spreadsheet append failed.",
	}, []string{"event_type"})
	exhausted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_rows_exhausted",
		Help: "Outbox rows abandoned after exceeding the attempt bound.",
	}, []string{"event_type"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mirror_batch_duration_seconds",
		Help:    "Duration of one mirror drain pass in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(published, failed, exhausted, duration)
	return &MirrorMetrics{
		published: published,
		failed:    failed,
		exhausted: exhausted,
		duration:  duration,
	}
}

// IncPublished increments the published counter for the event type.
func (m *MirrorMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failed counter for the event type.
func (m *MirrorMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncExhausted increments the abandoned counter for the event type.
func (m *MirrorMetrics) IncExhausted(eventType string) {
	if m == nil || m.exhausted == nil {
		return
	}
	m.exhausted.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// ObserveBatch records the duration of one drain pass.
func (m *MirrorMetrics) ObserveBatch(outcome string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
