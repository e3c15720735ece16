// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "interview_live"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Session metrics
	SessionsTotal   prometheus.Counter
	SessionsActive  prometheus.Gauge
	SessionDuration prometheus.Histogram

	// Turn metrics
	TurnsTotal     prometheus.Counter
	TurnsSucceeded prometheus.Counter
	TurnsFailed    *prometheus.CounterVec
	TurnLatency    prometheus.Histogram

	// Capture metrics
	AudioBytesCaptured prometheus.Counter
	CapturesRejected   *prometheus.CounterVec

	// Backend metrics
	BackendRequests *prometheus.CounterVec
	BackendLatency  prometheus.Histogram
	TTSDegraded     prometheus.Counter

	// Playback metrics
	PlaybacksTotal   prometheus.Counter
	PlaybacksSkipped prometheus.Counter
	PlaybackErrors   prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the shared metrics instance registered with the
// default Prometheus registry.
var DefaultMetrics = New()

// New creates and registers all service metrics.
func New() *Metrics {
	return &Metrics{
		// Session metrics
		SessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of live interview sessions started",
		}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently active live interview sessions",
		}),
		SessionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of live interview sessions in seconds",
			Buckets:   []float64{30, 60, 120, 300, 600, 1200, 1800, 3600, 7200},
		}),

		// Turn metrics
		TurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of interview turns submitted",
		}),
		TurnsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_succeeded_total",
			Help:      "Total number of turns completed successfully",
		}),
		TurnsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_failed_total",
			Help:      "Total number of failed turns",
		}, []string{"reason"}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_seconds",
			Help:      "End-to-end turn latency (submit to history append) in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		}),

		// Capture metrics
		AudioBytesCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_captured_total",
			Help:      "Total audio bytes captured across all sessions",
		}),
		CapturesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captures_rejected_total",
			Help:      "Total number of rejected capture attempts",
		}, []string{"reason"}),

		// Backend metrics
		BackendRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of turn-processing requests by outcome",
		}, []string{"outcome"}),
		BackendLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_latency_seconds",
			Help:      "Turn-processing request latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		TTSDegraded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_degraded_total",
			Help:      "Total number of turns that succeeded without synthesized audio",
		}),

		// Playback metrics
		PlaybacksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playbacks_total",
			Help:      "Total number of response audio playbacks started",
		}),
		PlaybacksSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playbacks_skipped_total",
			Help:      "Total number of playbacks skipped for empty audio",
		}),
		PlaybackErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_errors_total",
			Help:      "Total number of playback decode or output failures",
		}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordSessionStart records a new live session starting.
func (m *Metrics) RecordSessionStart() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a live session ending.
func (m *Metrics) RecordSessionEnd(durationSeconds float64) {
	m.SessionsActive.Dec()
	m.SessionDuration.Observe(durationSeconds)
}

// RecordTurn records a completed turn attempt.
func (m *Metrics) RecordTurn(failureReason string, latencySeconds float64) {
	m.TurnsTotal.Inc()
	m.TurnLatency.Observe(latencySeconds)
	if failureReason == "" {
		m.TurnsSucceeded.Inc()
	} else {
		m.TurnsFailed.WithLabelValues(failureReason).Inc()
	}
}

// RecordAudioCaptured records captured audio bytes.
func (m *Metrics) RecordAudioCaptured(bytes int) {
	m.AudioBytesCaptured.Add(float64(bytes))
}

// RecordCaptureRejected records a rejected capture attempt.
func (m *Metrics) RecordCaptureRejected(reason string) {
	m.CapturesRejected.WithLabelValues(reason).Inc()
}

// RecordBackendRequest records a turn-processing request outcome.
func (m *Metrics) RecordBackendRequest(outcome string, latencySeconds float64) {
	m.BackendRequests.WithLabelValues(outcome).Inc()
	m.BackendLatency.Observe(latencySeconds)
}

// RecordTTSDegraded records a turn that completed without audio.
func (m *Metrics) RecordTTSDegraded() {
	m.TTSDegraded.Inc()
}

// RecordPlayback records a playback attempt.
func (m *Metrics) RecordPlayback(skipped bool, err error) {
	if skipped {
		m.PlaybacksSkipped.Inc()
		return
	}
	m.PlaybacksTotal.Inc()
	if err != nil {
		m.PlaybackErrors.Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
