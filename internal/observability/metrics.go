package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	sessionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stsctl",
			Subsystem: "session",
			Name:      "operations_total",
			Help:      "STS sessions by operation and result.",
		},
		[]string{"op", "result"},
	)
	sessionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stsctl",
			Subsystem: "session",
			Name:      "duration_seconds",
			Help:      "STS session duration in seconds, connect to close.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	frames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stsctl",
			Name:      "frames_total",
			Help:      "Binary frames exchanged with STS.",
		},
		[]string{"direction", "format"},
	)
	frameBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stsctl",
			Name:      "frame_bytes_total",
			Help:      "Binary frame bytes exchanged with STS.",
		},
		[]string{"direction"},
	)
	truncations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stsctl",
			Name:      "text_truncations_total",
			Help:      "Text payloads shortened to fit the 127-byte frame.",
		},
		[]string{"format"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stsctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Gateway HTTP requests by route, status and STS session outcome.",
		},
		[]string{"gateway", "method", "path", "status", "op", "result"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stsctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Gateway HTTP request duration in seconds, STS session included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"gateway", "method", "path", "op"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(sessionOps, sessionDuration, frames, frameBytes, truncations, httpRequests, httpDuration)
	})
}

// HTTPRequest is one finished gateway request.
type HTTPRequest struct {
	Gateway  string
	Method   string
	Path     string
	Status   int
	Op       string
	Result   string
	Duration time.Duration
}

func RecordHTTPRequest(r HTTPRequest) {
	RegisterMetrics()
	httpRequests.WithLabelValues(r.Gateway, r.Method, r.Path, strconv.Itoa(r.Status), r.Op, r.Result).Inc()
	httpDuration.WithLabelValues(r.Gateway, r.Method, r.Path, r.Op).Observe(r.Duration.Seconds())
}

// SessionRecorder reports session and frame observations to Prometheus.
// It satisfies session.Recorder.
type SessionRecorder struct{}

// Recorder registers the metrics and returns the Prometheus recorder.
func Recorder() SessionRecorder {
	RegisterMetrics()
	return SessionRecorder{}
}

func (SessionRecorder) ObserveSession(op, result string, duration time.Duration) {
	sessionOps.WithLabelValues(op, result).Inc()
	sessionDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (SessionRecorder) ObserveFrame(direction string, format datum.Format, size int) {
	frames.WithLabelValues(direction, format.String()).Inc()
	frameBytes.WithLabelValues(direction).Add(float64(size))
}

func (SessionRecorder) ObserveTruncation(format datum.Format, _ int) {
	truncations.WithLabelValues(format.String()).Inc()
}
