package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitewalk",
		Subsystem: "sheets",
		Name:      "calls_total",
		Help:      "Spreadsheet backend calls by operation and result",
	}, []string{"operation", "result"})

	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sitewalk",
		Subsystem: "sheets",
		Name:      "call_duration_seconds",
		Help:      "Spreadsheet backend call latency",
		Buckets:   prometheus.ExponentialBuckets(0.025, 2, 10),
	}, []string{"operation"})

	tasksWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitewalk",
		Subsystem: "tasks",
		Name:      "writes_total",
		Help:      "Task row writes by tab kind and result",
	}, []string{"tab", "result"})

	digestEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitewalk",
		Subsystem: "digest",
		Name:      "emails_total",
		Help:      "Digest emails by outcome (sent, skipped, failed)",
	}, []string{"outcome"})
)

// TrackBackendCall starts timing a spreadsheet API call. The returned func
// records latency and result when the call finishes.
func TrackBackendCall(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		backendLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		backendCalls.WithLabelValues(operation, result(err)).Inc()
	}
}

// ObserveTaskWrite records one row write to the master or a project tab.
func ObserveTaskWrite(tab string, err error) {
	tasksWritten.WithLabelValues(tab, result(err)).Inc()
}

// ObserveDigestEmail records a per-contractor digest outcome.
func ObserveDigestEmail(outcome string) {
	digestEmails.WithLabelValues(outcome).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
