package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TaskOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Total number of task operations",
		},
		[]string{"operation", "status"},
	)
	ActiveTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tasks_total",
			Help: "Total number of active (incomplete) tasks",
		},
	)
	CompletedTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "completed_tasks_total",
			Help: "Total number of completed tasks",
		},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(TaskOperations, ActiveTasks, CompletedTasks, HTTPRequests, HTTPDuration)
}

// TrackOperation records the outcome of a single task operation.
func TrackOperation(operation, status string) {
	TaskOperations.WithLabelValues(operation, status).Inc()
}

// SetTaskGauges updates the active/completed task gauges.
func SetTaskGauges(active, completed int64) {
	ActiveTasks.Set(float64(active))
	CompletedTasks.Set(float64(completed))
}
