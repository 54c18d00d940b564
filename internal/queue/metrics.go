package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linebot",
			Subsystem: "queue",
			Name:      "tasks_total",
			Help:      "Tasks run by the worker pool, by final status.",
		},
		[]string{"status"},
	)

	rejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "linebot",
			Subsystem: "queue",
			Name:      "rejected_total",
			Help:      "Tasks rejected because the queue was full.",
		},
	)

	taskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "linebot",
			Subsystem: "queue",
			Name:      "task_duration_seconds",
			Help:      "Task execution latency.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "linebot",
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Tasks waiting for a worker.",
		},
	)
)
