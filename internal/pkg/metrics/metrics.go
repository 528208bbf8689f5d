// Package metrics holds the Prometheus collectors of the hole server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ObjectOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hole_storage_object_operations_total",
	Help: "The total number of completed storage object operations",
}, []string{"operation"})

var GroupOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hole_storage_object_group_operations_total",
	Help: "The total number of completed storage object group operations",
}, []string{"operation"})

var BytesWritten = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hole_storage_object_bytes_written_total",
	Help: "The total number of plaintext bytes stored",
})

var BytesRead = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hole_storage_object_bytes_read_total",
	Help: "The total number of plaintext bytes served",
})

var LockWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "hole_lock_wait_seconds",
	Help:    "The time spent waiting for storage object locks",
	Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10},
}, []string{"mode"})

var EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hole_long_polling_events_total",
	Help: "The total number of long-polling events published, by group and origin",
}, []string{"group", "origin"})

var PollWaiters = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "hole_long_polling_waiters",
	Help: "The number of long-polling requests currently waiting",
})

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
