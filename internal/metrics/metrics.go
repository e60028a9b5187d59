// Package metrics defines the Prometheus collectors exported by the service.
// All collectors are registered with the default registry at init.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"user-manager/internal/domain"
)

const namespace = "usermgr"

// UserOperationsTotal counts user manager calls.
// Labels:
//   - operation: create, list, get, update, delete, assign_role
//   - result: ok, not_found, conflict, error
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user manager operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// HTTPRequestsTotal counts served requests by route template.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency by route template.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ObserveUserOperation records the outcome of a user manager call.
func ObserveUserOperation(operation string, err error) {
	UserOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return "conflict"
	default:
		return "error"
	}
}
