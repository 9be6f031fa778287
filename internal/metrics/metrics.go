package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the auth counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var (
	signIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_signin_total",
		Help: "Sign-in attempts by method and outcome",
	}, []string{"method", "outcome"})

	signUps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_signup_total",
		Help: "Sign-up attempts by outcome",
	}, []string{"outcome"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route pattern and status",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// RecordSignIn counts a sign-in. outcome is an Outcome constant or a
// rejection reason.
func RecordSignIn(method, outcome string) {
	signIns.WithLabelValues(method, outcome).Inc()
}

func RecordSignUp(outcome string) {
	signUps.WithLabelValues(outcome).Inc()
}

func ObserveRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
