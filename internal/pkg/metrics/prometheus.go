package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flowvera"

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Subscription metrics
	subscriptionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "transitions_total",
			Help:      "Subscription status transitions",
		},
		[]string{"from", "to"},
	)

	subscriptionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "expired_by_sweep_total",
			Help:      "Subscriptions moved to expired by the expiry sweep",
		},
	)

	// Billing metrics
	checkoutSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "checkout_sessions_total",
			Help:      "Checkout sessions requested from the billing gateway",
		},
		[]string{"provider", "result"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Billing webhook events received",
		},
		[]string{"type", "result"},
	)

	// Email metrics
	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "sent_total",
			Help:      "Transactional emails by template and result",
		},
		[]string{"template", "result"},
	)

	// User metrics
	usersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "user",
			Name:      "registered_total",
			Help:      "Number of user registrations",
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSubscriptionTransition counts a status change of a subscription.
func RecordSubscriptionTransition(from, to string) {
	subscriptionTransitions.WithLabelValues(from, to).Inc()
}

// RecordExpiredBySweep adds n subscriptions expired by the lazy sweep.
func RecordExpiredBySweep(n int64) {
	if n > 0 {
		subscriptionsExpired.Add(float64(n))
	}
}

// RecordCheckoutSession counts a checkout session attempt.
func RecordCheckoutSession(provider string, ok bool) {
	checkoutSessions.WithLabelValues(provider, result(ok)).Inc()
}

// RecordWebhookEvent counts a processed webhook event. Result is one of
// "processed", "duplicate", "ignored" or "failed".
func RecordWebhookEvent(eventType, res string) {
	webhookEvents.WithLabelValues(eventType, res).Inc()
}

// RecordEmail counts an email send attempt.
func RecordEmail(template string, ok bool) {
	emailsSent.WithLabelValues(template, result(ok)).Inc()
}

// RecordUserRegistered counts a completed registration.
func RecordUserRegistered() {
	usersRegistered.Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
