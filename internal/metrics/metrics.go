// Package metrics holds the Prometheus collectors of the emergency service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requestsCreated     *prometheus.CounterVec
	validationFailures  *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
	rejectedTransitions *prometheus.CounterVec
	notifications       *prometheus.CounterVec
	relayedMessages     *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_requests_created_total",
			Help: "Emergency requests stored, by emergency type.",
		}, []string{"type"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_request_validation_failures_total",
			Help: "Rejected create payloads, by emergency type.",
		}, []string{"type"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_request_status_transitions_total",
			Help: "Applied status changes.",
		}, []string{"from", "to"}),
		rejectedTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_request_status_transitions_rejected_total",
			Help: "Status changes refused because the record is in a terminal state.",
		}, []string{"from", "to"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_location_notifications_total",
			Help: "Location relays attempted, by outcome.",
		}, []string{"result"}),
		relayedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_location_relay_messages_total",
			Help: "Queue messages handled by the device relay, by outcome.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.requestsCreated,
		m.validationFailures,
		m.statusTransitions,
		m.rejectedTransitions,
		m.notifications,
		m.relayedMessages,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) RequestCreated(emergencyType int) {
	m.requestsCreated.WithLabelValues(strconv.Itoa(emergencyType)).Inc()
}

// ValidationFailed counts a rejected payload; emergencyType is 0 when the
// payload carried no usable type.
func (m *Metrics) ValidationFailed(emergencyType int) {
	m.validationFailures.WithLabelValues(strconv.Itoa(emergencyType)).Inc()
}

func (m *Metrics) StatusChanged(from, to string) {
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) TransitionRejected(from, to string) {
	m.rejectedTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) NotificationSent()   { m.notifications.WithLabelValues("sent").Inc() }
func (m *Metrics) NotificationFailed() { m.notifications.WithLabelValues("failed").Inc() }

func (m *Metrics) RelayDelivered() { m.relayedMessages.WithLabelValues("delivered").Inc() }
func (m *Metrics) RelayDropped()   { m.relayedMessages.WithLabelValues("dropped").Inc() }
func (m *Metrics) RelayFailed()    { m.relayedMessages.WithLabelValues("failed").Inc() }

func (m *Metrics) ObserveHTTP(method, route string, code int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
