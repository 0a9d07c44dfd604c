// Package metrics содержит счётчики Prometheus сервиса.
// Методы безопасны для nil-получателя, чтобы сервисы можно было создавать без метрик.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "alcateia_auth"

// Metrics набор счётчиков сервиса.
type Metrics struct {
	verificationAttempts *prometheus.CounterVec
	emailsSent           *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
}

// New создаёт счётчики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		verificationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_attempts_total",
			Help:      "Operations on one-time codes by purpose and outcome.",
		}, []string{"purpose", "outcome"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Outbound emails by template kind and delivery result.",
		}, []string{"kind", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.verificationAttempts, m.emailsSent, m.httpRequests)
	return m
}

// VerificationAttempt учитывает операцию с кодом: purpose verification|password_reset,
// outcome success|not_found|already_verified|no_code|invalid|internal.
func (m *Metrics) VerificationAttempt(purpose, outcome string) {
	if m == nil {
		return
	}
	m.verificationAttempts.WithLabelValues(purpose, outcome).Inc()
}

// EmailSent учитывает попытку доставки письма.
func (m *Metrics) EmailSent(kind string, ok bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.emailsSent.WithLabelValues(kind, result).Inc()
}

// HTTPRequest учитывает обработанный HTTP-запрос.
func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
