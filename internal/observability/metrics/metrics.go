package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Module provides the application metrics set.
var Module = fx.Provide(New)

// Metrics holds the prometheus collectors shared across services.
type Metrics struct {
	webhookEvents  *prometheus.CounterVec
	droppedEvents  prometheus.Counter
	couponRedeems  *prometheus.CounterVec
	emailsSent     *prometheus.CounterVec
	intakeRequests *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors against the given registerer. Tests pass a
// fresh registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		webhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmml",
			Name:      "webhook_events_total",
			Help:      "Payment webhook deliveries by terminal outcome.",
		}, []string{"outcome"}),
		droppedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mmml",
			Name:      "webhook_dropped_events_total",
			Help:      "Captured-payment webhooks dropped by a failed transaction; requires manual reconciliation.",
		}),
		couponRedeems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmml",
			Name:      "coupon_redemptions_total",
			Help:      "Coupon redemption attempts at payment capture time.",
		}, []string{"result"}),
		emailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmml",
			Name:      "emails_total",
			Help:      "Notification emails by template and result.",
		}, []string{"template", "result"}),
		intakeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmml",
			Name:      "intake_submissions_total",
			Help:      "Accepted form submissions by form type.",
		}, []string{"form"}),
	}
}

func (m *Metrics) RecordWebhookOutcome(outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordDroppedEvent() {
	if m == nil {
		return
	}
	m.droppedEvents.Inc()
}

func (m *Metrics) RecordCouponRedemption(result string) {
	if m == nil {
		return
	}
	m.couponRedeems.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordEmail(template, result string) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(template, result).Inc()
}

func (m *Metrics) RecordIntake(form string) {
	if m == nil {
		return
	}
	m.intakeRequests.WithLabelValues(form).Inc()
}
