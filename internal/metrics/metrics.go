// Package metrics содержит счётчики Prometheus, публикуемые на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AccessDecisions считает решения проверки доступа по причинам.
var AccessDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "course_platform_access_decisions_total",
		Help: "Access check decisions by reason.",
	},
	[]string{"reason"},
)

// WebhookEvents считает обработанные события вебхуков по типу и исходу.
var WebhookEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "course_platform_webhook_events_total",
		Help: "Processed payment gateway webhook events by event type and outcome.",
	},
	[]string{"event", "outcome"},
)

// CheckoutsCreated считает созданные чекауты по способу оплаты.
var CheckoutsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "course_platform_checkouts_created_total",
		Help: "Checkouts created by billing type.",
	},
	[]string{"billing_type"},
)

// ReceiptsSent считает отправленные письма с квитанциями по исходу.
var ReceiptsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "course_platform_receipts_sent_total",
		Help: "Receipt emails sent by outcome.",
	},
	[]string{"outcome"},
)
