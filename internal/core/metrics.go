package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeReplied     = "replied"
	outcomeApology     = "apology"
	outcomeSilent      = "silent"
	outcomeIgnored     = "ignored"
	outcomeReplyFailed = "reply_failed"
	outcomeBusy        = "busy"
)

var eventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "linebot",
		Subsystem: "router",
		Name:      "events_total",
		Help:      "Webhook events by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

func observe(kind, outcome string) {
	eventsTotal.WithLabelValues(kind, outcome).Inc()
}
