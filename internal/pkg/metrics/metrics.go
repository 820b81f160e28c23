package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yayahook_webhooks_received_total",
		Help: "Webhook requests by route and outcome code.",
	}, []string{"route", "outcome"})

	SignatureChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yayahook_signature_checks_total",
		Help: "Signature verifications by result.",
	}, []string{"valid"})

	TransactionsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yayahook_transactions_stored_total",
		Help: "Transactions persisted.",
	})

	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "yayahook_ingest_duration_seconds",
		Help:    "Webhook handling latency in seconds.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 10},
	})
)
