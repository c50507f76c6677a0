package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LogitCallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mimic_logit_calls_total",
		Help: "The total number of logit vectors synthesized",
	})

	TokensGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mimic_tokens_generated_total",
		Help: "The total number of tokens generated",
	})

	EncodeDuration = promauto.NewSummary(prometheus.SummaryOpts{
		Name: "mimic_encode_duration_seconds",
		Help: "Duration of tokenizer encode calls",
	})

	GenerateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mimic_generate_duration_seconds",
		Help:    "Duration of full generation runs",
		Buckets: prometheus.DefBuckets,
	})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mimic_api_requests_total",
		Help: "Total API requests by route and status",
	}, []string{"route", "status"})
)
