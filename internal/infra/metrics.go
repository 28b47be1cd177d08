package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "shoppos"

// HTTP metrics, recorded by middleware.Metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Business metrics.
var (
	SalesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "sales",
		Name:      "completed_total",
		Help:      "Completed checkouts by payment method.",
	}, []string{"payment_method"})

	SalesRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "sales",
		Name:      "revenue_total",
		Help:      "Sum of completed sale totals.",
	})

	RefundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "refunds",
		Name:      "issued_total",
		Help:      "Refunds issued.",
	})

	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "worker",
		Name:      "jobs_processed_total",
		Help:      "Background jobs by type and outcome (ok, failed).",
	}, []string{"type", "outcome"})

	JobsDeadLettered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "worker",
		Name:      "jobs_dead_lettered_total",
		Help:      "Jobs moved to a dead-letter list, by type.",
	}, []string{"type"})

	CreditDriftCustomers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "credit",
		Name:      "drift_customers",
		Help:      "Customers whose stored balance differs from their ledger at the last reconciliation.",
	})
)
