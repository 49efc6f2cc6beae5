package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restocked_transactions_posted_total",
		Help: "Stock movements recorded in the ledger, by movement type.",
	}, []string{"type"})

	InsufficientStockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restocked_insufficient_stock_rejections_total",
		Help: "OUT postings rejected because on-hand quantity was too low.",
	})

	SKUsAllocated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restocked_skus_allocated_total",
		Help: "SKUs successfully allocated, by location prefix.",
	}, []string{"prefix"})

	SKUCollisionRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restocked_sku_collision_retries_total",
		Help: "Product inserts retried after hitting the sku unique index.",
	})

	LowStockAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restocked_low_stock_alerts_total",
		Help: "Low-stock alerts emitted after a posting crossed a threshold.",
	})
)
