package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlaced counts successful order placements.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_orders_placed_total",
		Help: "Number of orders placed successfully.",
	})

	// StockConflicts counts placements lost to a concurrent checkout.
	StockConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_stock_conflicts_total",
		Help: "Number of checkouts that lost the stock reservation race.",
	})

	// OrdersCancelled counts order cancellations.
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_orders_cancelled_total",
		Help: "Number of orders cancelled.",
	})

	// CacheHits counts cache hits by entity.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_cache_hits_total",
		Help: "Number of cache hits.",
	}, []string{"entity"})

	// CacheMisses counts cache misses by entity.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_cache_misses_total",
		Help: "Number of cache misses.",
	}, []string{"entity"})
)
