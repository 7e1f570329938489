package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FavoritesMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myflix_favorites_mutations_total",
			Help: "Total number of favorite list mutations by operation and result",
		},
		[]string{"operation", "result"},
	)

	OwnershipDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myflix_ownership_denied_total",
			Help: "Total number of requests rejected because the caller does not own the account",
		},
		[]string{"operation"},
	)

	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myflix_catalog_cache_lookups_total",
			Help: "Catalog cache lookups by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)
