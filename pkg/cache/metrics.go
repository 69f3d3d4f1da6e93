package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks memoization hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_cache_hits_total",
			Help: "Total number of SWAPI cache hits",
		},
	)

	// CacheMisses tracks memoization misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_cache_misses_total",
			Help: "Total number of SWAPI cache misses",
		},
	)

	// CacheEvictions tracks LRU evictions under capacity pressure
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_cache_evictions_total",
			Help: "Total number of SWAPI cache LRU evictions",
		},
	)

	// CacheEntries tracks the current entry count
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swapi_cache_entries",
			Help: "Current number of entries in the SWAPI cache",
		},
	)
)
