// Package metrics provides the centralized Prometheus metrics registry
// for the aggregation engine. All metrics are defined in their
// respective packages (swapi, cache, pagination) to maintain modularity
// and avoid circular dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the engine.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/swapi):
//   - swapi_requests_total{resource, status} (Counter): Total upstream requests by resource and HTTP status
//   - swapi_request_duration_seconds{resource} (Histogram): Upstream request duration by resource
//   - swapi_errors_total{class} (Counter): Upstream errors by class (not_found, client, server, timeout, network, invalid_response)
//
// Retry Metrics (pkg/swapi):
//   - swapi_retries_total{error_class} (Counter): Retry attempts by error class
//   - swapi_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - swapi_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - swapi_cache_hits_total (Counter): Memoization hits
//   - swapi_cache_misses_total (Counter): Memoization misses
//   - swapi_cache_evictions_total (Counter): LRU evictions under capacity pressure
//   - swapi_cache_entries (Gauge): Current entry count
//
// Aggregation Metrics (pkg/pagination):
//   - swapi_pages_dropped_total{resource} (Counter): Collection pages dropped after retry exhaustion
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(swapi_cache_hits_total[5m]) /
//   (rate(swapi_cache_hits_total[5m]) + rate(swapi_cache_misses_total[5m]))
//
//   # Upstream Error Rate
//   rate(swapi_errors_total[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(swapi_request_duration_seconds_bucket[5m]))
//
//   # Dropped Page Rate (partial responses served)
//   rate(swapi_pages_dropped_total[5m])
