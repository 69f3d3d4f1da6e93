// Package cache provides an in-process LRU memoization store for SWAPI
// responses.
//
// The store is bounded: once the configured capacity is reached, the
// least recently used entry is evicted to make room. Entries carry no
// TTL since the upstream catalog is effectively static; the cache lives
// and dies with the process.
//
// # Basic Usage
//
//	// Create a store with room for 128 entries
//	store, err := cache.NewStore(128)
//	if err != nil {
//		return err
//	}
//
//	// Build a deterministic key from request coordinates
//	key := cache.Key{Resource: "people", Search: "luke", Page: 1}
//
//	// Look up a memoized response
//	if v, ok := store.Get(key); ok {
//		// Cache hit - skip the network round trip
//	}
//
//	// Memoize a fetched response
//	store.Add(key, page)
//
// Values stored in the cache are shared snapshots: callers must treat
// them as immutable and never modify a returned value in place.
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - swapi_cache_hits_total - Cache hits
//   - swapi_cache_misses_total - Cache misses
//   - swapi_cache_evictions_total - LRU evictions
//   - swapi_cache_entries - Current entry count
package cache
