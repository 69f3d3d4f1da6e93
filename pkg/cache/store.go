package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the default store capacity in entries.
const DefaultSize = 128

// Store is a bounded LRU memoization store. It is safe for concurrent
// use.
type Store struct {
	lru *lru.Cache[string, any]
}

// NewStore creates a store holding at most size entries. A size of zero
// or less falls back to DefaultSize.
func NewStore(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}

	inner, err := lru.NewWithEvict[string, any](size, func(string, any) {
		CacheEvictions.Inc()
	})
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &Store{lru: inner}, nil
}

// Get looks up a memoized value, marking the entry as recently used.
func (s *Store) Get(key Key) (any, bool) {
	v, ok := s.lru.Get(key.String())
	if ok {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
	return v, ok
}

// Add memoizes a value, evicting the least recently used entry when the
// store is full.
func (s *Store) Add(key Key, value any) {
	s.lru.Add(key.String(), value)
	CacheEntries.Set(float64(s.lru.Len()))
}

// Len reports the current entry count.
func (s *Store) Len() int {
	return s.lru.Len()
}

// Purge drops all entries.
func (s *Store) Purge() {
	s.lru.Purge()
	CacheEntries.Set(0)
}
