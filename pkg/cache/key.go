package cache

import (
	"fmt"
	"strings"
)

// Key identifies a memoized SWAPI response by its request coordinates.
type Key struct {
	// Resource is the catalog resource path (e.g., "people", "films")
	Resource string

	// ID is the entity ID for detail lookups (0 for collection pages)
	ID int

	// Search is the upstream search term ("" when absent)
	Search string

	// Page is the collection page number (0 for detail lookups)
	Page int
}

// String generates a deterministic cache key string. Fields render in a
// fixed order, so identical request coordinates always produce the same
// key.
//
// Examples:
//
//	swapi:people:id=1
//	swapi:films:page=2:search=hope
func (k Key) String() string {
	parts := []string{"swapi", k.Resource}

	if k.ID > 0 {
		parts = append(parts, fmt.Sprintf("id=%d", k.ID))
	}
	if k.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", k.Page))
	}
	if k.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%s", k.Search))
	}

	return strings.Join(parts, ":")
}
