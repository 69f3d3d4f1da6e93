package swapi

import (
	"strconv"
	"strings"
)

// Raw is a loosely typed SWAPI entity as decoded from JSON.
type Raw = map[string]any

// Page is the list envelope returned by SWAPI collection endpoints.
// Count is the size of the whole (searched) collection, not of this page.
type Page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Raw   `json:"results"`
}

// ExtractID extracts the numeric entity ID from a SWAPI resource URL.
// SWAPI encodes identity only in the URL (e.g. ".../people/42/").
// Returns false for malformed URLs and non-positive IDs.
func ExtractID(url string) (int, bool) {
	trimmed := strings.TrimRight(url, "/")
	tail := trimmed[strings.LastIndex(trimmed, "/")+1:]
	id, err := strconv.Atoi(tail)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
