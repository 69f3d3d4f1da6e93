package shape

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// sortKey is a comparable projection of one item's sort field.
type sortKey struct {
	missing bool
	numeric bool
	num     float64
	str     string
}

// SortBy stably sorts items by field. Numeric values order before
// string values, strings compare case-insensitively, and items missing
// the field sort last regardless of order. Order is descending when
// order equals "desc" (any case), ascending otherwise.
func SortBy(items []map[string]any, field, order string) {
	desc := strings.EqualFold(order, "desc")

	keyed := make([]struct {
		item map[string]any
		key  sortKey
	}, len(items))
	for i, item := range items {
		keyed[i].item = item
		keyed[i].key = keyFor(item, field)
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i].key, keyed[j].key
		if a.missing || b.missing {
			// Missing values sink to the end in both directions.
			return !a.missing && b.missing
		}
		c := compareKeys(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})

	for i := range keyed {
		items[i] = keyed[i].item
	}
}

// compareKeys returns a negative, zero or positive value ordering a
// before, equal to or after b. Numbers order before strings.
func compareKeys(a, b sortKey) int {
	if a.numeric != b.numeric {
		if a.numeric {
			return -1
		}
		return 1
	}
	if a.numeric {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.str, b.str)
}

// keyFor projects one item's field into a sortKey.
func keyFor(item map[string]any, field string) sortKey {
	v, ok := item[field]
	if !ok || v == nil {
		return sortKey{missing: true}
	}

	switch n := v.(type) {
	case float64:
		return sortKey{numeric: true, num: n}
	case int:
		return sortKey{numeric: true, num: float64(n)}
	}

	s := fmt.Sprintf("%v", v)
	if i, err := strconv.Atoi(s); err == nil {
		return sortKey{numeric: true, num: float64(i)}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return sortKey{numeric: true, num: f}
	}
	return sortKey{str: strings.ToLower(s)}
}
