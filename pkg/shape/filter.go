package shape

import (
	"fmt"
	"strings"
)

// FilterByField keeps the items whose field contains value as a
// case-insensitive substring. An empty value matches everything; items
// missing the field never match.
func FilterByField(items []map[string]any, field, value string) []map[string]any {
	if value == "" {
		return items
	}

	needle := strings.ToLower(value)
	filtered := make([]map[string]any, 0, len(items))
	for _, item := range items {
		v, ok := item[field]
		if !ok || v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprintf("%v", v)), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterByFieldExact keeps the items whose field equals value
// case-insensitively. Substring matching would be wrong for enumerated
// fields ("male" is a substring of "female"). An empty value matches
// everything; items missing the field never match.
func FilterByFieldExact(items []map[string]any, field, value string) []map[string]any {
	if value == "" {
		return items
	}

	filtered := make([]map[string]any, 0, len(items))
	for _, item := range items {
		v, ok := item[field]
		if !ok || v == nil {
			continue
		}
		if strings.EqualFold(fmt.Sprintf("%v", v), value) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
