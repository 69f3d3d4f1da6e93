package shape

import "testing"

func names(items []map[string]any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i], _ = item["name"].(string)
	}
	return out
}

func equalNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSortByString(t *testing.T) {
	items := []map[string]any{
		{"name": "c", "title": "The Empire Strikes Back"},
		{"name": "a", "title": "A New Hope"},
		{"name": "b", "title": "Return of the Jedi"},
	}

	SortBy(items, "title", "asc")
	if got := names(items); !equalNames(got, []string{"a", "b", "c"}) {
		t.Errorf("SortBy(title, asc) order = %v, want [a b c]", got)
	}

	SortBy(items, "title", "desc")
	if got := names(items); !equalNames(got, []string{"c", "b", "a"}) {
		t.Errorf("SortBy(title, desc) order = %v, want [c b a]", got)
	}
}

func TestSortByStringCaseInsensitive(t *testing.T) {
	items := []map[string]any{
		{"name": "b", "director": "george lucas"},
		{"name": "a", "director": "George Lucas"},
		{"name": "c", "director": "Irvin Kershner"},
	}

	SortBy(items, "director", "asc")

	// Equal case-folded keys keep their input order.
	if got := names(items); !equalNames(got, []string{"b", "a", "c"}) {
		t.Errorf("SortBy(director, asc) order = %v, want [b a c]", got)
	}
}

func TestSortByNumeric(t *testing.T) {
	items := []map[string]any{
		{"name": "ep6", "episode_id": float64(6)},
		{"name": "ep4", "episode_id": float64(4)},
		{"name": "ep5", "episode_id": float64(5)},
	}

	SortBy(items, "episode_id", "asc")
	if got := names(items); !equalNames(got, []string{"ep4", "ep5", "ep6"}) {
		t.Errorf("SortBy(episode_id, asc) order = %v, want [ep4 ep5 ep6]", got)
	}

	SortBy(items, "episode_id", "desc")
	if got := names(items); !equalNames(got, []string{"ep6", "ep5", "ep4"}) {
		t.Errorf("SortBy(episode_id, desc) order = %v, want [ep6 ep5 ep4]", got)
	}
}

func TestSortByNumericStrings(t *testing.T) {
	// SWAPI serves numbers as strings; "12" must sort after "2".
	items := []map[string]any{
		{"name": "tall", "height": "202"},
		{"name": "short", "height": "96"},
		{"name": "mid", "height": "172"},
	}

	SortBy(items, "height", "asc")
	if got := names(items); !equalNames(got, []string{"short", "mid", "tall"}) {
		t.Errorf("SortBy(height, asc) order = %v, want [short mid tall]", got)
	}
}

func TestSortByMissingLast(t *testing.T) {
	items := []map[string]any{
		{"name": "nameless"},
		{"name": "b", "title": "beta"},
		{"name": "a", "title": "alpha"},
	}

	SortBy(items, "title", "asc")
	if got := names(items); !equalNames(got, []string{"a", "b", "nameless"}) {
		t.Errorf("SortBy(asc) order = %v, want missing item last", got)
	}

	SortBy(items, "title", "desc")
	if got := names(items); !equalNames(got, []string{"b", "a", "nameless"}) {
		t.Errorf("SortBy(desc) order = %v, want missing item still last", got)
	}
}

func TestSortByMixedTypes(t *testing.T) {
	// Numeric keys order before string keys in an ascending sort.
	items := []map[string]any{
		{"name": "word", "mass": "unknown"},
		{"name": "heavy", "mass": "1358"},
		{"name": "light", "mass": "49"},
	}

	SortBy(items, "mass", "asc")
	if got := names(items); !equalNames(got, []string{"light", "heavy", "word"}) {
		t.Errorf("SortBy(mass, asc) order = %v, want [light heavy word]", got)
	}
}

func TestSortByStable(t *testing.T) {
	items := []map[string]any{
		{"name": "first", "gender": "male"},
		{"name": "second", "gender": "male"},
		{"name": "third", "gender": "male"},
	}

	SortBy(items, "gender", "asc")
	if got := names(items); !equalNames(got, []string{"first", "second", "third"}) {
		t.Errorf("SortBy() reordered equal keys: %v", got)
	}
}
