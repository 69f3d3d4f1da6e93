package cache

import "testing"

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "collection page",
			key:  Key{Resource: "people", Page: 1},
			want: "swapi:people:page=1",
		},
		{
			name: "collection page with search",
			key:  Key{Resource: "films", Search: "hope", Page: 2},
			want: "swapi:films:page=2:search=hope",
		},
		{
			name: "detail lookup",
			key:  Key{Resource: "planets", ID: 8},
			want: "swapi:planets:id=8",
		},
		{
			name: "resource only",
			key:  Key{Resource: "starships"},
			want: "swapi:starships",
		},
		{
			name: "search without page",
			key:  Key{Resource: "species", Search: "wookiee"},
			want: "swapi:species:search=wookiee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyStringDeterministic(t *testing.T) {
	key := Key{Resource: "people", Search: "luke", Page: 3}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Errorf("Key.String() not deterministic: got %q, want %q", got, first)
		}
	}
}

func TestKeyStringDistinguishesCoordinates(t *testing.T) {
	a := Key{Resource: "people", Page: 1}
	b := Key{Resource: "people", Page: 2}
	c := Key{Resource: "people", Search: "luke", Page: 1}
	d := Key{Resource: "people", ID: 1}

	seen := map[string]Key{}
	for _, k := range []Key{a, b, c, d} {
		s := k.String()
		if prev, dup := seen[s]; dup {
			t.Errorf("keys %+v and %+v collide on %q", prev, k, s)
		}
		seen[s] = k
	}
}
