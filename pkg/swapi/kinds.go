// Package swapi provides a resilient client for the Star Wars API (SWAPI)
// with retries, response memoization, and request pacing.
package swapi

// Kind identifies one of the six SWAPI entity collections.
type Kind string

const (
	// KindPerson is the people collection.
	KindPerson Kind = "people"

	// KindFilm is the films collection.
	KindFilm Kind = "films"

	// KindPlanet is the planets collection.
	KindPlanet Kind = "planets"

	// KindStarship is the starships collection.
	KindStarship Kind = "starships"

	// KindSpecies is the species collection.
	KindSpecies Kind = "species"

	// KindVehicle is the vehicles collection.
	KindVehicle Kind = "vehicles"
)

// Kinds returns all known entity kinds.
func Kinds() []Kind {
	return []Kind{KindPerson, KindFilm, KindPlanet, KindStarship, KindSpecies, KindVehicle}
}

// Valid reports whether k is one of the known entity kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPerson, KindFilm, KindPlanet, KindStarship, KindSpecies, KindVehicle:
		return true
	}
	return false
}

// Path returns the URL path segment of the kind's collection endpoint.
func (k Kind) Path() string {
	return string(k)
}

func (k Kind) String() string {
	return string(k)
}
