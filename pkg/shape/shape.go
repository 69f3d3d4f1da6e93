// Package shape reduces raw SWAPI entities to compact response shapes.
//
// Raw catalog records carry every upstream field including full
// cross-reference URL lists. Shaping keeps the fields a catalog browser
// actually renders, replaces each URL list with a <relation>_count, and
// trims long text fields. It also provides the in-memory field filter
// and the stable multi-type sort used after full-collection fetches.
package shape

import (
	"github.com/dudukuster/star-wars-api/pkg/swapi"
)

// Shaped is a reduced entity representation.
type Shaped = map[string]any

// OpeningCrawlLimit caps the opening_crawl field of shaped films.
const OpeningCrawlLimit = 100

// Entity shapes a raw record according to its kind. Unknown kinds pass
// through unchanged.
func Entity(kind swapi.Kind, raw swapi.Raw) Shaped {
	switch kind {
	case swapi.KindFilm:
		return Film(raw)
	case swapi.KindPerson:
		return Person(raw)
	case swapi.KindPlanet:
		return Planet(raw)
	case swapi.KindSpecies:
		return Species(raw)
	case swapi.KindVehicle:
		return Vehicle(raw)
	case swapi.KindStarship:
		return Starship(raw)
	default:
		return raw
	}
}

// Film shapes a raw film record.
func Film(raw swapi.Raw) Shaped {
	crawl, _ := raw["opening_crawl"].(string)
	return Shaped{
		"episode_id":       raw["episode_id"],
		"title":            raw["title"],
		"release_date":     raw["release_date"],
		"director":         raw["director"],
		"producer":         raw["producer"],
		"opening_crawl":    Truncate(crawl, OpeningCrawlLimit),
		"characters_count": listCount(raw, "characters"),
		"planets_count":    listCount(raw, "planets"),
		"starships_count":  listCount(raw, "starships"),
		"vehicles_count":   listCount(raw, "vehicles"),
		"species_count":    listCount(raw, "species"),
		"url":              raw["url"],
	}
}

// Person shapes a raw person record. The homeworld cross-reference URL
// is kept as-is; resolution into a shaped planet is the enrichment
// layer's job.
func Person(raw swapi.Raw) Shaped {
	return Shaped{
		"name":            raw["name"],
		"height":          raw["height"],
		"mass":            raw["mass"],
		"hair_color":      raw["hair_color"],
		"skin_color":      raw["skin_color"],
		"eye_color":       raw["eye_color"],
		"birth_year":      raw["birth_year"],
		"gender":          raw["gender"],
		"homeworld":       raw["homeworld"],
		"films_count":     listCount(raw, "films"),
		"species_count":   listCount(raw, "species"),
		"vehicles_count":  listCount(raw, "vehicles"),
		"starships_count": listCount(raw, "starships"),
		"url":             raw["url"],
	}
}

// Planet shapes a raw planet record.
func Planet(raw swapi.Raw) Shaped {
	return Shaped{
		"name":            raw["name"],
		"rotation_period": raw["rotation_period"],
		"orbital_period":  raw["orbital_period"],
		"diameter":        raw["diameter"],
		"climate":         raw["climate"],
		"gravity":         raw["gravity"],
		"terrain":         raw["terrain"],
		"surface_water":   raw["surface_water"],
		"population":      raw["population"],
		"residents_count": listCount(raw, "residents"),
		"films_count":     listCount(raw, "films"),
		"url":             raw["url"],
	}
}

// Species shapes a raw species record.
func Species(raw swapi.Raw) Shaped {
	return Shaped{
		"name":             raw["name"],
		"classification":   raw["classification"],
		"designation":      raw["designation"],
		"average_height":   raw["average_height"],
		"average_lifespan": raw["average_lifespan"],
		"eye_colors":       raw["eye_colors"],
		"hair_colors":      raw["hair_colors"],
		"skin_colors":      raw["skin_colors"],
		"language":         raw["language"],
		"homeworld":        raw["homeworld"],
		"people_count":     listCount(raw, "people"),
		"films_count":      listCount(raw, "films"),
		"url":              raw["url"],
	}
}

// Vehicle shapes a raw vehicle record.
func Vehicle(raw swapi.Raw) Shaped {
	return Shaped{
		"name":                   raw["name"],
		"model":                  raw["model"],
		"manufacturer":           raw["manufacturer"],
		"cost_in_credits":        raw["cost_in_credits"],
		"length":                 raw["length"],
		"max_atmosphering_speed": raw["max_atmosphering_speed"],
		"crew":                   raw["crew"],
		"passengers":             raw["passengers"],
		"cargo_capacity":         raw["cargo_capacity"],
		"consumables":            raw["consumables"],
		"vehicle_class":          raw["vehicle_class"],
		"pilots_count":           listCount(raw, "pilots"),
		"films_count":            listCount(raw, "films"),
		"url":                    raw["url"],
	}
}

// Starship shapes a raw starship record.
func Starship(raw swapi.Raw) Shaped {
	return Shaped{
		"name":                   raw["name"],
		"model":                  raw["model"],
		"manufacturer":           raw["manufacturer"],
		"cost_in_credits":        raw["cost_in_credits"],
		"length":                 raw["length"],
		"max_atmosphering_speed": raw["max_atmosphering_speed"],
		"crew":                   raw["crew"],
		"passengers":             raw["passengers"],
		"cargo_capacity":         raw["cargo_capacity"],
		"consumables":            raw["consumables"],
		"hyperdrive_rating":      raw["hyperdrive_rating"],
		"MGLT":                   raw["MGLT"],
		"starship_class":         raw["starship_class"],
		"pilots_count":           listCount(raw, "pilots"),
		"films_count":            listCount(raw, "films"),
		"url":                    raw["url"],
	}
}

// listCount reports the length of a cross-reference URL list field.
// Missing or non-list fields count as zero.
func listCount(raw swapi.Raw, field string) int {
	if list, ok := raw[field].([]any); ok {
		return len(list)
	}
	return 0
}
