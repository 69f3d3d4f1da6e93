package api

import (
	"net/url"
	"strconv"
	"strings"
)

// filmsParams are the query parameters of GET /films.
type filmsParams struct {
	Search string `query:"search" validate:"omitempty,max=100"`
	Page   int    `query:"page" validate:"min=1,max=100"`
	SortBy string `query:"sort_by" validate:"oneof=title release_date episode_id"`
	Order  string `query:"order" validate:"oneof=asc desc"`

	IncludeCharacters bool `query:"include_characters"`
	IncludePlanets    bool `query:"include_planets"`
	IncludeSpecies    bool `query:"include_species"`
	IncludeVehicles   bool `query:"include_vehicles"`
	IncludeStarships  bool `query:"include_starships"`
}

func parseFilmsParams(q url.Values) (filmsParams, []ValidationError) {
	p := filmsParams{
		Search: q.Get("search"),
		SortBy: q.Get("sort_by"),
		Order:  q.Get("order"),
	}
	if p.SortBy == "" {
		p.SortBy = "release_date"
	}
	if p.Order == "" {
		p.Order = "asc"
	}

	var errs []ValidationError
	p.Page, errs = pageParam(q, true, errs)

	p.IncludeCharacters = parseFlag(q, "include_characters")
	p.IncludePlanets = parseFlag(q, "include_planets")
	p.IncludeSpecies = parseFlag(q, "include_species")
	p.IncludeVehicles = parseFlag(q, "include_vehicles")
	p.IncludeStarships = parseFlag(q, "include_starships")
	if parseFlag(q, "include_all") {
		p.IncludeCharacters = true
		p.IncludePlanets = true
		p.IncludeSpecies = true
		p.IncludeVehicles = true
		p.IncludeStarships = true
	}

	errs = append(errs, validateStruct(p)...)
	return p, errs
}

// charactersParams are the query parameters of GET /characters.
type charactersParams struct {
	Search string `query:"search" validate:"omitempty,max=100"`
	Page   int    `query:"page" validate:"min=1,max=100"`
	Gender string `query:"gender" validate:"omitempty,oneof=male female n/a hermaphrodite"`

	IncludeHomeworld bool `query:"include_homeworld"`
	IncludeFilms     bool `query:"include_films"`
	IncludeSpecies   bool `query:"include_species"`
	IncludeVehicles  bool `query:"include_vehicles"`
	IncludeStarships bool `query:"include_starships"`
}

func parseCharactersParams(q url.Values) (charactersParams, []ValidationError) {
	p := charactersParams{
		Search: q.Get("search"),
		Gender: strings.ToLower(q.Get("gender")),
	}

	var errs []ValidationError
	p.Page, errs = pageParam(q, true, errs)

	p.IncludeHomeworld = parseFlag(q, "include_homeworld")
	p.IncludeFilms = parseFlag(q, "include_films")
	p.IncludeSpecies = parseFlag(q, "include_species")
	p.IncludeVehicles = parseFlag(q, "include_vehicles")
	p.IncludeStarships = parseFlag(q, "include_starships")
	if parseFlag(q, "include_all") {
		p.IncludeHomeworld = true
		p.IncludeFilms = true
		p.IncludeSpecies = true
		p.IncludeVehicles = true
		p.IncludeStarships = true
	}

	errs = append(errs, validateStruct(p)...)
	return p, errs
}

// planetsParams are the query parameters of GET /planets.
type planetsParams struct {
	Search  string `query:"search" validate:"omitempty,max=100"`
	Page    int    `query:"page" validate:"min=1,max=100"`
	Climate string `query:"climate" validate:"omitempty,max=50"`
	Terrain string `query:"terrain" validate:"omitempty,max=50"`

	IncludeResidents bool `query:"include_residents"`
	IncludeFilms     bool `query:"include_films"`
}

func parsePlanetsParams(q url.Values) (planetsParams, []ValidationError) {
	p := planetsParams{
		Search:  q.Get("search"),
		Climate: strings.ToLower(q.Get("climate")),
		Terrain: strings.ToLower(q.Get("terrain")),
	}

	var errs []ValidationError
	p.Page, errs = pageParam(q, false, errs)

	p.IncludeResidents = parseFlag(q, "include_residents")
	p.IncludeFilms = parseFlag(q, "include_films")
	if parseFlag(q, "include_all") {
		p.IncludeResidents = true
		p.IncludeFilms = true
	}

	errs = append(errs, validateStruct(p)...)
	return p, errs
}

// starshipsParams are the query parameters of GET /starships.
type starshipsParams struct {
	Search        string `query:"search" validate:"omitempty,max=100"`
	Page          int    `query:"page" validate:"min=1,max=100"`
	StarshipClass string `query:"starship_class" validate:"omitempty,max=50"`
	Manufacturer  string `query:"manufacturer" validate:"omitempty,max=100"`

	IncludePilots bool `query:"include_pilots"`
	IncludeFilms  bool `query:"include_films"`
}

func parseStarshipsParams(q url.Values) (starshipsParams, []ValidationError) {
	p := starshipsParams{
		Search:        q.Get("search"),
		StarshipClass: strings.ToLower(q.Get("starship_class")),
		Manufacturer:  strings.ToLower(q.Get("manufacturer")),
	}

	var errs []ValidationError
	p.Page, errs = pageParam(q, false, errs)

	p.IncludePilots = parseFlag(q, "include_pilots")
	p.IncludeFilms = parseFlag(q, "include_films")
	if parseFlag(q, "include_all") {
		p.IncludePilots = true
		p.IncludeFilms = true
	}

	errs = append(errs, validateStruct(p)...)
	return p, errs
}

// pageParam parses the page parameter, appending to errs on failure. A
// failed parse yields page 1 so struct validation does not pile on a
// second error for the same field.
func pageParam(q url.Values, required bool, errs []ValidationError) (int, []ValidationError) {
	raw := q.Get("page")
	if raw == "" {
		if required {
			return 1, append(errs, ValidationError{Field: "page", Message: "this parameter is required"})
		}
		return 1, errs
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1, append(errs, ValidationError{Field: "page", Message: "must be an integer"})
	}
	return page, errs
}

// parseFlag reads a boolean query parameter; only "true" (any case)
// enables it.
func parseFlag(q url.Values, name string) bool {
	return strings.EqualFold(q.Get(name), "true")
}
