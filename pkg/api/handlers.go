package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dudukuster/star-wars-api/pkg/enrich"
	"github.com/dudukuster/star-wars-api/pkg/pagination"
	"github.com/dudukuster/star-wars-api/pkg/shape"
	"github.com/dudukuster/star-wars-api/pkg/swapi"
)

// filmsPageSize keeps the per-film enrichment fan-out bounded: a single
// film can reference dozens of characters.
const filmsPageSize = 1

// handleFilms serves GET /films: the film collection sorted in memory,
// one film per page, with optional relation expansion.
func (s *Server) handleFilms(w http.ResponseWriter, r *http.Request) {
	params, errs := parseFilmsParams(r.URL.Query())
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid query parameters", errs...)
		return
	}

	ctx := r.Context()

	// The film collection fits in one upstream page.
	page, err := s.client.GetPage(ctx, swapi.KindFilm, params.Search, 1)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}

	films := page.Results
	shape.SortBy(films, params.SortBy, params.Order)

	total := len(films)
	start := (params.Page - 1) * filmsPageSize
	end := start + filmsPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]map[string]any, 0, end-start)
	for _, raw := range films[start:end] {
		film := shape.Film(raw)
		if params.IncludeCharacters {
			film["characters"] = s.expander.Expand(ctx, urlList(raw, "characters"),
				swapi.KindPerson, enrich.Options{DeepenHomeworld: true})
		}
		if params.IncludePlanets {
			film["planets"] = s.expander.Expand(ctx, urlList(raw, "planets"),
				swapi.KindPlanet, enrich.Options{})
		}
		if params.IncludeSpecies {
			film["species"] = s.expander.Expand(ctx, urlList(raw, "species"),
				swapi.KindSpecies, enrich.Options{})
		}
		if params.IncludeVehicles {
			film["vehicles"] = s.expander.Expand(ctx, urlList(raw, "vehicles"),
				swapi.KindVehicle, enrich.Options{})
		}
		if params.IncludeStarships {
			film["starships"] = s.expander.Expand(ctx, urlList(raw, "starships"),
				swapi.KindStarship, enrich.Options{})
		}
		data = append(data, film)
	}

	totalPages := (total + filmsPageSize - 1) / filmsPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	resp := listResponse{
		Success:  true,
		Count:    len(data),
		Total:    total,
		Page:     params.Page,
		PageSize: filmsPageSize,
		Data:     data,
	}
	if params.Page < totalPages {
		next := params.Page + 1
		resp.Next = &next
	}
	if params.Page > 1 {
		previous := params.Page - 1
		resp.Previous = &previous
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCharacters serves GET /characters through the full-collection
// aggregator, with the gender filter and optional enrichment.
func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	params, errs := parseCharactersParams(r.URL.Query())
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid query parameters", errs...)
		return
	}

	ctx := r.Context()

	query := pagination.Query{Search: params.Search, Page: params.Page}
	if params.Gender != "" {
		query.Exact = map[string]string{"gender": params.Gender}
	}

	result, err := s.aggregator.FetchAllAndPaginate(ctx, swapi.KindPerson, query)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}

	data := make([]map[string]any, 0, len(result.Items))
	for _, raw := range result.Items {
		person := shape.Person(raw)
		if params.IncludeFilms {
			person["films"] = s.expander.Expand(ctx, urlList(raw, "films"),
				swapi.KindFilm, enrich.Options{})
		}
		if params.IncludeSpecies {
			person["species"] = s.expander.Expand(ctx, urlList(raw, "species"),
				swapi.KindSpecies, enrich.Options{})
		}
		if params.IncludeVehicles {
			person["vehicles"] = s.expander.Expand(ctx, urlList(raw, "vehicles"),
				swapi.KindVehicle, enrich.Options{})
		}
		if params.IncludeStarships {
			person["starships"] = s.expander.Expand(ctx, urlList(raw, "starships"),
				swapi.KindStarship, enrich.Options{})
		}
		data = append(data, person)
	}

	if params.IncludeHomeworld {
		for _, person := range data {
			url, _ := person["homeworld"].(string)
			if url == "" {
				continue
			}
			if planet, ok := s.resolver.Resolve(ctx, url, swapi.KindPlanet); ok {
				person["homeworld"] = planet
			}
		}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success:  true,
		Count:    len(data),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		Next:     result.Next,
		Previous: result.Previous,
		Data:     data,
	})
}

// handlePlanets serves GET /planets through the full-collection
// aggregator with climate and terrain filters.
func (s *Server) handlePlanets(w http.ResponseWriter, r *http.Request) {
	params, errs := parsePlanetsParams(r.URL.Query())
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid query parameters", errs...)
		return
	}

	ctx := r.Context()

	filters := map[string]string{}
	if params.Climate != "" {
		filters["climate"] = params.Climate
	}
	if params.Terrain != "" {
		filters["terrain"] = params.Terrain
	}

	result, err := s.aggregator.FetchAllAndPaginate(ctx, swapi.KindPlanet, pagination.Query{
		Search:  params.Search,
		Filters: filters,
		Page:    params.Page,
	})
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}

	data := make([]map[string]any, 0, len(result.Items))
	for _, raw := range result.Items {
		planet := shape.Planet(raw)
		if params.IncludeResidents {
			planet["residents"] = s.expander.Expand(ctx, urlList(raw, "residents"),
				swapi.KindPerson, enrich.Options{})
		}
		if params.IncludeFilms {
			planet["films"] = s.expander.Expand(ctx, urlList(raw, "films"),
				swapi.KindFilm, enrich.Options{})
		}
		data = append(data, planet)
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success:  true,
		Count:    len(data),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		Next:     result.Next,
		Previous: result.Previous,
		Data:     data,
	})
}

// handleStarships serves GET /starships through the full-collection
// aggregator with class and manufacturer filters. Expanded pilots carry
// their homeworld as a shaped planet.
func (s *Server) handleStarships(w http.ResponseWriter, r *http.Request) {
	params, errs := parseStarshipsParams(r.URL.Query())
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid query parameters", errs...)
		return
	}

	ctx := r.Context()

	filters := map[string]string{}
	if params.StarshipClass != "" {
		filters["starship_class"] = params.StarshipClass
	}
	if params.Manufacturer != "" {
		filters["manufacturer"] = params.Manufacturer
	}

	result, err := s.aggregator.FetchAllAndPaginate(ctx, swapi.KindStarship, pagination.Query{
		Search:  params.Search,
		Filters: filters,
		Page:    params.Page,
	})
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}

	data := make([]map[string]any, 0, len(result.Items))
	for _, raw := range result.Items {
		ship := shape.Starship(raw)
		if params.IncludePilots {
			ship["pilots"] = s.expander.Expand(ctx, urlList(raw, "pilots"),
				swapi.KindPerson, enrich.Options{DeepenHomeworld: true})
		}
		if params.IncludeFilms {
			ship["films"] = s.expander.Expand(ctx, urlList(raw, "films"),
				swapi.KindFilm, enrich.Options{})
		}
		data = append(data, ship)
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success:  true,
		Count:    len(data),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		Next:     result.Next,
		Previous: result.Previous,
		Data:     data,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "star-wars-api",
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
}

// writeUpstreamError maps catalog failures to 503. Cancelled requests
// get no response; the client is gone.
func (s *Server) writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, swapi.ErrContextCancelled) {
		return
	}

	s.logger.Error().Err(err).Msg("Upstream fetch failed")
	writeError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
}

// urlList pulls a cross-reference URL list out of a raw record.
func urlList(raw swapi.Raw, field string) []string {
	list, ok := raw[field].([]any)
	if !ok {
		return nil
	}
	urls := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			urls = append(urls, s)
		}
	}
	return urls
}
