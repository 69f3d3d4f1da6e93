// Package testutil provides testing utilities for the Star Wars catalog
// engine.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock catalog endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockCatalog is a configurable in-process SWAPI replica for testing.
type MockCatalog struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	pathCounts        map[string]int
	LastRequestHeader http.Header
}

// NewMockCatalog creates a new mock catalog server. Paths without a
// registered handler answer 404 the way SWAPI does.
func NewMockCatalog() *MockCatalog {
	mock := &MockCatalog{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.pathCounts[r.URL.Path]++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		writeNotFound(w)
	}))

	return mock
}

// BaseURL returns the catalog root, ready for a client BaseURL.
func (m *MockCatalog) BaseURL() string {
	return m.server.URL + "/api/"
}

// Close shuts down the mock server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.pathCounts = make(map[string]int)
	m.LastRequestHeader = nil
}

// GetRequestCount returns the total number of requests served.
func (m *MockCatalog) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// RequestsFor returns the number of requests served for one path.
func (m *MockCatalog) RequestsFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// SetHandler sets a custom handler for a specific path.
func (m *MockCatalog) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockCatalog) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		if _, ok := resp.Headers["Content-Type"]; !ok {
			w.Header().Set("Content-Type", "application/json")
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// ServeCollection registers a resource collection with SWAPI paging
// semantics: ?search= narrows by name or title substring, ?page=
// selects a page, and a page beyond the collection answers 404. Detail
// endpoints are registered for every item carrying a url field.
func (m *MockCatalog) ServeCollection(resource string, items []map[string]any, pageSize int) {
	if pageSize < 1 {
		pageSize = 10
	}

	listPath := "/api/" + resource + "/"
	m.SetHandler(listPath, func(w http.ResponseWriter, r *http.Request) {
		matching := filterBySearch(items, r.URL.Query().Get("search"))

		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil {
				writeNotFound(w)
				return
			}
			page = p
		}

		totalPages := (len(matching) + pageSize - 1) / pageSize
		if totalPages < 1 {
			totalPages = 1
		}
		if page < 1 || page > totalPages {
			writeNotFound(w)
			return
		}

		start := (page - 1) * pageSize
		end := start + pageSize
		if end > len(matching) {
			end = len(matching)
		}

		envelope := map[string]any{
			"count":    len(matching),
			"next":     m.pageLink(listPath, r.URL.Query().Get("search"), page+1, totalPages),
			"previous": m.pageLink(listPath, r.URL.Query().Get("search"), page-1, totalPages),
			"results":  matching[start:end],
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(envelope)
	})

	for _, item := range items {
		rawURL, ok := item["url"].(string)
		if !ok {
			continue
		}
		parsed, err := url.Parse(rawURL)
		if err != nil {
			continue
		}
		detail := item
		m.SetHandler(parsed.Path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(detail)
		})
	}
}

// pageLink builds an absolute page link or nil at the edges.
func (m *MockCatalog) pageLink(listPath, search string, page, totalPages int) any {
	if page < 1 || page > totalPages {
		return nil
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("search", search)
	}
	return m.server.URL + listPath + "?" + q.Encode()
}

// filterBySearch narrows items by case-insensitive substring on the
// name or title field, matching SWAPI search behavior.
func filterBySearch(items []map[string]any, search string) []map[string]any {
	if search == "" {
		return items
	}

	needle := strings.ToLower(search)
	matching := make([]map[string]any, 0, len(items))
	for _, item := range items {
		for _, field := range []string{"name", "title"} {
			if v, ok := item[field].(string); ok && strings.Contains(strings.ToLower(v), needle) {
				matching = append(matching, item)
				break
			}
		}
	}
	return matching
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"detail": "Not found"}`))
}

// PersonFixture builds a realistic raw person record.
func PersonFixture(base string, id int, name, gender string, homeworldID int, filmIDs []int) map[string]any {
	films := make([]any, 0, len(filmIDs))
	for _, fid := range filmIDs {
		films = append(films, fmt.Sprintf("%sfilms/%d/", base, fid))
	}
	return map[string]any{
		"name":       name,
		"height":     "172",
		"mass":       "77",
		"hair_color": "brown",
		"skin_color": "fair",
		"eye_color":  "blue",
		"birth_year": "19BBY",
		"gender":     gender,
		"homeworld":  fmt.Sprintf("%splanets/%d/", base, homeworldID),
		"films":      films,
		"species":    []any{},
		"vehicles":   []any{},
		"starships":  []any{},
		"url":        fmt.Sprintf("%speople/%d/", base, id),
	}
}

// PlanetFixture builds a realistic raw planet record.
func PlanetFixture(base string, id int, name, climate, terrain string) map[string]any {
	return map[string]any{
		"name":            name,
		"rotation_period": "24",
		"orbital_period":  "365",
		"diameter":        "10465",
		"climate":         climate,
		"gravity":         "1 standard",
		"terrain":         terrain,
		"surface_water":   "1",
		"population":      "200000",
		"residents":       []any{},
		"films":           []any{},
		"url":             fmt.Sprintf("%splanets/%d/", base, id),
	}
}

// FilmFixture builds a realistic raw film record.
func FilmFixture(base string, id, episode int, title, releaseDate string, characterIDs []int) map[string]any {
	characters := make([]any, 0, len(characterIDs))
	for _, cid := range characterIDs {
		characters = append(characters, fmt.Sprintf("%speople/%d/", base, cid))
	}
	return map[string]any{
		"title":         title,
		"episode_id":    episode,
		"opening_crawl": strings.Repeat("It is a period of civil war. ", 8),
		"director":      "George Lucas",
		"producer":      "Gary Kurtz, Rick McCallum",
		"release_date":  releaseDate,
		"characters":    characters,
		"planets":       []any{},
		"starships":     []any{},
		"vehicles":      []any{},
		"species":       []any{},
		"url":           fmt.Sprintf("%sfilms/%d/", base, id),
	}
}

// StarshipFixture builds a realistic raw starship record.
func StarshipFixture(base string, id int, name, class, manufacturer string, pilotIDs []int) map[string]any {
	pilots := make([]any, 0, len(pilotIDs))
	for _, pid := range pilotIDs {
		pilots = append(pilots, fmt.Sprintf("%speople/%d/", base, pid))
	}
	return map[string]any{
		"name":                   name,
		"model":                  name,
		"manufacturer":           manufacturer,
		"cost_in_credits":        "149999",
		"length":                 "12.5",
		"max_atmosphering_speed": "1050",
		"crew":                   "1",
		"passengers":             "0",
		"cargo_capacity":         "110",
		"consumables":            "1 week",
		"hyperdrive_rating":      "1.0",
		"MGLT":                   "100",
		"starship_class":         class,
		"pilots":                 pilots,
		"films":                  []any{},
		"url":                    fmt.Sprintf("%sstarships/%d/", base, id),
	}
}
