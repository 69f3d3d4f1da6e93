package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dudukuster/star-wars-api/internal/testutil"
	"github.com/dudukuster/star-wars-api/pkg/swapi"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// envelope decodes both success and error responses.
type envelope struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Next     *int              `json:"next"`
	Previous *int              `json:"previous"`
	Data     []map[string]any  `json:"data"`
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Details  []ValidationError `json:"details"`
}

func newTestServer(t *testing.T, catalog *testutil.MockCatalog) *Server {
	t.Helper()

	cfg := swapi.DefaultConfig()
	cfg.BaseURL = catalog.BaseURL()
	cfg.UserAgent = "api-test/1.0"
	cfg.RetryDelay = 5 * time.Millisecond
	cfg.RequestsPerSecond = 0

	client, err := swapi.New(cfg)
	if err != nil {
		t.Fatalf("swapi.New() error = %v", err)
	}
	return NewServer(client, DefaultConfig())
}

func doGet(t *testing.T, handler http.Handler, target string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode, env
}

func serveFilms(catalog *testutil.MockCatalog) {
	base := catalog.BaseURL()
	catalog.ServeCollection("films", []map[string]any{
		testutil.FilmFixture(base, 2, 5, "The Empire Strikes Back", "1980-05-17", nil),
		testutil.FilmFixture(base, 1, 4, "A New Hope", "1977-05-25", nil),
		testutil.FilmFixture(base, 3, 6, "Return of the Jedi", "1983-05-25", nil),
	}, 10)
}

func TestFilmsEndpoint(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()
	serveFilms(catalog)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/films?page=1")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	if !env.Success {
		t.Error("success = false")
	}
	if env.Total != 3 {
		t.Errorf("total = %d, want 3", env.Total)
	}
	if env.Count != 1 || len(env.Data) != 1 {
		t.Fatalf("count = %d, len(data) = %d, want one film per page", env.Count, len(env.Data))
	}
	if env.PageSize != 1 {
		t.Errorf("page_size = %d, want 1", env.PageSize)
	}

	// Default sort is release_date ascending.
	if got := env.Data[0]["title"]; got != "A New Hope" {
		t.Errorf("data[0].title = %v, want A New Hope", got)
	}
	if env.Next == nil || *env.Next != 2 {
		t.Errorf("next = %v, want 2", env.Next)
	}
	if env.Previous != nil {
		t.Errorf("previous = %v, want null", *env.Previous)
	}

	crawl, _ := env.Data[0]["opening_crawl"].(string)
	if len([]rune(crawl)) > 100 {
		t.Errorf("opening_crawl length = %d, want at most 100", len([]rune(crawl)))
	}
	if _, present := env.Data[0]["characters"]; present {
		t.Error("characters expanded without the include flag")
	}
}

func TestFilmsSorting(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()
	serveFilms(catalog)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/films?page=1&sort_by=episode_id&order=desc")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got := env.Data[0]["title"]; got != "Return of the Jedi" {
		t.Errorf("data[0].title = %v, want Return of the Jedi (episode 6)", got)
	}

	status, env = doGet(t, routes, "/films?page=2&sort_by=title&order=asc")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got := env.Data[0]["title"]; got != "Return of the Jedi" {
		t.Errorf("page 2 by title = %v, want Return of the Jedi", got)
	}
	if env.Previous == nil || *env.Previous != 1 {
		t.Errorf("previous = %v, want 1", env.Previous)
	}
}

func TestFilmsValidation(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()
	serveFilms(catalog)

	routes := newTestServer(t, catalog).Routes()

	tests := []struct {
		name   string
		target string
		field  string
	}{
		{"missing page", "/films", "page"},
		{"page zero", "/films?page=0", "page"},
		{"page not an integer", "/films?page=abc", "page"},
		{"bad sort field", "/films?page=1&sort_by=director", "sort_by"},
		{"bad order", "/films?page=1&order=sideways", "order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doGet(t, routes, tt.target)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", status)
			}
			if env.Success {
				t.Error("success = true on a validation error")
			}
			if env.Error != "validation_error" {
				t.Errorf("error = %q, want validation_error", env.Error)
			}
			found := false
			for _, d := range env.Details {
				if d.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("details = %v, want an entry for %q", env.Details, tt.field)
			}
			if got := catalog.GetRequestCount(); got != 0 {
				t.Errorf("upstream requests = %d, want 0 for rejected input", got)
			}
		})
	}
}

func TestFilmsIncludeCharactersDeepensHomeworld(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	base := catalog.BaseURL()
	catalog.ServeCollection("films", []map[string]any{
		testutil.FilmFixture(base, 1, 4, "A New Hope", "1977-05-25", []int{1, 2}),
	}, 10)
	catalog.ServeCollection("people", []map[string]any{
		testutil.PersonFixture(base, 1, "Luke Skywalker", "male", 1, nil),
		testutil.PersonFixture(base, 2, "C-3PO", "n/a", 1, nil),
	}, 10)
	catalog.ServeCollection("planets", []map[string]any{
		testutil.PlanetFixture(base, 1, "Tatooine", "arid", "desert"),
	}, 10)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/films?page=1&include_characters=true")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	characters, ok := env.Data[0]["characters"].([]any)
	if !ok {
		t.Fatalf("characters is %T, want a list", env.Data[0]["characters"])
	}
	if len(characters) != 2 {
		t.Fatalf("len(characters) = %d, want 2", len(characters))
	}

	first, ok := characters[0].(map[string]any)
	if !ok {
		t.Fatalf("characters[0] is %T, want an object", characters[0])
	}
	if first["name"] != "Luke Skywalker" {
		t.Errorf("characters[0].name = %v, want Luke Skywalker (input order)", first["name"])
	}

	homeworld, ok := first["homeworld"].(map[string]any)
	if !ok {
		t.Fatalf("homeworld is %T, want a deepened planet object", first["homeworld"])
	}
	if homeworld["name"] != "Tatooine" {
		t.Errorf("homeworld.name = %v, want Tatooine", homeworld["name"])
	}
}

func serveCharacters(catalog *testutil.MockCatalog, size int) {
	base := catalog.BaseURL()
	people := make([]map[string]any, 0, size)
	for i := 1; i <= size; i++ {
		gender := "male"
		if i%2 == 0 {
			gender = "female"
		}
		people = append(people,
			testutil.PersonFixture(base, i, fmt.Sprintf("Person %02d", i), gender, 1, nil))
	}
	catalog.ServeCollection("people", people, 10)
}

func TestCharactersEndpoint(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()
	serveCharacters(catalog, 25)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/characters?page=2")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	if env.Total != 25 {
		t.Errorf("total = %d, want 25", env.Total)
	}
	if env.Count != 10 {
		t.Errorf("count = %d, want 10", env.Count)
	}
	if got := env.Data[0]["name"]; got != "Person 11" {
		t.Errorf("data[0].name = %v, want Person 11", got)
	}
	if env.Next == nil || *env.Next != 3 {
		t.Errorf("next = %v, want 3", env.Next)
	}
	if env.Previous == nil || *env.Previous != 1 {
		t.Errorf("previous = %v, want 1", env.Previous)
	}

	// Shaped people carry counts, not URL lists.
	if _, present := env.Data[0]["films"]; present {
		t.Error("films URL list leaked into the shaped person")
	}
	if _, present := env.Data[0]["films_count"]; !present {
		t.Error("films_count missing from the shaped person")
	}
}

func TestCharactersGenderFilter(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()
	serveCharacters(catalog, 25)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/characters?page=1&gender=female")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	if env.Total != 12 {
		t.Errorf("total = %d, want 12 female characters out of 25", env.Total)
	}
	for _, person := range env.Data {
		if person["gender"] != "female" {
			t.Errorf("%v leaked through the gender filter", person["name"])
		}
	}

	status, env = doGet(t, routes, "/characters?page=1&gender=robot")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for an unknown gender", status)
	}
	if env.Error != "validation_error" {
		t.Errorf("error = %q, want validation_error", env.Error)
	}
}

func TestCharactersIncludeHomeworld(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	base := catalog.BaseURL()
	catalog.ServeCollection("people", []map[string]any{
		testutil.PersonFixture(base, 1, "Luke Skywalker", "male", 1, nil),
		testutil.PersonFixture(base, 2, "Lost Soul", "male", 99, nil),
	}, 10)
	catalog.ServeCollection("planets", []map[string]any{
		testutil.PlanetFixture(base, 1, "Tatooine", "arid", "desert"),
	}, 10)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/characters?page=1&include_homeworld=true")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	luke := env.Data[0]
	homeworld, ok := luke["homeworld"].(map[string]any)
	if !ok {
		t.Fatalf("homeworld is %T, want a resolved planet", luke["homeworld"])
	}
	if homeworld["name"] != "Tatooine" {
		t.Errorf("homeworld.name = %v, want Tatooine", homeworld["name"])
	}

	// Planet 99 is not served; the raw URL stays in place.
	lost := env.Data[1]
	if url, ok := lost["homeworld"].(string); !ok || !strings.Contains(url, "/planets/99/") {
		t.Errorf("homeworld = %v, want the unresolved URL kept", lost["homeworld"])
	}
}

func TestPlanetsClimateFilter(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	base := catalog.BaseURL()
	catalog.ServeCollection("planets", []map[string]any{
		testutil.PlanetFixture(base, 1, "Tatooine", "arid", "desert"),
		testutil.PlanetFixture(base, 2, "Hoth", "frozen", "tundra, ice caves"),
		testutil.PlanetFixture(base, 3, "Naboo", "temperate", "grassy hills, swamps"),
		testutil.PlanetFixture(base, 4, "Kamino", "temperate", "ocean"),
	}, 10)

	routes := newTestServer(t, catalog).Routes()

	// Page is optional for planets.
	status, env := doGet(t, routes, "/planets?climate=temperate")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if env.Total != 2 {
		t.Errorf("total = %d, want 2 temperate planets", env.Total)
	}
	if env.Page != 1 {
		t.Errorf("page = %d, want default 1", env.Page)
	}

	status, env = doGet(t, routes, "/planets?climate=temperate&terrain=ocean")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if env.Total != 1 || env.Data[0]["name"] != "Kamino" {
		t.Errorf("combined filters: total = %d, data = %v, want only Kamino", env.Total, env.Data)
	}
}

func TestPlanetsIncludeResidents(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	base := catalog.BaseURL()
	planet := testutil.PlanetFixture(base, 1, "Tatooine", "arid", "desert")
	planet["residents"] = []any{base + "people/1/", base + "people/2/"}
	catalog.ServeCollection("planets", []map[string]any{planet}, 10)
	catalog.ServeCollection("people", []map[string]any{
		testutil.PersonFixture(base, 1, "Luke Skywalker", "male", 1, nil),
		testutil.PersonFixture(base, 2, "Owen Lars", "male", 1, nil),
	}, 10)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/planets?include_residents=true")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	residents, ok := env.Data[0]["residents"].([]any)
	if !ok {
		t.Fatalf("residents is %T, want a list", env.Data[0]["residents"])
	}
	if len(residents) != 2 {
		t.Fatalf("len(residents) = %d, want 2", len(residents))
	}

	// Residents expand without homeworld deepening.
	first := residents[0].(map[string]any)
	if _, isURL := first["homeworld"].(string); !isURL {
		t.Errorf("resident homeworld = %T, want the raw URL", first["homeworld"])
	}
}

func TestStarshipsFilters(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	base := catalog.BaseURL()
	catalog.ServeCollection("starships", []map[string]any{
		testutil.StarshipFixture(base, 12, "X-wing", "Starfighter", "Incom Corporation", nil),
		testutil.StarshipFixture(base, 9, "Death Star", "Deep Space Mobile Battlestation", "Imperial Department of Military Research", nil),
	}, 10)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/starships?starship_class=starfighter")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if env.Total != 1 || env.Data[0]["name"] != "X-wing" {
		t.Errorf("class filter: total = %d, data = %v, want only X-wing", env.Total, env.Data)
	}

	status, env = doGet(t, routes, "/starships?manufacturer=incom")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if env.Total != 1 || env.Data[0]["name"] != "X-wing" {
		t.Errorf("manufacturer filter: total = %d, want only X-wing", env.Total)
	}
}

func TestStarshipsIncludePilotsDeepensHomeworld(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	base := catalog.BaseURL()
	catalog.ServeCollection("starships", []map[string]any{
		testutil.StarshipFixture(base, 12, "X-wing", "Starfighter", "Incom Corporation", []int{1}),
	}, 10)
	catalog.ServeCollection("people", []map[string]any{
		testutil.PersonFixture(base, 1, "Luke Skywalker", "male", 1, nil),
	}, 10)
	catalog.ServeCollection("planets", []map[string]any{
		testutil.PlanetFixture(base, 1, "Tatooine", "arid", "desert"),
	}, 10)

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/starships?include_pilots=true")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	pilots, ok := env.Data[0]["pilots"].([]any)
	if !ok || len(pilots) != 1 {
		t.Fatalf("pilots = %v, want one expanded pilot", env.Data[0]["pilots"])
	}

	pilot := pilots[0].(map[string]any)
	homeworld, ok := pilot["homeworld"].(map[string]any)
	if !ok {
		t.Fatalf("pilot homeworld is %T, want a deepened planet", pilot["homeworld"])
	}
	if homeworld["name"] != "Tatooine" {
		t.Errorf("pilot homeworld = %v, want Tatooine", homeworld["name"])
	}
}

func TestUpstreamFailureMapsTo503(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	catalog.SetResponse("/api/people/", testutil.MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"detail": "down"}`,
	})

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/characters?page=1")
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", status)
	}
	if env.Success {
		t.Error("success = true on an upstream failure")
	}
	if env.Error != "service_unavailable" {
		t.Errorf("error = %q, want service_unavailable", env.Error)
	}

	// All three attempts hit the upstream before giving up.
	if got := catalog.RequestsFor("/api/people/"); got != 3 {
		t.Errorf("upstream requests = %d, want 3", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	routes := newTestServer(t, catalog).Routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Result().StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestUnknownEndpoint(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	routes := newTestServer(t, catalog).Routes()

	status, env := doGet(t, routes, "/droids")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if env.Error != "not_found" {
		t.Errorf("error = %q, want not_found", env.Error)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	routes := newTestServer(t, catalog).Routes()

	req := httptest.NewRequest(http.MethodPost, "/films", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if env.Error != "method_not_allowed" {
		t.Errorf("error = %q, want method_not_allowed", env.Error)
	}
}

func TestOpenAPIAndDocs(t *testing.T) {
	catalog := testutil.NewMockCatalog()
	defer catalog.Close()

	routes := newTestServer(t, catalog).Routes()

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/yaml" {
		t.Errorf("Content-Type = %q, want application/yaml", got)
	}
	if got := resp.Header.Get("Cache-Control"); !strings.Contains(got, "max-age=300") {
		t.Errorf("Cache-Control = %q, want a max-age", got)
	}

	body := w.Body.String()
	if !strings.Contains(body, "openapi:") || !strings.Contains(body, "/films") {
		t.Error("spec body does not describe the API")
	}

	req = httptest.NewRequest(http.MethodGet, "/docs", nil)
	w = httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("docs status = %d, want 200", w.Result().StatusCode)
	}
	if !strings.Contains(w.Body.String(), "swagger-ui") {
		t.Error("docs page does not embed Swagger UI")
	}
}
