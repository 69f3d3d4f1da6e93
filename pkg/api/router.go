// Package api exposes the aggregation engine as a JSON HTTP API.
//
// All endpoints are read-only. Collection responses share one envelope
// (success, count, total, page, page_size, next, previous, data) and
// all errors share another (success, error, message, details).
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dudukuster/star-wars-api/pkg/enrich"
	"github.com/dudukuster/star-wars-api/pkg/pagination"
	"github.com/dudukuster/star-wars-api/pkg/swapi"
)

// Config holds server settings.
type Config struct {
	// Workers sizes the aggregation and expansion worker pools.
	Workers int
}

// DefaultConfig returns the default server settings.
func DefaultConfig() Config {
	return Config{Workers: 5}
}

// Server exposes the aggregation engine over HTTP.
type Server struct {
	client     *swapi.Client
	aggregator *pagination.Aggregator
	resolver   *enrich.Resolver
	expander   *enrich.Expander
	logger     zerolog.Logger
}

// NewServer wires the engine components around client.
func NewServer(client *swapi.Client, cfg Config) *Server {
	if cfg.Workers < 1 {
		cfg.Workers = 5
	}

	resolver := enrich.NewResolver(client)

	return &Server{
		client:     client,
		aggregator: pagination.New(client, pagination.Config{Workers: cfg.Workers, PageSize: 10}),
		resolver:   resolver,
		expander:   enrich.NewExpander(resolver, cfg.Workers),
		logger:     log.With().Str("component", "api").Logger(),
	}
}

// Routes builds the HTTP handler with all middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/films", s.methodGuard(s.handleFilms))
	mux.Handle("/characters", s.methodGuard(s.handleCharacters))
	mux.Handle("/planets", s.methodGuard(s.handlePlanets))
	mux.Handle("/starships", s.methodGuard(s.handleStarships))
	mux.Handle("/health", s.methodGuard(s.handleHealth))
	mux.Handle("/openapi.yaml", s.methodGuard(s.handleOpenAPISpec))
	mux.Handle("/docs", s.methodGuard(s.handleDocs))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleNotFound)

	var handler http.Handler = CORS(mux)
	handler = Recover(s.logger)(handler)
	handler = RequestLogger(s.logger)(handler)
	return handler
}

// methodGuard rejects non-GET methods. OPTIONS never reaches handlers;
// the CORS middleware answers preflight first.
func (s *Server) methodGuard(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed",
				"Only GET requests are supported")
			return
		}
		next(w, r)
	})
}
