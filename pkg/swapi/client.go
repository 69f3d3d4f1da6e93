package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dudukuster/star-wars-api/pkg/cache"
)

// Prometheus metrics for SWAPI client operations.
var (
	swapiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_requests_total",
		Help: "Total SWAPI requests by resource and status",
	}, []string{"resource", "status"})

	swapiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapi_request_duration_seconds",
		Help:    "SWAPI request duration in seconds by resource",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"resource"})

	swapiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_errors_total",
		Help: "Total SWAPI errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the public SWAPI root.
const DefaultBaseURL = "https://swapi.dev/api/"

// Client is a SWAPI catalog client with retries, memoization and pacing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cache      *cache.Store
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the catalog root (default: DefaultBaseURL).
	BaseURL string

	// UserAgent header sent with every request (required).
	UserAgent string

	// Timeout is the per-attempt deadline.
	Timeout time.Duration

	// Retry
	MaxAttempts int           // Total attempts including the first
	RetryDelay  time.Duration // Base of the linear backoff

	// CacheSize bounds the memoization cache in entries.
	CacheSize int

	// RequestsPerSecond paces outgoing requests (0 disables pacing).
	RequestsPerSecond int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         "star-wars-api/1.0",
		Timeout:           10 * time.Second,
		MaxAttempts:       3,
		RetryDelay:        1 * time.Second,
		CacheSize:         cache.DefaultSize,
		RequestsPerSecond: 10,
	}
}

// New creates a new SWAPI client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 1 * time.Second
	}

	store, err := cache.NewStore(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RequestsPerSecond)), 1)
	}

	logger := log.With().Str("component", "swapi-client").Logger()

	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/",
		limiter:    limiter,
		cache:      store,
		config:     cfg,
		logger:     logger,
	}, nil
}

// GetPage fetches one page of a collection, optionally narrowed by the
// upstream search parameter. Results are memoized; a cache hit bypasses
// the network entirely.
func (c *Client) GetPage(ctx context.Context, kind Kind, search string, page int) (*Page, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if page < 1 {
		page = 1
	}

	key := cache.Key{Resource: kind.Path(), Search: search, Page: page}
	if v, ok := c.cache.Get(key); ok {
		if p, ok := v.(*Page); ok {
			c.logger.Debug().Str("key", key.String()).Msg("Cache hit")
			return p, nil
		}
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("search", search)
	}
	u := c.baseURL + kind.Path() + "/?" + q.Encode()

	var p Page
	if err := c.getJSON(ctx, kind.Path(), u, &p); err != nil {
		return nil, err
	}

	c.cache.Add(key, &p)
	return &p, nil
}

// GetByID fetches a single entity by its numeric ID. Results are
// memoized; a cache hit bypasses the network entirely.
func (c *Client) GetByID(ctx context.Context, kind Kind, id int) (Raw, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if id <= 0 {
		return nil, fmt.Errorf("entity id must be positive (got %d)", id)
	}

	key := cache.Key{Resource: kind.Path(), ID: id}
	if v, ok := c.cache.Get(key); ok {
		if raw, ok := v.(Raw); ok {
			c.logger.Debug().Str("key", key.String()).Msg("Cache hit")
			return raw, nil
		}
	}

	u := fmt.Sprintf("%s%s/%d/", c.baseURL, kind.Path(), id)

	var raw Raw
	if err := c.getJSON(ctx, kind.Path(), u, &raw); err != nil {
		return nil, err
	}

	c.cache.Add(key, raw)
	return raw, nil
}

// Cache returns the memoization store (for testing).
func (c *Client) Cache() *cache.Store {
	return c.cache
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// getJSON performs a GET request with pacing, retries and classification,
// decoding the response body into v.
func (c *Client) getJSON(ctx context.Context, resource, rawURL string, v any) error {
	start := time.Now()
	defer func() {
		swapiRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	}()

	c.logger.Debug().
		Str("resource", resource).
		Str("url", rawURL).
		Msg("Executing SWAPI request")

	return retryWithBackoff(ctx, c.config.MaxAttempts, c.config.RetryDelay, c.logger, func() error {
		return c.fetchOnce(ctx, resource, rawURL, v)
	})
}

// fetchOnce performs a single attempt under its own deadline.
func (c *Client) fetchOnce(ctx context.Context, resource, rawURL string, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, err)
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %v", ErrContextCancelled, err)
		}
		class := classifyTransportError(err)
		swapiErrorsTotal.WithLabelValues(string(class)).Inc()
		swapiRequestsTotal.WithLabelValues(resource, string(class)).Inc()

		c.logger.Warn().
			Err(err).
			Str("resource", resource).
			Str("error_class", string(class)).
			Msg("SWAPI request failed")

		msg := "request failed"
		if class == ErrorClassTimeout {
			msg = "request timed out"
		}
		return &UpstreamError{Class: class, Message: msg, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		swapiErrorsTotal.WithLabelValues(string(class)).Inc()
		swapiRequestsTotal.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Inc()

		c.logger.Warn().
			Str("resource", resource).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("SWAPI request error")

		uerr := &UpstreamError{StatusCode: resp.StatusCode, Class: class, Message: resp.Status}
		if class == ErrorClassNotFound {
			uerr.Err = ErrNotFound
		}
		return uerr
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		swapiErrorsTotal.WithLabelValues(string(ErrorClassInvalidResponse)).Inc()
		swapiRequestsTotal.WithLabelValues(resource, "invalid_response").Inc()

		c.logger.Warn().
			Err(err).
			Str("resource", resource).
			Msg("Invalid JSON response")

		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassInvalidResponse,
			Message:    "invalid JSON response",
			Err:        err,
		}
	}

	swapiRequestsTotal.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Inc()
	return nil
}

// classifyStatus maps an HTTP error status to an error class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusNotFound:
		return ErrorClassNotFound
	case status >= 400 && status < 500:
		return ErrorClassClient
	default:
		return ErrorClassServer
	}
}

// classifyTransportError distinguishes timeouts from other transport
// failures.
func classifyTransportError(err error) ErrorClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorClassTimeout
	}
	return ErrorClassNetwork
}
