package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dudukuster/star-wars-api/pkg/shape"
	"github.com/dudukuster/star-wars-api/pkg/swapi"
)

var swapiPagesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "swapi_pages_dropped_total",
	Help: "Total collection pages dropped after retry exhaustion",
}, []string{"resource"})

// Config holds aggregator settings.
type Config struct {
	// Workers is the worker pool size for parallel page fetching.
	Workers int

	// PageSize is the default size of re-paginated result pages.
	PageSize int
}

// DefaultConfig returns the default aggregator settings.
func DefaultConfig() Config {
	return Config{
		Workers:  5,
		PageSize: 10,
	}
}

// PageFetcher fetches one page of a SWAPI collection.
type PageFetcher interface {
	GetPage(ctx context.Context, kind swapi.Kind, search string, page int) (*swapi.Page, error)
}

// Query describes one aggregation request.
type Query struct {
	// Search narrows the collection upstream before aggregation.
	Search string

	// Filters are field=substring filters applied in memory after the
	// full fetch. Matching is case-insensitive.
	Filters map[string]string

	// Exact are field=value filters matched by case-insensitive
	// equality, for enumerated fields where substrings overlap.
	Exact map[string]string

	// Page selects a page of the filtered set (1-based).
	Page int

	// PageSize overrides the configured page size when positive.
	PageSize int
}

// Result is one page of a filtered collection.
type Result struct {
	// Items is the selected page of the filtered set, in upstream order.
	Items []swapi.Raw

	// Total counts the whole filtered set, not this page.
	Total int

	Page     int
	PageSize int

	// Next and Previous are adjacent page numbers, nil at the edges.
	Next     *int
	Previous *int
}

// pageResult carries one fetched page from a worker.
type pageResult struct {
	page int
	data *swapi.Page
	err  error
}

// Aggregator fetches whole collections through a worker pool and slices
// them into pages after filtering.
type Aggregator struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// New creates an aggregator on top of fetcher.
func New(fetcher PageFetcher, config Config) *Aggregator {
	if config.Workers < 1 {
		config.Workers = 5
	}
	if config.PageSize < 1 {
		config.PageSize = 10
	}
	return &Aggregator{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "aggregator").Logger(),
	}
}

// FetchAllAndPaginate fetches every page of a collection, applies the
// query filters in memory, and returns the requested page of the
// filtered set. Pages that fail after retries are dropped; only a
// first-page failure aborts the aggregation.
func (a *Aggregator) FetchAllAndPaginate(ctx context.Context, kind swapi.Kind, q Query) (*Result, error) {
	start := time.Now()

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = a.config.PageSize
	}

	first, err := a.fetcher.GetPage(ctx, kind, q.Search, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	// The upstream page size is implied by the first page.
	perPage := len(first.Results)
	if perPage == 0 {
		perPage = 10
	}
	totalPages := (first.Count + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	a.logger.Debug().
		Str("resource", kind.Path()).
		Int("collection_size", first.Count).
		Int("total_pages", totalPages).
		Msg("Aggregating collection")

	all := make([]swapi.Raw, 0, first.Count)
	all = append(all, first.Results...)

	if totalPages > 1 {
		for _, p := range a.fetchRemaining(ctx, kind, q.Search, totalPages) {
			if p != nil {
				all = append(all, p.Results...)
			}
		}
	}

	filtered := all
	for field, value := range q.Filters {
		filtered = shape.FilterByField(filtered, field, value)
	}
	for field, value := range q.Exact {
		filtered = shape.FilterByFieldExact(filtered, field, value)
	}

	total := len(filtered)
	startIdx := (page - 1) * pageSize
	endIdx := startIdx + pageSize
	if startIdx > total {
		startIdx = total
	}
	if endIdx > total {
		endIdx = total
	}

	items := []swapi.Raw{}
	items = append(items, filtered[startIdx:endIdx]...)

	filteredPages := (total + pageSize - 1) / pageSize
	if filteredPages < 1 {
		filteredPages = 1
	}

	result := &Result{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	if page < filteredPages {
		next := page + 1
		result.Next = &next
	}
	if page > 1 {
		previous := page - 1
		result.Previous = &previous
	}

	a.logger.Debug().
		Str("resource", kind.Path()).
		Int("total", total).
		Int("page", page).
		Dur("duration", time.Since(start)).
		Msg("Aggregation complete")

	return result, nil
}

// fetchRemaining fetches pages 2..totalPages through the worker pool
// and returns them indexed by page number. Failed pages are left nil.
func (a *Aggregator) fetchRemaining(ctx context.Context, kind swapi.Kind, search string, totalPages int) []*swapi.Page {
	workers := a.config.Workers
	if workers > totalPages-1 {
		workers = totalPages - 1
	}

	pages := make(chan int, totalPages-1)
	for p := 2; p <= totalPages; p++ {
		pages <- p
	}
	close(pages)

	results := make(chan pageResult, totalPages-1)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range pages {
				data, err := a.fetcher.GetPage(ctx, kind, search, p)
				results <- pageResult{page: p, data: data, err: err}
			}
		}()
	}

	wg.Wait()
	close(results)

	slots := make([]*swapi.Page, totalPages+1)
	for r := range results {
		if r.err != nil {
			swapiPagesDroppedTotal.WithLabelValues(kind.Path()).Inc()
			a.logger.Warn().
				Err(r.err).
				Str("resource", kind.Path()).
				Int("page", r.page).
				Msg("Page fetch failed, dropping page")
			continue
		}
		slots[r.page] = r.data
	}

	return slots[2:]
}
