package enrich

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dudukuster/star-wars-api/pkg/shape"
	"github.com/dudukuster/star-wars-api/pkg/swapi"
)

// Options controls expansion behavior.
type Options struct {
	// DeepenHomeworld replaces the homeworld URL of each expanded
	// person with the shaped planet. It only applies when expanding
	// people and never propagates: the deepened planet is a leaf.
	DeepenHomeworld bool
}

// Expander resolves whole cross-reference URL lists through a worker
// pool.
type Expander struct {
	resolver *Resolver
	workers  int
	logger   zerolog.Logger
}

// NewExpander creates an expander resolving up to workers references in
// parallel.
func NewExpander(resolver *Resolver, workers int) *Expander {
	if workers < 1 {
		workers = 5
	}
	return &Expander{
		resolver: resolver,
		workers:  workers,
		logger:   log.With().Str("component", "expander").Logger(),
	}
}

// Expand resolves every URL in the list into a shaped entity. Output
// order follows input order; references that fail to resolve are
// dropped from the result rather than failing the expansion.
func (e *Expander) Expand(ctx context.Context, urls []string, kind swapi.Kind, opts Options) []shape.Shaped {
	if len(urls) == 0 {
		return []shape.Shaped{}
	}

	type job struct {
		idx int
		url string
	}

	jobs := make(chan job, len(urls))
	for i, u := range urls {
		jobs <- job{idx: i, url: u}
	}
	close(jobs)

	// Slots are addressed by input index so output order never depends
	// on completion order.
	slots := make([]shape.Shaped, len(urls))

	workers := e.workers
	if workers > len(urls) {
		workers = len(urls)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				entity, ok := e.resolver.Resolve(ctx, j.url, kind)
				if !ok {
					continue
				}
				if opts.DeepenHomeworld && kind == swapi.KindPerson {
					e.deepenHomeworld(ctx, entity)
				}
				slots[j.idx] = entity
			}
		}()
	}
	wg.Wait()

	expanded := make([]shape.Shaped, 0, len(urls))
	for _, entity := range slots {
		if entity != nil {
			expanded = append(expanded, entity)
		}
	}
	return expanded
}

// deepenHomeworld swaps a person's homeworld URL for the shaped planet.
// The URL stays in place when resolution fails.
func (e *Expander) deepenHomeworld(ctx context.Context, person shape.Shaped) {
	url, ok := person["homeworld"].(string)
	if !ok || url == "" {
		return
	}
	if planet, ok := e.resolver.Resolve(ctx, url, swapi.KindPlanet); ok {
		person["homeworld"] = planet
	}
}
