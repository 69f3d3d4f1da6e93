// Package enrich resolves SWAPI cross-reference URLs into shaped
// entities and expands URL lists concurrently.
//
// Enrichment is strictly best-effort: a reference that cannot be
// parsed or fetched is skipped, never fatal. Expansion goes at most
// one level deep; a deepened homeworld never triggers further
// resolution.
package enrich

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dudukuster/star-wars-api/pkg/shape"
	"github.com/dudukuster/star-wars-api/pkg/swapi"
)

// EntityGetter fetches a single catalog entity by ID.
type EntityGetter interface {
	GetByID(ctx context.Context, kind swapi.Kind, id int) (swapi.Raw, error)
}

// Resolver turns cross-reference URLs into shaped entities.
type Resolver struct {
	client EntityGetter
	logger zerolog.Logger
}

// NewResolver creates a resolver on top of client.
func NewResolver(client EntityGetter) *Resolver {
	return &Resolver{
		client: client,
		logger: log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve fetches and shapes the entity behind a cross-reference URL.
// The second return value reports success; on failure the reference is
// simply unavailable and the caller decides what to substitute.
func (r *Resolver) Resolve(ctx context.Context, url string, kind swapi.Kind) (shape.Shaped, bool) {
	id, ok := swapi.ExtractID(url)
	if !ok {
		r.logger.Debug().
			Str("url", url).
			Str("resource", kind.Path()).
			Msg("Unresolvable reference URL")
		return nil, false
	}

	raw, err := r.client.GetByID(ctx, kind, id)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("url", url).
			Str("resource", kind.Path()).
			Msg("Reference fetch failed, skipping")
		return nil, false
	}

	return shape.Entity(kind, raw), true
}
