// Package pagination aggregates full SWAPI collections and re-paginates
// them after in-memory filtering.
//
// SWAPI filters search server-side but offers no field filters, so a
// query like "planets with arid climate" can only be answered by
// fetching the whole collection, filtering locally, and slicing the
// filtered set into pages. Page numbers handed back to callers index
// the filtered set, not the upstream one.
//
// Example usage:
//
//	agg := pagination.New(client, pagination.DefaultConfig())
//	result, err := agg.FetchAllAndPaginate(ctx, swapi.KindPlanet, pagination.Query{
//		Filters: map[string]string{"climate": "arid"},
//		Page:    1,
//	})
//
// The aggregator:
//   - Fetches the first page to learn the collection size
//   - Spawns a worker pool (default 5 workers) for the remaining pages
//   - Reassembles pages in order regardless of completion order
//   - Drops pages that fail after retries and serves the rest
//   - Applies filters, then slices the filtered set into pages
//
// Only a first-page failure is fatal: without it neither the collection
// size nor the page layout is known.
package pagination
