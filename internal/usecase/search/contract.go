package search

import (
	"context"

	"github.com/kailas-cloud/hunt/internal/db"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/domain/search/request"
)

// Searcher runs engine searches.
type Searcher interface {
	Search(ctx context.Context, p *db.SearchParams) (*db.SearchResponse, error)
}

// QueryBuilder translates requests into engine parameters.
type QueryBuilder interface {
	SearchParams(term string, req request.Request) *db.SearchParams
}

// Hydrator rebuilds records from engine hits.
type Hydrator interface {
	FromHit(hit db.Hit) (*record.Record, error)
	Lenient() bool
}
