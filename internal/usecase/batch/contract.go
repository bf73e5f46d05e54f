package batch

import (
	"context"

	"github.com/kailas-cloud/hunt/internal/db"
)

// Bulker submits bulk actions to the engine.
type Bulker interface {
	Bulk(ctx context.Context, req *db.BulkRequest) (*db.BulkResponse, error)
}

// Invalidator drops cached search responses after the index changed.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
