package importer

import (
	"context"

	"github.com/kailas-cloud/hunt/internal/db"
	dombatch "github.com/kailas-cloud/hunt/internal/domain/batch"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/usecase/batch"
)

// Source iterates stored records in chunks.
type Source interface {
	ForEachBatch(ctx context.Context, q record.BatchQuery, fn func([]*record.Record) error) error
}

// Syncer mirrors record chunks into the engine.
type Syncer interface {
	Sync(ctx context.Context, op dombatch.Op, records []*record.Record, opts ...batch.SyncOption) (*db.BulkResponse, error)
}

// Mappings checks and creates per-type bucket mappings.
type Mappings interface {
	TypeExists(ctx context.Context, t *record.Type, locale string) (bool, error)
	PutMapping(ctx context.Context, t *record.Type, locale string) error
}
