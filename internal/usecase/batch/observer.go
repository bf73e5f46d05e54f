package batch

import (
	"context"

	"github.com/kailas-cloud/hunt/internal/db"
	dombatch "github.com/kailas-cloud/hunt/internal/domain/batch"
	"github.com/kailas-cloud/hunt/internal/domain/record"
)

// Observer reacts to record lifecycle events by syncing the affected records.
type Observer struct {
	sync *Service
}

// NewObserver creates an observer backed by s.
func NewObserver(s *Service) *Observer {
	return &Observer{sync: s}
}

// Created upserts freshly created records.
func (o *Observer) Created(ctx context.Context, records ...*record.Record) error {
	return o.handle(ctx, dombatch.EventCreated, records)
}

// Updated upserts changed records.
func (o *Observer) Updated(ctx context.Context, records ...*record.Record) error {
	return o.handle(ctx, dombatch.EventUpdated, records)
}

// Restored upserts soft-deleted records that came back.
func (o *Observer) Restored(ctx context.Context, records ...*record.Record) error {
	return o.handle(ctx, dombatch.EventRestored, records)
}

// Deleted removes the documents of deleted records.
func (o *Observer) Deleted(ctx context.Context, records ...*record.Record) error {
	return o.handle(ctx, dombatch.EventDeleted, records)
}

// Handle syncs records for event and returns the raw bulk response.
func (o *Observer) Handle(
	ctx context.Context, event dombatch.Event, records []*record.Record, opts ...SyncOption,
) (*db.BulkResponse, error) {
	return o.sync.Sync(ctx, event.Op(), records, opts...)
}

func (o *Observer) handle(ctx context.Context, event dombatch.Event, records []*record.Record) error {
	_, err := o.Handle(ctx, event, records)
	return err
}
