package batch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/db"
	dombatch "github.com/kailas-cloud/hunt/internal/domain/batch"
	"github.com/kailas-cloud/hunt/internal/domain/document"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/metrics"
)

// DefaultRetryOnConflict is the engine-side retry count attached to upserts.
const DefaultRetryOnConflict = 3

// Service mirrors record mutations into the engine, one bulk call per sync.
type Service struct {
	engine          Bulker
	mapper          *document.Mapper
	retryOnConflict int
	cache           Invalidator
	logger          *zap.Logger
}

// New creates a bulk sync service.
func New(engine Bulker, mapper *document.Mapper, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:          engine,
		mapper:          mapper,
		retryOnConflict: DefaultRetryOnConflict,
		logger:          logger,
	}
}

// WithRetryOnConflict configures the per-upsert conflict retry count.
func (s *Service) WithRetryOnConflict(n int) *Service {
	if n >= 0 {
		s.retryOnConflict = n
	}
	return s
}

// WithInvalidator sets the cache invalidated after every successful sync.
func (s *Service) WithInvalidator(c Invalidator) *Service {
	s.cache = c
	return s
}

// SyncOption tunes a single sync call.
type SyncOption func(*syncOptions)

type syncOptions struct {
	locale string
}

// WithLocale targets the locale-suffixed buckets.
func WithLocale(locale string) SyncOption {
	return func(o *syncOptions) { o.locale = locale }
}

// Sync issues one bulk call for records. Upserts skip records that map to
// an empty document; an empty batch still reaches the engine. Per-item
// rejections are reported in the response, not as an error.
func (s *Service) Sync(
	ctx context.Context, op dombatch.Op, records []*record.Record, opts ...SyncOption,
) (*db.BulkResponse, error) {
	var o syncOptions
	for _, fn := range opts {
		fn(&o)
	}

	req, err := s.build(op, records, o.locale)
	if err != nil {
		return nil, err
	}

	resp, err := s.engine.Bulk(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bulk %s: %w", op, err)
	}
	metrics.SyncDocumentsTotal.WithLabelValues(string(op)).Add(float64(req.Len()))

	failed := resp.Failed()
	if len(failed) > 0 {
		metrics.SyncItemErrorsTotal.Add(float64(len(failed)))
		s.logger.Warn("Bulk sync had rejected items",
			zap.String("op", string(op)),
			zap.Int("rejected", len(failed)),
			zap.String("first_id", failed[0].ID),
			zap.ByteString("first_error", failed[0].Error),
		)
	}
	s.logger.Debug("Bulk sync",
		zap.String("op", string(op)),
		zap.Int("count", req.Len()),
		zap.Int("took_ms", resp.Took),
		zap.Bool("errors", resp.Errors),
	)

	s.invalidate(ctx)
	return resp, nil
}

// Update upserts records.
func (s *Service) Update(ctx context.Context, records ...*record.Record) (*db.BulkResponse, error) {
	return s.Sync(ctx, dombatch.OpUpsert, records)
}

// Remove deletes the documents of records.
func (s *Service) Remove(ctx context.Context, records ...*record.Record) (*db.BulkResponse, error) {
	return s.Sync(ctx, dombatch.OpDelete, records)
}

func (s *Service) build(op dombatch.Op, records []*record.Record, locale string) (*db.BulkRequest, error) {
	b := db.NewBulk().Refresh()
	for _, r := range records {
		if r == nil {
			continue
		}
		target := s.mapper.TargetFor(r, locale)
		switch op {
		case dombatch.OpUpsert:
			doc := s.mapper.ToDocument(r)
			if doc.IsEmpty() {
				continue
			}
			b.Index(target.Index, target.Bucket, doc.ID(), s.retryOnConflict, doc.Source())
		case dombatch.OpDelete:
			b.Delete(target.Index, target.Bucket, r.KeyString())
		default:
			return nil, fmt.Errorf("unsupported sync op %q", op)
		}
	}
	return b.Build(), nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}

// Results converts a bulk response into per-item outcomes.
func Results(resp *db.BulkResponse) []dombatch.Result {
	if resp == nil {
		return nil
	}
	out := make([]dombatch.Result, 0, len(resp.Items))
	for _, it := range resp.Items {
		op := dombatch.OpUpsert
		if it.Action == db.ActionDelete {
			op = dombatch.OpDelete
		}
		if len(it.Error) > 0 {
			out = append(out, dombatch.NewError(it.ID, it.Type, op, errors.New(string(it.Error))))
			continue
		}
		out = append(out, dombatch.NewOK(it.ID, it.Type, op))
	}
	return out
}
