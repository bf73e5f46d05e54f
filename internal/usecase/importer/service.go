package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/domain"
	dombatch "github.com/kailas-cloud/hunt/internal/domain/batch"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/usecase/batch"
)

// Stats summarizes one import or flush run.
type Stats struct {
	Batches  int
	Records  int
	Rejected int
}

// Service copies whole record tables into the engine and back out again.
type Service struct {
	source      Source
	sync        Syncer
	mappings    Mappings
	batchSize   int
	localeField string
	logger      *zap.Logger
}

// New creates an importer.
func New(source Source, sync Syncer, mappings Mappings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:    source,
		sync:      sync,
		mappings:  mappings,
		batchSize: record.DefaultBatchSize,
		logger:    logger,
	}
}

// WithBatchSize configures the chunk size.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// WithLocaleField restricts per-locale runs to rows whose field matches the locale.
func (s *Service) WithLocaleField(field string) *Service {
	s.localeField = field
	return s
}

// Import upserts every stored record of t, once per locale. The bucket
// mapping is created first when missing.
func (s *Service) Import(ctx context.Context, t *record.Type, locales []string) (Stats, error) {
	var total Stats
	for _, locale := range normalize(locales) {
		exists, err := s.mappings.TypeExists(ctx, t, locale)
		if err != nil {
			return total, fmt.Errorf("import %s: %w", t.Name, err)
		}
		if !exists {
			if err := s.mappings.PutMapping(ctx, t, locale); err != nil {
				return total, fmt.Errorf("import %s: %w", t.Name, err)
			}
		}

		st, err := s.run(ctx, dombatch.OpUpsert, t, locale)
		total.add(st)
		if err != nil {
			return total, fmt.Errorf("import %s: %w", t.Name, err)
		}
		s.logger.Info("Imported records",
			zap.String("type", t.Name),
			zap.String("locale", locale),
			zap.Int("records", st.Records),
			zap.Int("rejected", st.Rejected),
		)
	}
	return total, nil
}

// Flush deletes the documents of every stored record of t, once per locale.
// The bucket must be mapped.
func (s *Service) Flush(ctx context.Context, t *record.Type, locales []string) (Stats, error) {
	var total Stats
	for _, locale := range normalize(locales) {
		exists, err := s.mappings.TypeExists(ctx, t, locale)
		if err != nil {
			return total, fmt.Errorf("flush %s: %w", t.Name, err)
		}
		if !exists {
			return total, fmt.Errorf("flush %s: mapping for locale %q: %w", t.Name, locale, domain.ErrNotFound)
		}

		st, err := s.run(ctx, dombatch.OpDelete, t, locale)
		total.add(st)
		if err != nil {
			return total, fmt.Errorf("flush %s: %w", t.Name, err)
		}
		s.logger.Info("Flushed records",
			zap.String("type", t.Name),
			zap.String("locale", locale),
			zap.Int("records", st.Records),
		)
	}
	return total, nil
}

func (s *Service) run(ctx context.Context, op dombatch.Op, t *record.Type, locale string) (Stats, error) {
	q := record.BatchQuery{Type: t, Size: s.batchSize}
	var opts []batch.SyncOption
	if locale != "" {
		opts = append(opts, batch.WithLocale(locale))
		if s.localeField != "" {
			q.Where = append(q.Where, record.Condition{Column: s.localeField, Value: locale})
		}
	}

	var st Stats
	err := s.source.ForEachBatch(ctx, q, func(chunk []*record.Record) error {
		resp, err := s.sync.Sync(ctx, op, chunk, opts...)
		if err != nil {
			return err //nolint:wrapcheck // wrapped by caller
		}
		st.Batches++
		st.Records += len(chunk)
		st.Rejected += len(resp.Failed())
		return nil
	})
	if err != nil {
		return st, fmt.Errorf("%s batch %d: %w", op, st.Batches+1, err)
	}
	return st, nil
}

func (st *Stats) add(o Stats) {
	st.Batches += o.Batches
	st.Records += o.Records
	st.Rejected += o.Rejected
}

func normalize(locales []string) []string {
	if len(locales) == 0 {
		return []string{""}
	}
	return locales
}
