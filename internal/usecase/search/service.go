package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/domain"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/domain/search/request"
	"github.com/kailas-cloud/hunt/internal/domain/search/result"
	"github.com/kailas-cloud/hunt/internal/metrics"
)

// Default page sizes.
const (
	DefaultPerPage      = 15
	DefaultQuickPerPage = 10
)

// Service runs searches and rehydrates the hits into records.
type Service struct {
	engine   Searcher
	quick    Searcher
	builder  QueryBuilder
	hydrator Hydrator
	logger   *zap.Logger
}

// New creates a search service.
func New(engine Searcher, builder QueryBuilder, hydrator Hydrator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:   engine,
		quick:    engine,
		builder:  builder,
		hydrator: hydrator,
		logger:   logger,
	}
}

// WithQuickSearcher routes quick searches through s, typically a cache.
func (s *Service) WithQuickSearcher(q Searcher) *Service {
	if q != nil {
		s.quick = q
	}
	return s
}

// PerformSearch runs an unpaged search. Hits without a type tag are omitted.
func (s *Service) PerformSearch(ctx context.Context, term string, req request.Request) ([]*record.Record, error) {
	items, _, err := s.run(ctx, s.engine, term, req)
	return items, err
}

// Search runs one page of results. The current page comes from ctx.
func (s *Service) Search(ctx context.Context, term string, perPage int, req request.Request) (*result.Page, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := result.PageFromContext(ctx)
	req = req.With(request.WithSize(perPage), request.WithFrom((page-1)*perPage))

	items, total, err := s.run(ctx, s.engine, term, req)
	if err != nil {
		return nil, err
	}
	p := result.NewPage(items, total, perPage, page)
	p.Append("q", term)
	return p, nil
}

// QuickSearch runs a single short page, optionally grouped by storage table.
func (s *Service) QuickSearch(
	ctx context.Context, term string, perPage int, group bool, req request.Request,
) (*result.Quick, error) {
	if perPage <= 0 {
		perPage = DefaultQuickPerPage
	}
	items, _, err := s.run(ctx, s.quick, term, req.With(request.WithSize(perPage)))
	if err != nil {
		return nil, err
	}
	if group {
		return result.NewGroupedQuick(items), nil
	}
	return result.NewQuick(items), nil
}

func (s *Service) run(
	ctx context.Context, engine Searcher, term string, req request.Request,
) ([]*record.Record, int64, error) {
	if err := request.ValidateTerm(term); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	resp, err := engine.Search(ctx, s.builder.SearchParams(term, req))
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}

	items := make([]*record.Record, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		rec, err := s.hydrator.FromHit(hit)
		if err != nil {
			if !s.hydrator.Lenient() {
				return nil, 0, fmt.Errorf("rehydrate: %w", err)
			}
			metrics.HydrationSkippedTotal.WithLabelValues("invalid").Inc()
			s.logger.Debug("Skipping hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		if rec == nil {
			continue
		}
		items = append(items, rec)
	}
	return items, resp.Total, nil
}
