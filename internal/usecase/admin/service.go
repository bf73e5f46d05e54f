package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/db"
	"github.com/kailas-cloud/hunt/internal/domain"
	"github.com/kailas-cloud/hunt/internal/domain/document"
	"github.com/kailas-cloud/hunt/internal/domain/record"
)

// Service manages the index and per-type bucket mappings.
type Service struct {
	engine   Engine
	mapper   *document.Mapper
	settings map[string]any
	locales  []string
	logger   *zap.Logger
}

// New creates an index admin service.
func New(engine Engine, mapper *document.Mapper, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, mapper: mapper, logger: logger}
}

// WithSettings sets the index settings applied on create.
func (s *Service) WithSettings(settings map[string]any) *Service {
	s.settings = settings
	return s
}

// WithLocales sets the supported locales; with multilingual mode on,
// mapping commands touch one bucket per locale.
func (s *Service) WithLocales(locales []string) *Service {
	s.locales = append([]string(nil), locales...)
	return s
}

// IndexName returns the configured index name.
func (s *Service) IndexName() string { return s.mapper.Index() }

// IndexExists reports whether the index exists.
func (s *Service) IndexExists(ctx context.Context) (bool, error) {
	ok, err := s.engine.IndexExists(ctx, s.IndexName())
	if err != nil {
		return false, fmt.Errorf("index exists: %w", err)
	}
	return ok, nil
}

// CreateIndex creates the index with the configured settings. An existing
// index is left untouched and reported with created=false.
func (s *Service) CreateIndex(ctx context.Context) (bool, error) {
	exists, err := s.IndexExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		s.logger.Info("Index already exists", zap.String("index", s.IndexName()))
		return false, nil
	}
	if err := s.engine.CreateIndex(ctx, s.IndexName(), s.settings); err != nil {
		return false, fmt.Errorf("create index: %w", err)
	}
	s.logger.Info("Index created", zap.String("index", s.IndexName()))
	return true, nil
}

// DeleteIndex deletes the index after confirmation.
func (s *Service) DeleteIndex(ctx context.Context, confirm Confirmer) error {
	exists, err := s.IndexExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("index %q: %w", s.IndexName(), domain.ErrIndexNotFound)
	}

	question := fmt.Sprintf("Delete index %q and all of its documents?", s.IndexName())
	ok, err := confirm.Confirm(ctx, question)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return fmt.Errorf("delete index %q: %w", s.IndexName(), domain.ErrAborted)
	}

	if err := s.engine.DeleteIndex(ctx, s.IndexName()); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("index %q: %w", s.IndexName(), domain.ErrIndexNotFound)
		}
		return fmt.Errorf("delete index: %w", err)
	}
	s.logger.Info("Index deleted", zap.String("index", s.IndexName()))
	return nil
}

// TypeExists reports whether the bucket of t for locale has a mapping.
func (s *Service) TypeExists(ctx context.Context, t *record.Type, locale string) (bool, error) {
	target := s.mapper.TargetForType(t, locale)
	ok, err := s.engine.TypeExists(ctx, target.Index, target.Bucket)
	if err != nil {
		return false, fmt.Errorf("type exists %s: %w", target, err)
	}
	return ok, nil
}

// GetMapping returns the stored mapping of the bucket of t for locale.
func (s *Service) GetMapping(ctx context.Context, t *record.Type, locale string) (map[string]any, error) {
	target := s.mapper.TargetForType(t, locale)
	m, err := s.engine.GetMapping(ctx, target.Index, target.Bucket)
	if err != nil {
		return nil, fmt.Errorf("get mapping %s: %w", target, err)
	}
	return m, nil
}

// PutMapping stores the declared schema of t with the source retained.
func (s *Service) PutMapping(ctx context.Context, t *record.Type, locale string) error {
	target := s.mapper.TargetForType(t, locale)
	mapping := db.NewMapping(s.mapper.MappingSchemaFor(t))
	if err := s.engine.PutMapping(ctx, target.Index, target.Bucket, mapping); err != nil {
		return fmt.Errorf("put mapping %s: %w", target, err)
	}
	s.logger.Info("Mapping stored", zap.String("target", target.String()))
	return nil
}

// DeleteMapping removes every document of the bucket of t for locale.
func (s *Service) DeleteMapping(ctx context.Context, t *record.Type, locale string) error {
	target := s.mapper.TargetForType(t, locale)
	if err := s.engine.DeleteMapping(ctx, target.Index, target.Bucket); err != nil {
		return fmt.Errorf("delete mapping %s: %w", target, err)
	}
	s.logger.Info("Mapping deleted", zap.String("target", target.String()))
	return nil
}

// Locales returns the locales mapping commands iterate over; a single empty
// locale when multilingual mode is off or no locales are configured.
func (s *Service) Locales() []string {
	if !s.mapper.Multilingual() || len(s.locales) == 0 {
		return []string{""}
	}
	return s.locales
}

// MapType stores the mapping of t in every locale bucket. A bucket that is
// already mapped is an error.
func (s *Service) MapType(ctx context.Context, t *record.Type) error {
	for _, locale := range s.Locales() {
		exists, err := s.TypeExists(ctx, t, locale)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s: %w", s.mapper.TargetForType(t, locale), domain.ErrAlreadyExists)
		}
		if err := s.PutMapping(ctx, t, locale); err != nil {
			return err
		}
	}
	return nil
}

// UnmapType deletes the mapping of t in every locale bucket. A bucket that
// is not mapped is an error.
func (s *Service) UnmapType(ctx context.Context, t *record.Type) error {
	for _, locale := range s.Locales() {
		exists, err := s.TypeExists(ctx, t, locale)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%s: %w", s.mapper.TargetForType(t, locale), domain.ErrNotFound)
		}
		if err := s.DeleteMapping(ctx, t, locale); err != nil {
			return err
		}
	}
	return nil
}
