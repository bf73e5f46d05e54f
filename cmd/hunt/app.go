package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/config"
	dbElastic "github.com/kailas-cloud/hunt/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/hunt/internal/db/redis"
	"github.com/kailas-cloud/hunt/internal/domain/document"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	logpkg "github.com/kailas-cloud/hunt/internal/logger"
	"github.com/kailas-cloud/hunt/internal/metrics"
	recordrepo "github.com/kailas-cloud/hunt/internal/repository/record"
	"github.com/kailas-cloud/hunt/internal/repository/searchcache"
	"github.com/kailas-cloud/hunt/internal/transport/signing"
	adminuc "github.com/kailas-cloud/hunt/internal/usecase/admin"
	batchuc "github.com/kailas-cloud/hunt/internal/usecase/batch"
	"github.com/kailas-cloud/hunt/internal/usecase/hydrate"
	importeruc "github.com/kailas-cloud/hunt/internal/usecase/importer"
	"github.com/kailas-cloud/hunt/internal/usecase/query"
	searchuc "github.com/kailas-cloud/hunt/internal/usecase/search"
)

// app is the composition root shared by every command.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *record.Registry
	mapper   *document.Mapper
	engine   *dbElastic.Store

	cache   *searchcache.CachedSearcher
	closers []func()
}

func newApp(env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return fromConfig(cfg, logger)
}

func fromConfig(cfg config.Config, logger *zap.Logger) (*app, error) {
	registry, err := buildRegistry(cfg.Models)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}

	// Registered explicitly, no init()
	metrics.RegisterEngineMetrics()

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		mapper:   document.NewMapper(cfg.Hunt.Index, cfg.Hunt.Multilingual),
		engine:   engine,
	}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.logger.Sync()
}

// buildRegistry registers the configured models and checks relation targets.
func buildRegistry(models []config.ModelConfig) (*record.Registry, error) {
	reg := record.NewRegistry()
	for _, m := range models {
		t := record.Type{
			Name:         m.Name,
			Table:        m.Table,
			SearchableAs: m.SearchableAs,
			KeyName:      m.Key,
			Mapping:      m.Mapping,
		}
		for _, r := range m.Relations {
			rel := record.Relation{
				Name:   r.Name,
				Kind:   record.RelationKind(r.Kind),
				Target: r.Target,
			}
			if r.Pivot != nil {
				rel.Pivot = &record.PivotSpec{
					Table:      r.Pivot.Table,
					ForeignKey: r.Pivot.ForeignKey,
					RelatedKey: r.Pivot.RelatedKey,
					Attributes: r.Pivot.Attributes,
				}
			}
			t.Relations = append(t.Relations, rel)
		}
		if _, err := reg.Register(t); err != nil {
			return nil, fmt.Errorf("register model %q: %w", m.Name, err)
		}
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("models: %w", err)
	}
	return reg, nil
}

// newEngine builds the engine client, wrapping its transport with the
// configured signing handler.
func newEngine(cfg config.Config) (*dbElastic.Store, error) {
	var tp http.RoundTripper
	if name := cfg.Engine.Handler; name != "" {
		h := cfg.Handlers[name]
		wrapped, err := signing.NewRegistry().Wrap(name, signing.Config{
			Key:     h.Key,
			Secret:  h.Secret,
			Token:   h.Token,
			Region:  h.Region,
			Service: h.Service,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("engine handler %q: %w", name, err)
		}
		tp = wrapped
	}

	store, err := dbElastic.NewStore(dbElastic.Config{
		Hosts:     cfg.Engine.Hosts,
		Username:  cfg.Engine.Username,
		Password:  cfg.Engine.Password,
		Retries:   cfg.Engine.Retries,
		Transport: tp,
	})
	if err != nil {
		return nil, fmt.Errorf("create engine client: %w", err)
	}
	return store, nil
}

// waitForEngine blocks until the engine answers a ping.
func (a *app) waitForEngine(ctx context.Context) error {
	timeout := time.Duration(a.cfg.Engine.ReadinessTimeout) * time.Second
	if err := a.engine.WaitForReady(ctx, timeout); err != nil {
		return fmt.Errorf("engine not ready: %w", err)
	}
	return nil
}

// quickCache connects the response cache on first use. Nil when disabled.
func (a *app) quickCache(ctx context.Context) (*searchcache.CachedSearcher, *dbRedis.Store, error) {
	if !a.cfg.Cache.Enabled {
		return nil, nil, nil
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    a.cfg.Cache.Addrs,
		Username: a.cfg.Cache.Username,
		Password: a.cfg.Cache.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create cache store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	timeout := time.Duration(a.cfg.Cache.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		return nil, nil, fmt.Errorf("cache not ready: %w", err)
	}

	a.cache = searchcache.New(a.engine, store,
		time.Duration(a.cfg.Cache.TTLSec)*time.Second, metrics.QuickSearchCacheTotal, a.logger)
	return a.cache, store, nil
}

func (a *app) adminService() *adminuc.Service {
	return adminuc.New(a.engine, a.mapper, a.logger).
		WithSettings(a.cfg.Hunt.Settings).
		WithLocales(a.cfg.Hunt.SupportLocales)
}

func (a *app) syncService() *batchuc.Service {
	svc := batchuc.New(a.engine, a.mapper, a.logger).
		WithRetryOnConflict(*a.cfg.Hunt.RetryOnConflict)
	// Typed nil must not reach the interface.
	if a.cache != nil {
		svc.WithInvalidator(a.cache)
	}
	return svc
}

func (a *app) searchService() *searchuc.Service {
	builder := query.New(query.Config{
		Index:        a.cfg.Hunt.Index,
		Types:        a.cfg.Hunt.Types,
		Fields:       a.cfg.Hunt.Fields,
		Multilingual: a.cfg.Hunt.Multilingual,
		LocaleField:  a.cfg.Hunt.LocaleField,
	})
	hydrator := hydrate.New(a.registry, a.logger).
		WithMaxDepth(a.cfg.Hunt.MaxDepth).
		WithLenient(a.cfg.Hunt.LenientHydration)

	svc := searchuc.New(a.engine, builder, hydrator, a.logger)
	if a.cache != nil {
		svc.WithQuickSearcher(a.cache)
	}
	return svc
}

func (a *app) importerService(ctx context.Context) (*importeruc.Service, error) {
	if a.cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required to read records")
	}
	pool, err := recordrepo.Connect(ctx, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)

	return importeruc.New(recordrepo.New(pool), a.syncService(), a.adminService(), a.logger).
		WithBatchSize(a.cfg.Database.BatchSize).
		WithLocaleField(a.cfg.Hunt.LocaleField), nil
}

// resolveModels maps a comma separated model list to registered types.
func (a *app) resolveModels(arg string) ([]*record.Type, error) {
	var types []*record.Type
	for _, name := range splitModels(arg) {
		t, err := a.registry.Resolve(name, a.cfg.Hunt.ModelNamespace)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("no models given")
	}
	return types, nil
}
