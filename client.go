package hunt

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/db"
	dbElastic "github.com/kailas-cloud/hunt/internal/db/elastic"
	"github.com/kailas-cloud/hunt/internal/domain/document"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/domain/search/request"
	"github.com/kailas-cloud/hunt/internal/transport/signing"
	adminuc "github.com/kailas-cloud/hunt/internal/usecase/admin"
	batchuc "github.com/kailas-cloud/hunt/internal/usecase/batch"
	"github.com/kailas-cloud/hunt/internal/usecase/hydrate"
	"github.com/kailas-cloud/hunt/internal/usecase/query"
	searchuc "github.com/kailas-cloud/hunt/internal/usecase/search"
)

const (
	defaultHost  = "http://localhost:9200"
	defaultIndex = "default"
)

// Client is the hunt SDK entry point. Types are registered at setup time;
// the registry is not safe for concurrent registration.
type Client struct {
	engine   db.Engine
	registry *record.Registry
	sync     *batchuc.Service
	search   *searchuc.Service
	admin    *adminuc.Service
}

// New creates a Client. No request is made until first use.
func New(opts ...Option) (*Client, error) {
	cfg := newConfig(opts)

	tp := cfg.transport
	if cfg.signer != "" {
		wrapped, err := signing.NewRegistry().Wrap(cfg.signer, cfg.signing, tp)
		if err != nil {
			return nil, fmt.Errorf("hunt: %w", err)
		}
		tp = wrapped
	}

	engine, err := dbElastic.NewStore(dbElastic.Config{
		Hosts:     cfg.hosts,
		Username:  cfg.username,
		Password:  cfg.password,
		Retries:   cfg.retries,
		Transport: tp,
	})
	if err != nil {
		return nil, fmt.Errorf("hunt: %w", err)
	}
	return wireClient(engine, cfg), nil
}

func newConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if len(cfg.hosts) == 0 {
		cfg.hosts = []string{defaultHost}
	}
	if cfg.index == "" {
		cfg.index = defaultIndex
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

func wireClient(engine db.Engine, cfg *clientConfig) *Client {
	registry := record.NewRegistry()
	mapper := document.NewMapper(cfg.index, cfg.multilingual)

	syncSvc := batchuc.New(engine, mapper, cfg.logger)
	if cfg.retryOnConflict != nil {
		syncSvc = syncSvc.WithRetryOnConflict(*cfg.retryOnConflict)
	}

	builder := query.New(query.Config{
		Index:        cfg.index,
		Types:        cfg.types,
		Fields:       cfg.fields,
		Multilingual: cfg.multilingual,
		LocaleField:  cfg.localeField,
	})
	hydrator := hydrate.New(registry, cfg.logger).
		WithMaxDepth(cfg.maxDepth).
		WithLenient(cfg.lenient)

	return &Client{
		engine:   engine,
		registry: registry,
		sync:     syncSvc,
		search:   searchuc.New(engine, builder, hydrator, cfg.logger),
		admin: adminuc.New(engine, mapper, cfg.logger).
			WithSettings(cfg.settings).
			WithLocales(cfg.locales),
	}
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.engine.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Register adds a record type. Relation targets are checked lazily at
// hydration time; call Validate once every type is registered.
func (c *Client) Register(t Type) (*Type, error) {
	return c.registry.Register(t)
}

// Validate checks that every relation target is registered.
func (c *Client) Validate() error {
	return c.registry.Validate()
}

// Type returns the registered type called name.
func (c *Client) Type(name string) (*Type, error) {
	return c.registry.Lookup(name)
}

// NewRecord creates a persisted record of the type called name.
func (c *Client) NewRecord(typeName string, attrs map[string]any) (*Record, error) {
	t, err := c.registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	return t.NewExisting(attrs), nil
}

// Add upserts the documents of records. Rejected documents yield ErrRejected.
func (c *Client) Add(ctx context.Context, records ...*Record) error {
	resp, err := c.sync.Update(ctx, records...)
	if err != nil {
		return err
	}
	return rejected(resp)
}

// Remove deletes the documents of records. Rejected documents yield ErrRejected.
func (c *Client) Remove(ctx context.Context, records ...*Record) error {
	resp, err := c.sync.Remove(ctx, records...)
	if err != nil {
		return err
	}
	return rejected(resp)
}

func rejected(resp *db.BulkResponse) error {
	failed := resp.Failed()
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d, first %s: %s",
		ErrRejected, len(failed), len(resp.Items), failed[0].ID, string(failed[0].Error))
}

// Search starts a search for term scoped to the bucket of the type called typeName.
func (c *Client) Search(typeName, term string) *SearchBuilder {
	b := &SearchBuilder{search: c.search, term: term}
	t, err := c.registry.Lookup(typeName)
	if err != nil {
		b.err = err
		return b
	}
	b.bucket = t.Bucket()
	return b
}

// SearchAll starts a search for term across the default scope.
func (c *Client) SearchAll(term string) *SearchBuilder {
	return &SearchBuilder{search: c.search, term: term}
}

// QuickSearch returns a short result list, grouped by table when group is set.
func (c *Client) QuickSearch(ctx context.Context, term string, perPage int, group bool) (*Quick, error) {
	return c.search.QuickSearch(ctx, term, perPage, group, request.New())
}

// Install creates the index. It reports false when the index already exists.
func (c *Client) Install(ctx context.Context) (bool, error) {
	return c.admin.CreateIndex(ctx)
}

// Map stores the mapping of the type called typeName in every locale bucket.
func (c *Client) Map(ctx context.Context, typeName string) error {
	t, err := c.registry.Lookup(typeName)
	if err != nil {
		return err
	}
	return c.admin.MapType(ctx, t)
}

// Unmap removes the mapping of the type called typeName from every locale bucket.
func (c *Client) Unmap(ctx context.Context, typeName string) error {
	t, err := c.registry.Lookup(typeName)
	if err != nil {
		return err
	}
	return c.admin.UnmapType(ctx, t)
}
