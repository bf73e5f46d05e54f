package searchcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/db"
)

const (
	keyPrefix     = "hunt:qs:"
	generationKey = keyPrefix + "gen"
)

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// searcher is the wrapped engine search call.
type searcher interface {
	Search(ctx context.Context, p *db.SearchParams) (*db.SearchResponse, error)
}

// CachedSearcher caches engine search responses in a key-value store.
// Entries are keyed by a generation counter; bumping it invalidates them all.
type CachedSearcher struct {
	inner      searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached response or calls the inner searcher.
// Cache failures fall through to the engine.
func (c *CachedSearcher) Search(ctx context.Context, p *db.SearchParams) (*db.SearchResponse, error) {
	key, ok := c.cacheKey(ctx, p)
	if ok {
		if resp, hit := c.getFromCache(ctx, key); hit {
			c.incCache("hit")
			return resp, nil
		}
	}
	c.incCache("miss")

	resp, err := c.inner.Search(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if ok {
		c.putToCache(ctx, key, resp)
	}
	return resp, nil
}

// Invalidate drops every cached response by bumping the generation.
func (c *CachedSearcher) Invalidate(ctx context.Context) error {
	if _, err := c.store.Incr(ctx, generationKey); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	return nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSearcher) cacheKey(ctx context.Context, p *db.SearchParams) (string, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("Failed to read cache generation", zap.Error(err))
		return "", false
	}
	raw, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn("Failed to encode search params", zap.Error(err))
		return "", false
	}
	h := sha256.Sum256(raw)
	return keyPrefix + strconv.FormatInt(gen, 10) + ":" + hex.EncodeToString(h[:]), true
}

func (c *CachedSearcher) generation(ctx context.Context) (int64, error) {
	data, err := c.store.Get(ctx, generationKey)
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err //nolint:wrapcheck // logged by caller
	}
	gen, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid generation %q: %w", data, err)
	}
	return gen, nil
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) (*db.SearchResponse, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search response", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var resp db.SearchResponse
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		c.logger.Warn("Failed to parse cached search response", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &resp, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, resp *db.SearchResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("Failed to encode search response", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search response", zap.String("key", key), zap.Error(err))
	}
}
