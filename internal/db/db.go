package db

import (
	"context"
	"time"
)

// Engine is the search engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers use the narrow sub-interfaces
type Engine interface {
	Pinger
	Bulker
	Searcher
	IndexManager
	MappingManager
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Bulker submits batched index/delete actions.
type Bulker interface {
	Bulk(ctx context.Context, req *BulkRequest) (*BulkResponse, error)
}

// Searcher runs a search over one index.
type Searcher interface {
	Search(ctx context.Context, p *SearchParams) (*SearchResponse, error)
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string, settings map[string]any) error
	DeleteIndex(ctx context.Context, index string) error
}

// MappingManager provides per-bucket mapping operations.
type MappingManager interface {
	TypeExists(ctx context.Context, index, bucket string) (bool, error)
	GetMapping(ctx context.Context, index, bucket string) (map[string]any, error)
	PutMapping(ctx context.Context, index, bucket string, m *Mapping) error
	DeleteMapping(ctx context.Context, index, bucket string) error
}

// KVStore provides the key-value operations used for response caching.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Close()
}
