package searchcache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/db"
)

type mockSearcher struct {
	resp  *db.SearchResponse
	err   error
	calls int
}

func (m *mockSearcher) Search(_ context.Context, _ *db.SearchParams) (*db.SearchResponse, error) {
	m.calls++
	return m.resp, m.err
}

// mockKVStore is an in-memory store with optional failure hooks.
type mockKVStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   []string
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte)}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets = append(m.sets, key)
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Incr(_ context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func newTestCachedSearcher(t *testing.T, inner *mockSearcher) (*CachedSearcher, *mockKVStore) {
	t.Helper()
	ms := newMockKVStore()
	return New(inner, ms, 30*time.Second, nil, zap.NewNop()), ms
}
