package hunt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/hunt/internal/db"
)

// --- Mocks ---

type fakeEngine struct {
	bulkFn   func(ctx context.Context, req *db.BulkRequest) (*db.BulkResponse, error)
	searchFn func(ctx context.Context, p *db.SearchParams) (*db.SearchResponse, error)

	indexExists bool
	created     string
}

func (f *fakeEngine) Ping(context.Context) error { return nil }

func (f *fakeEngine) Bulk(ctx context.Context, req *db.BulkRequest) (*db.BulkResponse, error) {
	return f.bulkFn(ctx, req)
}

func (f *fakeEngine) Search(ctx context.Context, p *db.SearchParams) (*db.SearchResponse, error) {
	return f.searchFn(ctx, p)
}

func (f *fakeEngine) IndexExists(context.Context, string) (bool, error) { return f.indexExists, nil }

func (f *fakeEngine) CreateIndex(_ context.Context, index string, _ map[string]any) error {
	f.created = index
	return nil
}

func (f *fakeEngine) DeleteIndex(context.Context, string) error { return nil }

func (f *fakeEngine) TypeExists(context.Context, string, string) (bool, error) { return false, nil }

func (f *fakeEngine) GetMapping(context.Context, string, string) (map[string]any, error) {
	return map[string]any{}, nil
}

func (f *fakeEngine) PutMapping(context.Context, string, string, *db.Mapping) error { return nil }

func (f *fakeEngine) DeleteMapping(context.Context, string, string) error { return nil }

func newTestClient(t *testing.T, engine *fakeEngine, opts ...Option) *Client {
	t.Helper()
	c := wireClient(engine, newConfig(append([]Option{WithIndex("blog")}, opts...)))
	if _, err := c.Register(Type{Name: `App\Post`, Table: "posts"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return c
}

func okBulk(req *db.BulkRequest) *db.BulkResponse {
	resp := &db.BulkResponse{}
	for _, it := range req.Items {
		resp.Items = append(resp.Items, db.BulkItemResult{Action: it.Action, ID: it.ID, Type: it.Type, Status: 200})
	}
	return resp
}

func postHit(id, title string) db.Hit {
	return db.Hit{
		Index: "blog", Type: "posts", ID: id, Score: 1.5,
		Source: map[string]any{"huntable_type": `App\Post`, "id": id, "title": title},
	}
}

// --- Tests ---

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.admin.IndexName() != defaultIndex {
		t.Errorf("index = %q", c.admin.IndexName())
	}
}

func TestNew_AWSSigningRequiresSecret(t *testing.T) {
	if _, err := New(WithAWSSigning("AKID", "", "eu-west-1")); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestClient_Add(t *testing.T) {
	var got *db.BulkRequest
	engine := &fakeEngine{bulkFn: func(_ context.Context, req *db.BulkRequest) (*db.BulkResponse, error) {
		got = req
		return okBulk(req), nil
	}}
	c := newTestClient(t, engine)

	rec, err := c.NewRecord(`App\Post`, map[string]any{"id": 1, "title": "Hello"})
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if err := c.Add(context.Background(), rec); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if got == nil || len(got.Items) != 1 || !got.Refresh {
		t.Fatalf("unexpected bulk: %+v", got)
	}
	it := got.Items[0]
	if it.Action != db.ActionIndex || it.Index != "blog" || it.Type != "posts" || it.ID != "1" {
		t.Errorf("unexpected item: %+v", it)
	}
	if it.Source["huntable_type"] != `App\Post` || it.Source["title"] != "Hello" {
		t.Errorf("unexpected source: %v", it.Source)
	}
}

func TestClient_AddRejected(t *testing.T) {
	engine := &fakeEngine{bulkFn: func(_ context.Context, req *db.BulkRequest) (*db.BulkResponse, error) {
		resp := okBulk(req)
		resp.Errors = true
		resp.Items[0].Status = 400
		resp.Items[0].Error = json.RawMessage(`{"type":"mapper_parsing_exception"}`)
		return resp, nil
	}}
	c := newTestClient(t, engine)
	rec, _ := c.NewRecord(`App\Post`, map[string]any{"id": 1, "title": "Hello"})

	if err := c.Add(context.Background(), rec); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestClient_Remove(t *testing.T) {
	var got *db.BulkRequest
	engine := &fakeEngine{bulkFn: func(_ context.Context, req *db.BulkRequest) (*db.BulkResponse, error) {
		got = req
		return okBulk(req), nil
	}}
	c := newTestClient(t, engine)
	rec, _ := c.NewRecord(`App\Post`, map[string]any{"id": "abc"})

	if err := c.Remove(context.Background(), rec); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Action != db.ActionDelete || got.Items[0].ID != "abc" {
		t.Errorf("unexpected bulk: %+v", got.Items)
	}
}

func TestClient_NewRecordUnknownType(t *testing.T) {
	c := newTestClient(t, &fakeEngine{})
	if _, err := c.NewRecord(`App\Gone`, nil); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestSearchBuilder_Get(t *testing.T) {
	var got *db.SearchParams
	engine := &fakeEngine{searchFn: func(_ context.Context, p *db.SearchParams) (*db.SearchResponse, error) {
		got = p
		return &db.SearchResponse{Total: 2, Hits: []db.Hit{postHit("1", "Go"), postHit("2", "Rust")}}, nil
	}}
	c := newTestClient(t, engine)

	items, err := c.Search(`App\Post`, "lang").Where("status", "live").Take(5).Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Index != "blog" || got.Type != "posts" || got.Size != 5 {
		t.Errorf("params = index %q type %q size %d", got.Index, got.Type, got.Size)
	}
	if got.Body == nil || got.Body.PostFilter == nil || len(got.Body.PostFilter.Bool.Must) != 1 {
		t.Errorf("expected one post filter clause, got %+v", got.Body)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].TypeName() != `App\Post` || items[0].GetString("title") != "Go" {
		t.Errorf("unexpected first item: %v", items[0].Attributes())
	}
	if score, ok := items[0].Score(); !ok || score != 1.5 {
		t.Errorf("score = %v, %v", score, ok)
	}
}

func TestSearchBuilder_UnknownType(t *testing.T) {
	engine := &fakeEngine{searchFn: func(context.Context, *db.SearchParams) (*db.SearchResponse, error) {
		t.Error("engine must not be called")
		return &db.SearchResponse{}, nil
	}}
	c := newTestClient(t, engine)

	if _, err := c.Search(`App\Gone`, "x").Get(context.Background()); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Get: expected ErrUnknownType, got %v", err)
	}
	if _, err := c.Search(`App\Gone`, "x").Paginate(context.Background(), 10); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Paginate: expected ErrUnknownType, got %v", err)
	}
}

func TestSearchBuilder_First(t *testing.T) {
	var size int
	hits := []db.Hit{postHit("7", "Only")}
	engine := &fakeEngine{searchFn: func(_ context.Context, p *db.SearchParams) (*db.SearchResponse, error) {
		size = p.Size
		return &db.SearchResponse{Total: int64(len(hits)), Hits: hits}, nil
	}}
	c := newTestClient(t, engine)

	rec, err := c.Search(`App\Post`, "only").First(context.Background())
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if size != 1 {
		t.Errorf("size = %d, want 1", size)
	}
	if rec == nil || rec.KeyString() != "7" {
		t.Errorf("unexpected record: %v", rec)
	}

	hits = nil
	rec, err = c.Search(`App\Post`, "none").First(context.Background())
	if err != nil || rec != nil {
		t.Errorf("expected nil, nil; got %v, %v", rec, err)
	}
}

func TestSearchBuilder_Paginate(t *testing.T) {
	var got *db.SearchParams
	engine := &fakeEngine{searchFn: func(_ context.Context, p *db.SearchParams) (*db.SearchResponse, error) {
		got = p
		return &db.SearchResponse{Total: 25, Hits: []db.Hit{postHit("11", "Eleven")}}, nil
	}}
	c := newTestClient(t, engine)

	page, err := c.Search(`App\Post`, "x").Paginate(WithPage(context.Background(), 2), 10)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if got.Size != 10 || got.From == nil || *got.From != 10 {
		t.Errorf("size = %d from = %v", got.Size, got.From)
	}
	if page.CurrentPage() != 2 || page.LastPage() != 3 || page.Total() != 25 {
		t.Errorf("page = %d/%d total %d", page.CurrentPage(), page.LastPage(), page.Total())
	}
	if page.Query()["q"] != "x" {
		t.Errorf("query = %v", page.Query())
	}
}

func TestSearchBuilder_LocaleBucket(t *testing.T) {
	var got *db.SearchParams
	engine := &fakeEngine{searchFn: func(_ context.Context, p *db.SearchParams) (*db.SearchResponse, error) {
		got = p
		return &db.SearchResponse{}, nil
	}}
	c := newTestClient(t, engine, WithMultilingual("", "en", "fr"))

	if _, err := c.Search(`App\Post`, "bonjour").Locale("fr").Get(context.Background()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Type != "posts_fr" {
		t.Errorf("type = %q, want posts_fr", got.Type)
	}
}

func TestClient_QuickSearchGrouped(t *testing.T) {
	engine := &fakeEngine{searchFn: func(_ context.Context, p *db.SearchParams) (*db.SearchResponse, error) {
		if p.Size != 10 {
			t.Errorf("size = %d, want 10", p.Size)
		}
		return &db.SearchResponse{Hits: []db.Hit{postHit("1", "a"), postHit("2", "b")}}, nil
	}}
	c := newTestClient(t, engine)

	q, err := c.QuickSearch(context.Background(), "a", 0, true)
	if err != nil {
		t.Fatalf("QuickSearch: %v", err)
	}
	if !q.Grouped() || len(q.Groups().Get("posts")) != 2 {
		t.Errorf("unexpected grouping: %v", q.Groups().Keys())
	}
}

func TestClient_Install(t *testing.T) {
	engine := &fakeEngine{}
	c := newTestClient(t, engine)

	created, err := c.Install(context.Background())
	if err != nil || !created || engine.created != "blog" {
		t.Fatalf("Install = %v, %v (created %q)", created, err, engine.created)
	}

	engine.indexExists = true
	engine.created = ""
	created, err = c.Install(context.Background())
	if err != nil || created || engine.created != "" {
		t.Fatalf("second Install = %v, %v", created, err)
	}
}

func TestClient_MapUnknownType(t *testing.T) {
	c := newTestClient(t, &fakeEngine{})
	if err := c.Map(context.Background(), `App\Gone`); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
