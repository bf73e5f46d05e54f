package result

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/hunt/internal/domain/record"
)

func newTypes(t *testing.T) (post, comment *record.Type) {
	t.Helper()
	reg := record.NewRegistry()
	post = reg.MustRegister(record.Type{Name: "post", Table: "posts"})
	comment = reg.MustRegister(record.Type{Name: "comment", Table: "comments"})
	return post, comment
}

func TestPage_LastPage(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 15, 1},
		{15, 15, 1},
		{16, 15, 2},
		{100, 20, 5},
	}
	for _, tt := range tests {
		p := NewPage(nil, tt.total, tt.perPage, 1)
		if got := p.LastPage(); got != tt.want {
			t.Errorf("LastPage(total=%d, perPage=%d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}

func TestPage_MarshalJSON(t *testing.T) {
	post, _ := newTypes(t)
	p := NewPage([]*record.Record{post.NewExisting(map[string]any{"id": 1})}, 41, 20, 3)
	p.Append("q", "go")

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out struct {
		Items       []map[string]any  `json:"items"`
		Total       int64             `json:"total"`
		CurrentPage int               `json:"current_page"`
		LastPage    int               `json:"last_page"`
		Query       map[string]string `json:"query"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out.Items) != 1 || out.Total != 41 || out.CurrentPage != 3 || out.LastPage != 3 {
		t.Errorf("page json = %s", data)
	}
	if out.Query["q"] != "go" {
		t.Errorf("query = %v", out.Query)
	}
	if p.HasMore() {
		t.Error("last page should not have more")
	}
}

func TestGroupByTable_PreservesFirstAppearanceOrder(t *testing.T) {
	post, comment := newTypes(t)
	recs := []*record.Record{
		comment.NewExisting(map[string]any{"id": 1}),
		post.NewExisting(map[string]any{"id": 2}),
		comment.NewExisting(map[string]any{"id": 3}),
	}
	g := GroupByTable(recs)
	if keys := g.Keys(); len(keys) != 2 || keys[0] != "comments" || keys[1] != "posts" {
		t.Fatalf("Keys = %v", keys)
	}
	if len(g.Get("comments")) != 2 {
		t.Errorf("comments = %d", len(g.Get("comments")))
	}

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"comments":[{"id":1},{"id":3}],"posts":[{"id":2}]}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestQuick_Grouped(t *testing.T) {
	post, _ := newTypes(t)
	flat := NewQuick([]*record.Record{post.NewExisting(map[string]any{"id": 1})})
	if flat.Grouped() {
		t.Error("flat result reports grouped")
	}
	grouped := NewGroupedQuick(flat.Items())
	if !grouped.Grouped() || grouped.Groups().Len() != 1 {
		t.Error("grouped result missing groups")
	}
}

func TestPageFromContext(t *testing.T) {
	if PageFromContext(context.Background()) != 1 {
		t.Error("default page should be 1")
	}
	if PageFromContext(ContextWithPage(context.Background(), 0)) != 1 {
		t.Error("page 0 should clamp to 1")
	}
	if PageFromContext(ContextWithPage(context.Background(), 4)) != 4 {
		t.Error("page 4 lost")
	}
}
