package db

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestBulkBuilder_Encode(t *testing.T) {
	req := NewBulk().
		Refresh().
		Index("blog", "posts", "1", 3, map[string]any{"title": "Hi", "huntable_type": "post"}).
		Delete("blog", "posts", "2").
		Build()

	if !req.Refresh {
		t.Error("Refresh = false")
	}
	if req.Len() != 2 {
		t.Fatalf("Len = %d, want 2", req.Len())
	}

	body, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), body)
	}

	var meta map[string]map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &meta); err != nil {
		t.Fatalf("unmarshal meta: %v", err)
	}
	idx := meta["index"]
	if idx["_index"] != "blog" || idx["_type"] != "posts" || idx["_id"] != "1" || idx["retry_on_conflict"] != float64(3) {
		t.Errorf("index meta = %v", idx)
	}
	if !strings.Contains(lines[1], `"title":"Hi"`) {
		t.Errorf("source line = %s", lines[1])
	}
	if lines[2] != `{"delete":{"_index":"blog","_type":"posts","_id":"2"}}` {
		t.Errorf("delete line = %s", lines[2])
	}
}

func TestBulkRequest_EncodeEmpty(t *testing.T) {
	body, err := NewBulk().Build().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(body) != 0 {
		t.Errorf("body = %q, want empty", body)
	}
}

func TestBulkRequest_EncodeUnknownAction(t *testing.T) {
	req := &BulkRequest{Items: []BulkItem{{Action: "upsert", Index: "x"}}}
	if _, err := req.Encode(); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestBulkBuilder_BuildCopies(t *testing.T) {
	b := NewBulk().Delete("i", "t", "1")
	first := b.Build()
	b.Delete("i", "t", "2")
	if first.Len() != 1 {
		t.Errorf("first.Len = %d, want 1", first.Len())
	}
}

func TestBulkResponse_Failed(t *testing.T) {
	resp := &BulkResponse{Items: []BulkItemResult{
		{ID: "1", Status: 201},
		{ID: "2", Status: 409, Error: json.RawMessage(`{"type":"version_conflict_engine_exception"}`)},
		{ID: "3", Status: 404, Result: "not_found"},
	}}
	failed := resp.Failed()
	if len(failed) != 1 || failed[0].ID != "2" {
		t.Errorf("Failed = %v", failed)
	}
}

func TestSearchParams_Types(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"", ""},
		{AllTypes, ""},
		{"posts", "posts"},
		{"posts,comments", "posts|comments"},
	}
	for _, tt := range tests {
		p := &SearchParams{Type: tt.typ}
		if got := strings.Join(p.Types(), "|"); got != tt.want {
			t.Errorf("Types(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestSearchBody_JSON(t *testing.T) {
	body := &SearchBody{
		Query: &Query{Bool: &Bool{Must: []Clause{
			{MultiMatch: &MultiMatch{Query: "go", Fields: []string{"title^2"}}},
		}}},
		PostFilter: &Query{Bool: &Bool{Must: []Clause{TermClause("status", "a")}}},
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"query":{"bool":{"must":[{"multi_match":{"query":"go","fields":["title^2"]}}]}},` +
		`"post_filter":{"bool":{"must":[{"term":{"status":"a"}}]}}}`
	if !bytes.Equal(data, []byte(want)) {
		t.Errorf("json = %s\nwant  %s", data, want)
	}
}

func TestMapping_Body(t *testing.T) {
	body := NewMapping(nil).Body("posts")
	inner := body["posts"].(map[string]any)
	if inner["_source"].(map[string]any)["enabled"] != true {
		t.Errorf("_source = %v", inner["_source"])
	}
	if props := inner["properties"].(map[string]any); len(props) != 0 {
		t.Errorf("properties = %v", props)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Op: OpBulk, Status: 500, Err: ErrIndexNotFound}
	if err.Error() != "bulk: status 500: db: index not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	plain := &Error{Op: OpGet, Err: ErrKeyNotFound}
	if plain.Error() != "GET: db: key not found" {
		t.Errorf("Error() = %q", plain.Error())
	}
}
