package document

import (
	"testing"

	"github.com/kailas-cloud/hunt/internal/domain/record"
)

func postType(t *testing.T) *record.Type {
	t.Helper()
	reg := record.NewRegistry()
	return reg.MustRegister(record.Type{
		Name:    `App\Post`,
		Table:   "posts",
		Mapping: map[string]any{"title": map[string]any{"type": "text"}},
	})
}

func TestMapper_ToDocumentInjectsType(t *testing.T) {
	typ := postType(t)
	m := NewMapper("blog", false)

	doc := m.ToDocument(typ.NewExisting(map[string]any{"id": 7, "title": "Hi"}))
	if doc.IsEmpty() {
		t.Fatal("document should not be empty")
	}
	if doc.ID() != "7" {
		t.Errorf("ID = %q, want 7", doc.ID())
	}
	if doc.Source()[TypeField] != `App\Post` {
		t.Errorf("type field = %v", doc.Source()[TypeField])
	}
	if doc.Source()["title"] != "Hi" {
		t.Errorf("title = %v", doc.Source()["title"])
	}
}

func TestMapper_ToDocumentEmptyRecord(t *testing.T) {
	typ := postType(t)
	doc := NewMapper("blog", false).ToDocument(typ.NewExisting(nil))
	if !doc.IsEmpty() {
		t.Errorf("expected empty document, got %v", doc.Source())
	}
	if _, ok := doc.Source()[TypeField]; ok {
		t.Error("type field must not be injected into an empty document")
	}
}

func TestMapper_ToDocumentUsesOverride(t *testing.T) {
	reg := record.NewRegistry()
	typ := reg.MustRegister(record.Type{
		Name:  "post",
		Table: "posts",
		DocumentData: func(r *record.Record) map[string]any {
			return map[string]any{"headline": r.GetString("title")}
		},
	})
	doc := NewMapper("blog", false).ToDocument(typ.NewExisting(map[string]any{"id": 1, "title": "x", "body": "long"}))
	if _, ok := doc.Source()["body"]; ok {
		t.Error("override should replace extracted attributes")
	}
	if doc.Source()["headline"] != "x" {
		t.Errorf("headline = %v", doc.Source()["headline"])
	}
}

func TestMapper_TargetFor(t *testing.T) {
	typ := postType(t)
	rec := typ.NewExisting(map[string]any{"id": 1})

	tests := []struct {
		name         string
		multilingual bool
		locale       string
		want         string
	}{
		{"plain", false, "fr", "posts"},
		{"multilingual with locale", true, "fr", "posts_fr"},
		{"multilingual without locale", true, "", "posts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMapper("blog", tt.multilingual).TargetFor(rec, tt.locale)
			if got.Index != "blog" || got.Bucket != tt.want {
				t.Errorf("TargetFor = %v, want blog/%s", got, tt.want)
			}
		})
	}
}

func TestMapper_BucketNameLeavesWildcard(t *testing.T) {
	m := NewMapper("blog", true)
	if got := m.BucketName(AllBuckets, "fr"); got != AllBuckets {
		t.Errorf("BucketName(_all) = %q", got)
	}
	if got := m.BucketName("post", "fr"); got != "post_fr" {
		t.Errorf("BucketName(post) = %q", got)
	}
}

func TestMapper_MappingSchemaFor(t *testing.T) {
	typ := postType(t)
	m := NewMapper("blog", false)
	if len(m.MappingSchemaFor(typ)) != 1 {
		t.Errorf("schema = %v", m.MappingSchemaFor(typ))
	}
	bare := record.NewRegistry().MustRegister(record.Type{Name: "tag", Table: "tags"})
	if got := m.MappingSchemaFor(bare); got == nil || len(got) != 0 {
		t.Errorf("default schema = %#v, want empty map", got)
	}
}
