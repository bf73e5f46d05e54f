package record

import (
	"fmt"
	"strings"
)

// DefaultKeyName is the primary key attribute used when a type declares none.
const DefaultKeyName = "id"

// Type describes a record type: its storage table, its index bucket and the
// relations it may carry. Types are immutable once registered.
type Type struct {
	Name         string
	Table        string
	SearchableAs string
	KeyName      string
	Mapping      map[string]any
	Relations    []Relation
	// DocumentData overrides the attributes extracted for indexing.
	DocumentData func(*Record) map[string]any

	relations map[string]*Relation
}

func (t *Type) init() error {
	if t.Name == "" {
		return fmt.Errorf("type name is required")
	}
	if t.Table == "" {
		return fmt.Errorf("type %q: table is required", t.Name)
	}
	if t.KeyName == "" {
		t.KeyName = DefaultKeyName
	}
	t.Relations = append([]Relation(nil), t.Relations...)
	t.relations = make(map[string]*Relation, len(t.Relations))
	for i := range t.Relations {
		rel := &t.Relations[i]
		if err := rel.validate(); err != nil {
			return fmt.Errorf("type %q: %w", t.Name, err)
		}
		if _, dup := t.relations[rel.Name]; dup {
			return fmt.Errorf("type %q: duplicate relation %q", t.Name, rel.Name)
		}
		t.relations[rel.Name] = rel
	}
	return nil
}

// Relation looks up a declared relation by accessor name.
func (t *Type) Relation(name string) (*Relation, bool) {
	rel, ok := t.relations[name]
	return rel, ok
}

// HasRelations reports whether the type declares any relation.
func (t *Type) HasRelations() bool { return len(t.relations) > 0 }

// Bucket returns the index bucket name before locale suffixing.
func (t *Type) Bucket() string {
	if t.SearchableAs != "" {
		return t.SearchableAs
	}
	return t.Table
}

// MappingProperties returns the declared field schema, never nil.
func (t *Type) MappingProperties() map[string]any {
	if t.Mapping == nil {
		return map[string]any{}
	}
	return t.Mapping
}

// ResultType returns the categorization label: the lower-cased basename of the type tag.
func (t *Type) ResultType() string {
	return ResultTypeOf(t.Name)
}

// New creates a record that is not yet persisted.
func (t *Type) New(attrs map[string]any) *Record {
	return newRecord(t, attrs, false)
}

// NewExisting creates a record flagged as already persisted.
func (t *Type) NewExisting(attrs map[string]any) *Record {
	return newRecord(t, attrs, true)
}

// ResultTypeOf lower-cases a type tag, normalises path separators and keeps the basename.
func ResultTypeOf(tag string) string {
	tag = strings.NewReplacer(`\`, "/", ".", "/").Replace(strings.ToLower(tag))
	if i := strings.LastIndex(tag, "/"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}
