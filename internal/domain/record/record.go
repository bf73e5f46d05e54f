package record

import (
	"encoding/json"
	"sort"
)

// Attribute names with a reserved meaning in documents and hits.
const (
	PivotAttribute      = "pivot"
	ResultTypeAttribute = "result_type"
	ScoreAttribute      = "_score"
)

// Record is an instance of a registered type: a flat attribute map plus
// hydrated relations and, when reached through a many-to-many relation, a pivot.
type Record struct {
	typ       *Type
	attrs     map[string]any
	relations map[string]Related
	relOrder  []string
	pivot     *Pivot
	score     float64
	hasScore  bool
	exists    bool
}

func newRecord(t *Type, attrs map[string]any, exists bool) *Record {
	cp := make(map[string]any, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return &Record{typ: t, attrs: cp, exists: exists}
}

// Type returns the record type.
func (r *Record) Type() *Type { return r.typ }

// TypeName returns the registered type tag.
func (r *Record) TypeName() string { return r.typ.Name }

// Table returns the storage table of the record type.
func (r *Record) Table() string { return r.typ.Table }

// Exists reports whether the record is flagged as persisted.
func (r *Record) Exists() bool { return r.exists }

// Key returns the primary key value, nil when absent.
func (r *Record) Key() any { return r.attrs[r.typ.KeyName] }

// KeyString returns the primary key formatted as a document identifier.
func (r *Record) KeyString() string { return FormatKey(r.Key()) }

// Attributes returns the live attribute map.
func (r *Record) Attributes() map[string]any { return r.attrs }

// Get returns a single attribute.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// GetString returns a string attribute, empty when absent or not a string.
func (r *Record) GetString(name string) string {
	s, _ := r.attrs[name].(string)
	return s
}

// Set assigns an attribute.
func (r *Record) Set(name string, v any) { r.attrs[name] = v }

// Unset removes an attribute.
func (r *Record) Unset(name string) { delete(r.attrs, name) }

// ResultType returns the result_type attribute stamped during rehydration.
func (r *Record) ResultType() string { return r.GetString(ResultTypeAttribute) }

// Score returns the engine relevance score when the record came from a hit.
func (r *Record) Score() (float64, bool) { return r.score, r.hasScore }

// SetScore records the engine relevance score.
func (r *Record) SetScore(s float64) {
	r.score = s
	r.hasScore = true
}

// Relation returns a hydrated relation.
func (r *Record) Relation(name string) (Related, bool) {
	rel, ok := r.relations[name]
	return rel, ok
}

// SetRelation attaches a hydrated relation, keeping first-set order.
func (r *Record) SetRelation(name string, rel Related) {
	if r.relations == nil {
		r.relations = make(map[string]Related)
	}
	if _, ok := r.relations[name]; !ok {
		r.relOrder = append(r.relOrder, name)
	}
	r.relations[name] = rel
}

// RelationNames returns attached relation names in attach order.
func (r *Record) RelationNames() []string {
	return append([]string(nil), r.relOrder...)
}

// Pivot returns the association attached by the parent relation, if any.
func (r *Record) Pivot() *Pivot { return r.pivot }

// SetPivot attaches a pivot association.
func (r *Record) SetPivot(p *Pivot) { r.pivot = p }

// ToMap flattens the record into plain values: attributes, relations
// serialized recursively, and the pivot under the pivot attribute.
func (r *Record) ToMap() map[string]any {
	out := make(map[string]any, len(r.attrs)+len(r.relations)+1)
	for k, v := range r.attrs {
		out[k] = v
	}
	for _, name := range r.relOrder {
		out[name] = r.relations[name].toValue()
	}
	if r.pivot != nil {
		out[PivotAttribute] = r.pivot.ToMap()
	}
	return out
}

// MarshalJSON encodes the flattened record, adding the score when known.
func (r *Record) MarshalJSON() ([]byte, error) {
	m := r.ToMap()
	if r.hasScore {
		m[ScoreAttribute] = r.score
	}
	return json.Marshal(m)
}

// SortedKeys returns attribute names in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
