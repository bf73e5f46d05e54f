package record

import "fmt"

// RelationKind is the cardinality of a declared relation.
type RelationKind string

const (
	// BelongsTo resolves a single parent record.
	BelongsTo RelationKind = "belongs_to"
	// HasOne resolves a single child record.
	HasOne RelationKind = "has_one"
	// HasMany resolves an ordered sequence of child records.
	HasMany RelationKind = "has_many"
	// BelongsToMany resolves an ordered sequence through a pivot table.
	BelongsToMany RelationKind = "belongs_to_many"
)

// IsValid reports whether k is a known relation kind.
func (k RelationKind) IsValid() bool {
	switch k {
	case BelongsTo, HasOne, HasMany, BelongsToMany:
		return true
	}
	return false
}

// IsMany reports whether the relation yields a sequence.
func (k RelationKind) IsMany() bool {
	return k == HasMany || k == BelongsToMany
}

// PivotSpec describes the association table of a many-to-many relation.
type PivotSpec struct {
	Table      string
	ForeignKey string
	RelatedKey string
	// Attributes limits the retained pivot columns. Empty keeps every column.
	Attributes []string
}

// Relation is a statically declared relation accessor of a record type.
type Relation struct {
	Name   string
	Kind   RelationKind
	Target string
	Pivot  *PivotSpec
}

func (r Relation) validate() error {
	if r.Name == "" {
		return fmt.Errorf("relation name is required")
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("relation %q: unknown kind %q", r.Name, r.Kind)
	}
	if r.Target == "" {
		return fmt.Errorf("relation %q: target type is required", r.Name)
	}
	if r.Pivot != nil && r.Kind != BelongsToMany {
		return fmt.Errorf("relation %q: pivot is only valid for %s", r.Name, BelongsToMany)
	}
	return nil
}

// Related holds the hydrated value of one relation: a single record
// (possibly nil) or an ordered sequence.
type Related struct {
	one    *Record
	many   []*Record
	isMany bool
}

// One wraps a single related record. A nil record is a valid empty relation.
func One(r *Record) Related { return Related{one: r} }

// Many wraps an ordered sequence of related records.
func Many(rs []*Record) Related {
	if rs == nil {
		rs = []*Record{}
	}
	return Related{many: rs, isMany: true}
}

// IsMany reports whether the relation holds a sequence.
func (r Related) IsMany() bool { return r.isMany }

// One returns the single related record, nil for sequences or empty relations.
func (r Related) One() *Record { return r.one }

// Many returns the related sequence, nil for single relations.
func (r Related) Many() []*Record { return r.many }

// Records returns the related records as a slice regardless of cardinality.
func (r Related) Records() []*Record {
	if r.isMany {
		return r.many
	}
	if r.one == nil {
		return nil
	}
	return []*Record{r.one}
}

func (r Related) toValue() any {
	if r.isMany {
		out := make([]any, 0, len(r.many))
		for _, rec := range r.many {
			out = append(out, rec.ToMap())
		}
		return out
	}
	if r.one == nil {
		return nil
	}
	return r.one.ToMap()
}
