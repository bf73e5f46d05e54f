package filter

// Predicate is a field constraint: an exact value or a value set.
type Predicate struct {
	field  string
	values []any
	set    bool
}

// Match creates an exact-value predicate.
func Match(field string, value any) Predicate {
	return Predicate{field: field, values: []any{value}}
}

// In creates a value-set predicate.
func In(field string, values ...any) Predicate {
	return Predicate{field: field, values: append([]any(nil), values...), set: true}
}

// Field returns the constrained field name.
func (p Predicate) Field() string { return p.field }

// Values returns the predicate values.
func (p Predicate) Values() []any { return p.values }

// IsSet reports whether the predicate was built from a value set.
func (p Predicate) IsSet() bool { return p.set }

// Term is a single exact-match clause.
type Term struct {
	Field string
	Value any
}

// Predicates is an ordered predicate list.
type Predicates []Predicate

// Has reports whether any predicate constrains field.
func (ps Predicates) Has(field string) bool {
	for _, p := range ps {
		if p.field == field {
			return true
		}
	}
	return false
}

// Terms expands the predicates into term clauses in declaration order.
// Empty values are dropped. Every member of a value set becomes its own
// term, so a set with more than one member requires all of them to match.
func (ps Predicates) Terms() []Term {
	var out []Term
	for _, p := range ps {
		for _, v := range p.values {
			if isEmpty(v) {
				continue
			}
			out = append(out, Term{Field: p.field, Value: v})
		}
	}
	return out
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}
