package record

// Pivot is the association row linking a record to its parent through a
// many-to-many relation.
type Pivot struct {
	spec  *PivotSpec
	attrs map[string]any
}

// NewExistingPivot builds a persisted pivot from spec and the payload attrs.
// When spec restricts attributes, only those and the two join keys are kept.
func NewExistingPivot(spec *PivotSpec, attrs map[string]any) *Pivot {
	if spec == nil {
		spec = &PivotSpec{}
	}
	kept := make(map[string]any, len(attrs))
	if len(spec.Attributes) == 0 {
		for k, v := range attrs {
			kept[k] = v
		}
		return &Pivot{spec: spec, attrs: kept}
	}

	allowed := make(map[string]bool, len(spec.Attributes)+2)
	for _, a := range spec.Attributes {
		allowed[a] = true
	}
	allowed[spec.ForeignKey] = true
	allowed[spec.RelatedKey] = true
	for k, v := range attrs {
		if allowed[k] {
			kept[k] = v
		}
	}
	return &Pivot{spec: spec, attrs: kept}
}

// Table returns the association table name.
func (p *Pivot) Table() string { return p.spec.Table }

// Attributes returns the pivot columns.
func (p *Pivot) Attributes() map[string]any { return p.attrs }

// Get returns a single pivot column.
func (p *Pivot) Get(name string) (any, bool) {
	v, ok := p.attrs[name]
	return v, ok
}

// ToMap returns a copy of the pivot columns.
func (p *Pivot) ToMap() map[string]any {
	out := make(map[string]any, len(p.attrs))
	for k, v := range p.attrs {
		out[k] = v
	}
	return out
}
