package hydrate

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/db"
	"github.com/kailas-cloud/hunt/internal/domain"
	"github.com/kailas-cloud/hunt/internal/domain/document"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/metrics"
)

// DefaultMaxDepth bounds relation nesting.
const DefaultMaxDepth = 8

// Hydrator rebuilds typed record graphs from flat engine payloads.
type Hydrator struct {
	types    TypeResolver
	maxDepth int
	lenient  bool
	logger   *zap.Logger
}

// New creates a hydrator. Failures inside nested relations abort the whole
// hit unless lenient mode is enabled.
func New(types TypeResolver, logger *zap.Logger) *Hydrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hydrator{types: types, maxDepth: DefaultMaxDepth, logger: logger}
}

// WithMaxDepth configures the relation nesting limit.
func (h *Hydrator) WithMaxDepth(n int) *Hydrator {
	if n > 0 {
		h.maxDepth = n
	}
	return h
}

// WithLenient makes nested failures omit the offending relation or child
// instead of failing the hit.
func (h *Hydrator) WithLenient(on bool) *Hydrator {
	h.lenient = on
	return h
}

// Lenient reports whether nested failures are tolerated.
func (h *Hydrator) Lenient() bool { return h.lenient }

// FromHit rehydrates one engine hit. A hit whose type tag is missing or
// not registered yields (nil, nil) and must be skipped by the caller.
func (h *Hydrator) FromHit(hit db.Hit) (*record.Record, error) {
	tag, _ := hit.Source[document.TypeField].(string)
	if tag == "" {
		metrics.HydrationSkippedTotal.WithLabelValues("untyped").Inc()
		return nil, nil
	}
	typ, err := h.types.Lookup(tag)
	if err != nil {
		metrics.HydrationSkippedTotal.WithLabelValues("unknown_type").Inc()
		h.logger.Debug("Skipping hit of unregistered type",
			zap.String("id", hit.ID),
			zap.String("type", tag),
		)
		return nil, nil
	}

	attrs := make(map[string]any, len(hit.Source))
	for k, v := range hit.Source {
		if k != document.TypeField {
			attrs[k] = v
		}
	}
	attrs[record.ResultTypeAttribute] = record.ResultTypeOf(tag)

	rec, err := h.build(typ, attrs, hit.Source)
	if err != nil {
		return nil, fmt.Errorf("hit %q: %w", hit.ID, err)
	}
	rec.SetScore(hit.Score)
	return rec, nil
}

// Hydrate builds a persisted record of typ from attrs, expanding declared relations.
func (h *Hydrator) Hydrate(typ *record.Type, attrs map[string]any) (*record.Record, error) {
	return h.build(typ, attrs, attrs)
}

type frame struct {
	rec   *record.Record
	via   *record.Relation
	depth int
	path  []uintptr
}

// build walks the payload breadth-first with an explicit queue; path holds
// the identities of the ancestor payload maps for cycle detection.
func (h *Hydrator) build(typ *record.Type, attrs, origin map[string]any) (*record.Record, error) {
	root := typ.NewExisting(attrs)
	queue := []frame{{rec: root, path: []uintptr{identity(origin)}}}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		children, err := h.expandRelations(f)
		if err != nil {
			return nil, err
		}
		if err := h.attachPivot(f); err != nil {
			return nil, err
		}
		queue = append(queue, children...)
	}
	return root, nil
}

type child struct {
	rec *record.Record
	id  uintptr
}

func (h *Hydrator) expandRelations(f frame) ([]frame, error) {
	typ := f.rec.Type()
	if !typ.HasRelations() {
		return nil, nil
	}

	var next []frame
	for _, name := range record.SortedKeys(f.rec.Attributes()) {
		rel, ok := typ.Relation(name)
		if !ok {
			continue
		}
		value, _ := f.rec.Get(name)
		f.rec.Unset(name)

		target, err := h.types.Lookup(rel.Target)
		if err != nil {
			if err = h.tolerate(f.rec, name, "unknown_type", err); err != nil {
				return nil, err
			}
			continue
		}
		if f.depth+1 > h.maxDepth {
			err = &domain.DepthExceededError{Relation: name, Limit: h.maxDepth}
			if err = h.tolerate(f.rec, name, "depth", err); err != nil {
				return nil, err
			}
			continue
		}

		var children []child
		for i, item := range splitItems(value) {
			attrs, id, err := asAttributes(item)
			if err == nil && id != 0 && slices.Contains(f.path, id) {
				err = fmt.Errorf("%w: relation %q item %d", domain.ErrCycle, name, i)
			}
			if err != nil {
				if err = h.tolerate(f.rec, name, "invalid", err); err != nil {
					return nil, err
				}
				continue
			}
			children = append(children, child{rec: target.NewExisting(attrs), id: id})
		}

		related := match(rel, children)
		f.rec.SetRelation(name, related)
		for _, c := range children {
			if !attached(related, c.rec) {
				continue
			}
			path := append(slices.Clip(f.path), c.id)
			next = append(next, frame{rec: c.rec, via: rel, depth: f.depth + 1, path: path})
		}
	}
	return next, nil
}

// attachPivot converts the pivot attribute of a record reached through a
// many-to-many relation into a Pivot. At the top level the attribute is kept.
func (h *Hydrator) attachPivot(f frame) error {
	value, ok := f.rec.Get(record.PivotAttribute)
	if !ok || f.via == nil {
		return nil
	}
	f.rec.Unset(record.PivotAttribute)

	if f.via.Kind != record.BelongsToMany {
		err := fmt.Errorf("%w: relation %q carries pivot data but is %s",
			domain.ErrInvalidRelation, f.via.Name, f.via.Kind)
		return h.tolerate(f.rec, record.PivotAttribute, "invalid", err)
	}
	attrs, _, err := asAttributes(value)
	if err != nil {
		return h.tolerate(f.rec, record.PivotAttribute, "invalid", err)
	}
	f.rec.SetPivot(record.NewExistingPivot(f.via.Pivot, attrs))
	return nil
}

func (h *Hydrator) tolerate(rec *record.Record, relation, reason string, err error) error {
	if !h.lenient {
		return err
	}
	metrics.HydrationSkippedTotal.WithLabelValues(reason).Inc()
	h.logger.Debug("Skipping relation payload",
		zap.String("type", rec.TypeName()),
		zap.String("relation", relation),
		zap.Error(err),
	)
	return nil
}

// match assigns hydrated children to the relation: every keyed child for
// to-many relations, otherwise the first child when it carries a key.
func match(rel *record.Relation, children []child) record.Related {
	if rel.Kind.IsMany() {
		recs := make([]*record.Record, 0, len(children))
		for _, c := range children {
			if c.rec.Key() != nil {
				recs = append(recs, c.rec)
			}
		}
		return record.Many(recs)
	}
	if len(children) == 0 || children[0].rec.Key() == nil {
		return record.One(nil)
	}
	return record.One(children[0].rec)
}

func attached(rel record.Related, rec *record.Record) bool {
	return slices.Contains(rel.Records(), rec)
}

// splitItems treats a list whose every element is a map or list as a
// sequence of items; anything else is a single item.
func splitItems(v any) []any {
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			switch item.(type) {
			case map[string]any, []any:
			default:
				return []any{v}
			}
		}
		return list
	case []map[string]any:
		out := make([]any, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out
	}
	return []any{v}
}

// asAttributes reads one relation item. A nil item is an empty record.
func asAttributes(item any) (map[string]any, uintptr, error) {
	switch m := item.(type) {
	case nil:
		return map[string]any{}, 0, nil
	case map[string]any:
		return m, identity(m), nil
	}
	return nil, 0, fmt.Errorf("%w: item of type %T is not an attribute map", domain.ErrInvalidRelation, item)
}

func identity(m map[string]any) uintptr {
	if m == nil {
		return 0
	}
	return reflect.ValueOf(m).Pointer()
}
