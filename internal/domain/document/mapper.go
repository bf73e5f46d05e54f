package document

import (
	"github.com/kailas-cloud/hunt/internal/domain/record"
)

// Mapper converts records to documents and derives their index placement.
type Mapper struct {
	index        string
	multilingual bool
}

// NewMapper creates a mapper for index. When multilingual is set, buckets
// are suffixed with the request locale.
func NewMapper(index string, multilingual bool) *Mapper {
	return &Mapper{index: index, multilingual: multilingual}
}

// Index returns the configured index name.
func (m *Mapper) Index() string { return m.index }

// Multilingual reports whether locale suffixing is enabled.
func (m *Mapper) Multilingual() bool { return m.multilingual }

// ToDocument projects r into an indexable document. A record with no
// attributes yields an empty document; otherwise the type tag is injected.
func (m *Mapper) ToDocument(r *record.Record) Document {
	var data map[string]any
	if fn := r.Type().DocumentData; fn != nil {
		data = fn(r)
	} else {
		data = r.ToMap()
	}
	if len(data) == 0 {
		return Document{id: r.KeyString()}
	}

	source := make(map[string]any, len(data)+1)
	for k, v := range data {
		source[k] = v
	}
	source[TypeField] = r.TypeName()
	return Document{id: r.KeyString(), typeName: r.TypeName(), source: source}
}

// TargetFor returns where r is indexed for locale.
func (m *Mapper) TargetFor(r *record.Record, locale string) Target {
	return m.TargetForType(r.Type(), locale)
}

// TargetForType returns where records of t are indexed for locale.
func (m *Mapper) TargetForType(t *record.Type, locale string) Target {
	return Target{Index: m.index, Bucket: m.BucketName(t.Bucket(), locale)}
}

// BucketName applies locale suffixing to a bucket name. The wildcard bucket
// and empty locales are left unchanged.
func (m *Mapper) BucketName(bucket, locale string) string {
	if !m.multilingual || locale == "" || bucket == AllBuckets {
		return bucket
	}
	return bucket + "_" + locale
}

// MappingSchemaFor returns the declared field schema of t, empty when none.
func (m *Mapper) MappingSchemaFor(t *record.Type) map[string]any {
	return t.MappingProperties()
}
