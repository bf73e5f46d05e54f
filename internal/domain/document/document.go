package document

// TypeField is the reserved source field carrying the record type tag.
const TypeField = "huntable_type"

// AllBuckets is the wildcard bucket name addressing every type in an index.
const AllBuckets = "_all"

// Document is the indexable projection of a record (immutable value object).
type Document struct {
	id       string
	typeName string
	source   map[string]any
}

// Reconstruct creates a Document without mapping (hydration from a hit or test input).
func Reconstruct(id, typeName string, source map[string]any) Document {
	return Document{id: id, typeName: typeName, source: source}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// TypeName returns the type tag stored in the reserved field.
func (d *Document) TypeName() string { return d.typeName }

// Source returns the document body including the reserved type field.
func (d *Document) Source() map[string]any { return d.source }

// IsEmpty reports whether the document has no body and must not be indexed.
func (d *Document) IsEmpty() bool { return len(d.source) == 0 }

// Target addresses a bucket inside an index.
type Target struct {
	Index  string
	Bucket string
}

// String renders the target as index/bucket.
func (t Target) String() string { return t.Index + "/" + t.Bucket }
