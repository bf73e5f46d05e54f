package record

// DefaultBatchSize is the chunk size used when iterating a record source.
const DefaultBatchSize = 100

// Condition restricts a batch query to rows where Column equals Value.
type Condition struct {
	Column string
	Value  any
}

// BatchQuery describes a chunked scan of one record type.
type BatchQuery struct {
	Type  *Type
	Size  int
	Where []Condition
}

// BatchSize returns the effective chunk size.
func (q BatchQuery) BatchSize() int {
	if q.Size <= 0 {
		return DefaultBatchSize
	}
	return q.Size
}
