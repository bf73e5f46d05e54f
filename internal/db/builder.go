package db

// BulkBuilder is a fluent builder for bulk requests.
type BulkBuilder struct {
	req BulkRequest
}

// NewBulk starts building a bulk request.
func NewBulk() *BulkBuilder {
	return &BulkBuilder{}
}

// Refresh asks the engine to make the changes searchable before replying.
func (b *BulkBuilder) Refresh() *BulkBuilder {
	b.req.Refresh = true
	return b
}

// Index appends an index action.
func (b *BulkBuilder) Index(index, typ, id string, retryOnConflict int, source map[string]any) *BulkBuilder {
	b.req.Items = append(b.req.Items, BulkItem{
		Action:          ActionIndex,
		Index:           index,
		Type:            typ,
		ID:              id,
		RetryOnConflict: retryOnConflict,
		Source:          source,
	})
	return b
}

// Delete appends a delete action.
func (b *BulkBuilder) Delete(index, typ, id string) *BulkBuilder {
	b.req.Items = append(b.req.Items, BulkItem{
		Action: ActionDelete,
		Index:  index,
		Type:   typ,
		ID:     id,
	})
	return b
}

// Build returns the request. An empty request is valid.
func (b *BulkBuilder) Build() *BulkRequest {
	req := b.req
	req.Items = append([]BulkItem(nil), b.req.Items...)
	return &req
}
