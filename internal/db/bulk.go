package db

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BulkAction is the kind of a bulk action line.
type BulkAction string

const (
	// ActionIndex creates or replaces a document.
	ActionIndex BulkAction = "index"
	// ActionDelete removes a document.
	ActionDelete BulkAction = "delete"
)

// BulkItem is one action of a bulk request.
type BulkItem struct {
	Action          BulkAction
	Index           string
	Type            string
	ID              string
	RetryOnConflict int
	Source          map[string]any
}

type bulkMeta struct {
	Index           string `json:"_index"`
	Type            string `json:"_type,omitempty"`
	ID              string `json:"_id,omitempty"`
	RetryOnConflict int    `json:"retry_on_conflict,omitempty"`
}

// BulkRequest is an ordered list of actions submitted in one call.
type BulkRequest struct {
	Items   []BulkItem
	Refresh bool
}

// Len returns the number of actions.
func (r *BulkRequest) Len() int { return len(r.Items) }

// Encode renders the newline-delimited body. Index actions are followed by
// their source line; an empty request encodes to an empty body.
func (r *BulkRequest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range r.Items {
		it := &r.Items[i]
		meta := bulkMeta{Index: it.Index, Type: it.Type, ID: it.ID}
		switch it.Action {
		case ActionIndex:
			meta.RetryOnConflict = it.RetryOnConflict
			if err := enc.Encode(map[BulkAction]bulkMeta{ActionIndex: meta}); err != nil {
				return nil, fmt.Errorf("encode action %d: %w", i, err)
			}
			if err := enc.Encode(it.Source); err != nil {
				return nil, fmt.Errorf("encode source %d: %w", i, err)
			}
		case ActionDelete:
			if err := enc.Encode(map[BulkAction]bulkMeta{ActionDelete: meta}); err != nil {
				return nil, fmt.Errorf("encode action %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("bulk item %d: unknown action %q", i, it.Action)
		}
	}
	return buf.Bytes(), nil
}

// BulkResponse is the decoded engine bulk response.
type BulkResponse struct {
	Took   int              `json:"took"`
	Errors bool             `json:"errors"`
	Items  []BulkItemResult `json:"items"`
}

// BulkItemResult is the per-action outcome.
type BulkItemResult struct {
	Action BulkAction      `json:"action"`
	Index  string          `json:"_index"`
	Type   string          `json:"_type,omitempty"`
	ID     string          `json:"_id"`
	Status int             `json:"status"`
	Result string          `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// Failed returns the items the engine rejected.
func (r *BulkResponse) Failed() []BulkItemResult {
	var out []BulkItemResult
	for _, it := range r.Items {
		if len(it.Error) > 0 {
			out = append(out, it)
		}
	}
	return out
}
