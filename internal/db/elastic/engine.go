package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/kailas-cloud/hunt/internal/db"
)

// Bulk submits the request in one call. An empty request is still sent.
func (s *Store) Bulk(ctx context.Context, req *db.BulkRequest) (*db.BulkResponse, error) {
	body, err := req.Encode()
	if err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: err}
	}
	r := esapi.BulkRequest{Body: bytes.NewReader(body)}
	if req.Refresh {
		r.Refresh = "true"
	}

	res, err := s.do(ctx, db.OpBulk, r)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError(db.OpBulk, res)
	}

	var raw bulkResponse
	if err := decodeJSON(res.Body, &raw); err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("decode response: %w", err)}
	}
	return raw.toDomain(), nil
}

type bulkResponse struct {
	Took   int                                   `json:"took"`
	Errors bool                                  `json:"errors"`
	Items  []map[db.BulkAction]db.BulkItemResult `json:"items"`
}

func (r *bulkResponse) toDomain() *db.BulkResponse {
	out := &db.BulkResponse{Took: r.Took, Errors: r.Errors, Items: make([]db.BulkItemResult, 0, len(r.Items))}
	for _, item := range r.Items {
		for action, res := range item {
			res.Action = action
			out.Items = append(out.Items, res)
		}
	}
	return out
}

// Search runs a search scoped to the params' index and type buckets.
func (s *Store) Search(ctx context.Context, p *db.SearchParams) (*db.SearchResponse, error) {
	r := esapi.SearchRequest{
		Index:        []string{p.Index},
		DocumentType: p.Types(),
	}
	if p.Size > 0 {
		size := p.Size
		r.Size = &size
	}
	if p.From != nil && *p.From > 0 {
		from := *p.From
		r.From = &from
	}
	if !p.Body.IsEmpty() {
		body, err := jsonBody(p.Body)
		if err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		r.Body = body
	}

	res, err := s.do(ctx, db.OpSearch, r)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError(db.OpSearch, res)
	}

	var raw searchResponse
	if err := decodeJSON(res.Body, &raw); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("decode response: %w", err)}
	}
	return raw.toDomain()
}

type searchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total json.RawMessage `json:"total"`
		Hits  []db.Hit        `json:"hits"`
	} `json:"hits"`
}

func (r *searchResponse) toDomain() (*db.SearchResponse, error) {
	total, err := parseTotal(r.Hits.Total)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	hits := r.Hits.Hits
	if hits == nil {
		hits = []db.Hit{}
	}
	return &db.SearchResponse{Took: r.Took, Total: total, Hits: hits}, nil
}

// parseTotal accepts both the bare number and the {"value": n} object forms.
func parseTotal(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var obj struct {
		Value int64 `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, fmt.Errorf("decode hits.total: %w", err)
	}
	return obj.Value, nil
}

// IndexExists reports whether the index exists.
func (s *Store) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := s.do(ctx, db.OpIndexExists, esapi.IndicesExistsRequest{Index: []string{index}})
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	return existence(db.OpIndexExists, res)
}

// CreateIndex creates the index with optional settings.
func (s *Store) CreateIndex(ctx context.Context, index string, settings map[string]any) error {
	r := esapi.IndicesCreateRequest{Index: index}
	if payload := db.IndexSettings(settings); payload != nil {
		body, err := jsonBody(payload)
		if err != nil {
			return &db.Error{Op: db.OpCreateIndex, Err: err}
		}
		r.Body = body
	}
	res, err := s.do(ctx, db.OpCreateIndex, r)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(db.OpCreateIndex, res)
	}
	return nil
}

// DeleteIndex removes the index and all of its documents.
func (s *Store) DeleteIndex(ctx context.Context, index string) error {
	res, err := s.do(ctx, db.OpDeleteIndex, esapi.IndicesDeleteRequest{Index: []string{index}})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(db.OpDeleteIndex, res)
	}
	return nil
}

// TypeExists reports whether a bucket mapping exists in the index.
func (s *Store) TypeExists(ctx context.Context, index, bucket string) (bool, error) {
	res, err := s.do(ctx, db.OpTypeExists, esapi.IndicesExistsDocumentTypeRequest{
		Index:        []string{index},
		DocumentType: []string{bucket},
	})
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	return existence(db.OpTypeExists, res)
}

// GetMapping returns the raw mapping document of a bucket.
func (s *Store) GetMapping(ctx context.Context, index, bucket string) (map[string]any, error) {
	includeTypeName := true
	res, err := s.do(ctx, db.OpGetMapping, esapi.IndicesGetMappingRequest{
		Index:           []string{index},
		DocumentType:    []string{bucket},
		IncludeTypeName: &includeTypeName,
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError(db.OpGetMapping, res)
	}

	var out map[string]any
	if err := decodeJSON(res.Body, &out); err != nil {
		return nil, &db.Error{Op: db.OpGetMapping, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}

// PutMapping installs the bucket's field schema.
func (s *Store) PutMapping(ctx context.Context, index, bucket string, m *db.Mapping) error {
	body, err := jsonBody(m.Body(bucket))
	if err != nil {
		return &db.Error{Op: db.OpPutMapping, Err: err}
	}
	includeTypeName := true
	res, err := s.do(ctx, db.OpPutMapping, esapi.IndicesPutMappingRequest{
		Index:           []string{index},
		DocumentType:    bucket,
		Body:            body,
		IncludeTypeName: &includeTypeName,
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(db.OpPutMapping, res)
	}
	return nil
}

// DeleteMapping removes every document of the bucket. Mappings cannot be
// dropped from a live index, so the bucket is emptied instead.
func (s *Store) DeleteMapping(ctx context.Context, index, bucket string) error {
	body, err := jsonBody(map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
	if err != nil {
		return &db.Error{Op: db.OpDeleteMapping, Err: err}
	}
	refresh := true
	res, err := s.do(ctx, db.OpDeleteMapping, esapi.DeleteByQueryRequest{
		Index:        []string{index},
		DocumentType: []string{bucket},
		Body:         body,
		Refresh:      &refresh,
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(db.OpDeleteMapping, res)
	}
	return nil
}

func existence(op string, res *esapi.Response) (bool, error) {
	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	case res.IsError():
		return false, responseError(op, res)
	default:
		return true, nil
	}
}
