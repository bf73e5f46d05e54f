package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/kailas-cloud/hunt/internal/db"
	"github.com/kailas-cloud/hunt/internal/metrics"
)

// Config holds engine connection parameters.
type Config struct {
	Hosts    []string
	Username string
	Password string
	// Retries is the client-side retry count. Negative disables retries.
	Retries int
	// Transport wraps the HTTP round trip, e.g. with a request signer.
	Transport http.RoundTripper
}

// Store implements db.Engine over the Elasticsearch REST API.
type Store struct {
	tp esapi.Transport
}

var _ db.Engine = (*Store)(nil)

// NewStore creates an engine client. No request is made until first use.
func NewStore(cfg Config) (*Store, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Hosts,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	}
	if cfg.Retries < 0 {
		esCfg.DisableRetry = true
	} else if cfg.Retries > 0 {
		esCfg.MaxRetries = cfg.Retries
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Store{tp: client}, nil
}

// NewStoreWithTransport creates a Store over an arbitrary esapi transport.
func NewStoreWithTransport(tp esapi.Transport) *Store {
	return &Store{tp: tp}
}

// Ping checks engine connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.do(ctx, db.OpPing, esapi.PingRequest{})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(db.OpPing, res)
	}
	return nil
}

// WaitForReady polls Ping until success or timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.After(timeout)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for elasticsearch: %w", ctx.Err())
		case <-deadline:
			return fmt.Errorf("elasticsearch not ready after %s", timeout)
		case <-ticker.C:
		}
	}
}

func (s *Store) do(ctx context.Context, op string, req esapi.Request) (*esapi.Response, error) {
	start := time.Now()
	res, err := req.Do(ctx, s.tp)
	status := "error"
	if err == nil {
		status = strconv.Itoa(res.StatusCode)
	}
	metrics.ObserveEngineRequest(op, status, time.Since(start))
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	return res, nil
}

func jsonBody(v any) (io.Reader, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}

type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// responseError converts a non-2xx response into *db.Error. Missing
// indices wrap db.ErrIndexNotFound.
func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	var env errorEnvelope
	reason := http.StatusText(res.StatusCode)
	var cause errorCause
	if json.Unmarshal(body, &env) == nil && len(env.Error) > 0 {
		if json.Unmarshal(env.Error, &cause) == nil && cause.Reason != "" {
			reason = cause.Type + ": " + cause.Reason
		} else {
			var s string
			if json.Unmarshal(env.Error, &s) == nil && s != "" {
				reason = s
			}
		}
	}

	err := errors.New(reason)
	if cause.Type == "index_not_found_exception" {
		err = fmt.Errorf("%w: %s", db.ErrIndexNotFound, reason)
	} else if cause.Type == "resource_already_exists_exception" {
		err = fmt.Errorf("%w: %s", db.ErrIndexExists, reason)
	}
	return &db.Error{Op: op, Status: res.StatusCode, Err: err}
}
