package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/db"
	"github.com/kailas-cloud/hunt/internal/domain"
	dombatch "github.com/kailas-cloud/hunt/internal/domain/batch"
	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/domain/search/request"
	"github.com/kailas-cloud/hunt/internal/domain/search/result"
	batchuc "github.com/kailas-cloud/hunt/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/hunt/internal/usecase/health"
	"github.com/kailas-cloud/hunt/internal/version"
)

// maxSyncRecords bounds the records accepted by one lifecycle request.
const maxSyncRecords = 500

// ErrorCode is the machine readable error identifier of an API response.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest     ErrorCode = "bad_request"
	ErrorCodeUnauthorized   ErrorCode = "unauthorized"
	ErrorCodeUnknownType    ErrorCode = "unknown_type"
	ErrorCodeNotFound       ErrorCode = "not_found"
	ErrorCodeIndexNotFound  ErrorCode = "index_not_found"
	ErrorCodeAlreadyExists  ErrorCode = "already_exists"
	ErrorCodeHydration      ErrorCode = "hydration_failed"
	ErrorCodeEngine         ErrorCode = "engine_error"
	ErrorCodeInternalError  ErrorCode = "internal_error"
	ErrorCodeTooManyRecords ErrorCode = "too_many_records"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchService runs full and quick searches.
type SearchService interface {
	Search(ctx context.Context, term string, perPage int, req request.Request) (*result.Page, error)
	QuickSearch(ctx context.Context, term string, perPage int, group bool, req request.Request) (*result.Quick, error)
}

// SyncService applies lifecycle events to the index.
type SyncService interface {
	Handle(ctx context.Context, event dombatch.Event, records []*record.Record, opts ...batchuc.SyncOption) (*db.BulkResponse, error)
}

// TypeResolver looks up registered record types by name.
type TypeResolver interface {
	Lookup(name string) (*record.Type, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search and sync HTTP API.
type Server struct {
	search        SearchService
	sync          SyncService
	types         TypeResolver
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService,
	sync SyncService,
	types TypeResolver,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		sync:   sync,
		types:  types,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(domain.ErrUnknownType, http.StatusUnprocessableEntity, ErrorCodeUnknownType),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, ErrorCodeIndexNotFound),
		sentinelHandler(db.ErrIndexNotFound, http.StatusNotFound, ErrorCodeIndexNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrInvalidRelation, http.StatusInternalServerError, ErrorCodeHydration),
		sentinelHandler(domain.ErrDepthExceeded, http.StatusInternalServerError, ErrorCodeHydration),
		sentinelHandler(domain.ErrCycle, http.StatusInternalServerError, ErrorCodeHydration),
		engineErrorHandler,
	}
	return s
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status":  string(report.Status),
		"checks":  checks,
		"version": version.Get(),
	})
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	perPage, ok := optionalInt(w, q.Get("per_page"), "per_page")
	if !ok {
		return
	}
	page, ok := optionalInt(w, q.Get("page"), "page")
	if !ok {
		return
	}

	ctx := r.Context()
	if page > 0 {
		ctx = result.ContextWithPage(ctx, page)
	}

	p, err := s.search.Search(ctx, q.Get("q"), perPage, request.FromValues(q))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// QuickSearch handles GET /api/v1/quick-search.
func (s *Server) QuickSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	perPage, ok := optionalInt(w, q.Get("per_page"), "per_page")
	if !ok {
		return
	}
	group := false
	if raw := q.Get("group"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "group must be a boolean")
			return
		}
		group = v
	}

	res, err := s.search.QuickSearch(r.Context(), q.Get("q"), perPage, group, request.FromValues(q))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SyncRequest is the body of a lifecycle event.
type SyncRequest struct {
	Type    string           `json:"type"`
	Locale  string           `json:"locale,omitempty"`
	Records []map[string]any `json:"records"`
}

// SyncItem is the outcome of one record in a lifecycle event.
type SyncItem struct {
	ID     string `json:"id"`
	Bucket string `json:"bucket"`
	Op     string `json:"op"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SyncResponse is the body returned for a lifecycle event.
type SyncResponse struct {
	Errors bool       `json:"errors"`
	Items  []SyncItem `json:"items"`
}

// SyncRecords handles POST /api/v1/records/{event}.
func (s *Server) SyncRecords(w http.ResponseWriter, r *http.Request) {
	event, err := dombatch.ParseEvent(chi.URLParam(r, "event"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	var req SyncRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "type is required")
		return
	}
	if len(req.Records) > maxSyncRecords {
		writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeTooManyRecords,
			"at most "+strconv.Itoa(maxSyncRecords)+" records per request")
		return
	}

	typ, err := s.types.Lookup(req.Type)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	records := make([]*record.Record, 0, len(req.Records))
	for _, attrs := range req.Records {
		records = append(records, typ.NewExisting(attrs))
	}

	var opts []batchuc.SyncOption
	if req.Locale != "" {
		opts = append(opts, batchuc.WithLocale(req.Locale))
	}

	resp, err := s.sync.Handle(r.Context(), event, records, opts...)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := SyncResponse{Errors: resp.Errors, Items: make([]SyncItem, 0, len(resp.Items))}
	for _, res := range batchuc.Results(resp) {
		item := SyncItem{
			ID:     res.ID(),
			Bucket: res.Bucket(),
			Op:     string(res.Op()),
			Status: string(res.Status()),
		}
		if res.Err() != nil {
			item.Error = res.Err().Error()
		}
		out.Items = append(out.Items, item)
	}
	writeJSON(w, http.StatusOK, out)
}

// optionalInt parses a positive integer query parameter. Empty means 0.
func optionalInt(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var unknown *domain.UnknownTypeError
	if errors.As(err, &unknown) {
		return unknown.Error()
	}
	// Argument errors only carry caller input.
	if errors.Is(err, domain.ErrInvalidArgument) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrIndexNotFound,
		db.ErrIndexNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidRelation,
		domain.ErrDepthExceeded,
		domain.ErrCycle,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// engineErrorHandler maps failed engine calls to 502.
func engineErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		return false
	}
	writeError(w, http.StatusBadGateway, ErrorCodeEngine, "search engine error: "+dbErr.Op)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
