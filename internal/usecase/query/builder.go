package query

import (
	"strings"

	"github.com/kailas-cloud/hunt/internal/db"
	"github.com/kailas-cloud/hunt/internal/domain/document"
	"github.com/kailas-cloud/hunt/internal/domain/search/filter"
	"github.com/kailas-cloud/hunt/internal/domain/search/request"
)

// DefaultSize is the page size used when a request carries none.
const DefaultSize = 25

// Config holds the index-wide query defaults.
type Config struct {
	Index        string
	Types        []string
	Fields       []string
	Multilingual bool
	LocaleField  string
}

// Builder translates search requests into engine parameters.
type Builder struct {
	cfg    Config
	mapper *document.Mapper
}

// New creates a query builder.
func New(cfg Config) *Builder {
	return &Builder{cfg: cfg, mapper: document.NewMapper(cfg.Index, cfg.Multilingual)}
}

// Index returns the configured index name.
func (b *Builder) Index() string { return b.cfg.Index }

// BasicParams fixes index, bucket scope and paging window for req.
func (b *Builder) BasicParams(req request.Request) *db.SearchParams {
	p := &db.SearchParams{
		Index: b.cfg.Index,
		Type:  b.scope(req),
		Size:  DefaultSize,
	}
	if n := req.Size(); n != nil && *n > 0 {
		p.Size = *n
	}
	if n := req.From(); n != nil && *n > 0 {
		from := *n
		p.From = &from
	}
	return p
}

// SearchParams extends BasicParams with the query clause for term and the
// filter predicates of req.
func (b *Builder) SearchParams(term string, req request.Request) *db.SearchParams {
	p := b.BasicParams(req)
	body := &db.SearchBody{}

	if term != "" {
		fields := req.Fields()
		if len(fields) == 0 {
			fields = b.cfg.Fields
		}
		if len(fields) > 0 {
			body.Query = &db.Query{Bool: &db.Bool{Must: []db.Clause{{
				MultiMatch: &db.MultiMatch{Query: term, Fields: append([]string(nil), fields...)},
			}}}}
		} else {
			body.Query = &db.Query{Match: map[string]string{db.AllTypes: term}}
		}
	}

	// Multiple values of one predicate become separate term clauses, so a
	// value set narrows rather than widens the result.
	if terms := b.predicates(req).Terms(); len(terms) > 0 {
		must := make([]db.Clause, 0, len(terms))
		for _, t := range terms {
			must = append(must, db.TermClause(t.Field, t.Value))
		}
		body.PostFilter = &db.Query{Bool: &db.Bool{Must: must}}
	}

	if !body.IsEmpty() {
		p.Body = body
	}
	return p
}

func (b *Builder) predicates(req request.Request) filter.Predicates {
	preds := req.Filters()
	field := b.cfg.LocaleField
	if field == "" || req.Locale() == "" || preds.Has(field) {
		return preds
	}
	out := make(filter.Predicates, 0, len(preds)+1)
	out = append(out, preds...)
	return append(out, filter.Match(field, req.Locale()))
}

func (b *Builder) scope(req request.Request) string {
	buckets := splitScope(req.Scope())
	if len(buckets) == 0 {
		buckets = splitScope(b.cfg.Types)
	}
	if len(buckets) == 0 {
		return db.AllTypes
	}
	for i, bucket := range buckets {
		buckets[i] = b.mapper.BucketName(bucket, req.Locale())
	}
	return strings.Join(buckets, ",")
}

// splitScope strips whitespace and flattens comma-joined entries.
func splitScope(entries []string) []string {
	var out []string
	for _, e := range entries {
		for _, part := range strings.Split(e, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
