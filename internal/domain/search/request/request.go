package request

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/hunt/internal/domain/search/filter"
)

// MaxTermLength is the maximum allowed search term length.
const MaxTermLength = 4096

// Request carries the options of one search: bucket scope, boosted fields,
// filters, paging window and locale. The zero value searches with defaults.
type Request struct {
	scope   []string
	fields  []string
	filters filter.Predicates
	size    *int
	from    *int
	locale  string
}

// Option mutates a Request under construction.
type Option func(*Request)

// New builds a Request from options.
func New(opts ...Option) Request {
	var r Request
	for _, o := range opts {
		o(&r)
	}
	return r
}

// With returns a copy of r with opts applied.
func (r Request) With(opts ...Option) Request {
	cp := Request{
		scope:   append([]string(nil), r.scope...),
		fields:  append([]string(nil), r.fields...),
		filters: append(filter.Predicates(nil), r.filters...),
		size:    r.size,
		from:    r.from,
		locale:  r.locale,
	}
	for _, o := range opts {
		o(&cp)
	}
	return cp
}

// WithScope restricts the search to the named buckets.
func WithScope(buckets ...string) Option {
	return func(r *Request) { r.scope = append(r.scope, buckets...) }
}

// WithFields sets the boosted field list, e.g. "title^2".
func WithFields(fields ...string) Option {
	return func(r *Request) { r.fields = append(r.fields, fields...) }
}

// Where adds an exact-value filter.
func Where(field string, value any) Option {
	return func(r *Request) { r.filters = append(r.filters, filter.Match(field, value)) }
}

// WhereIn adds a value-set filter.
func WhereIn(field string, values ...any) Option {
	return func(r *Request) { r.filters = append(r.filters, filter.In(field, values...)) }
}

// WithSize sets the page size.
func WithSize(n int) Option {
	return func(r *Request) { r.size = &n }
}

// WithFrom sets the offset of the first hit.
func WithFrom(n int) Option {
	return func(r *Request) { r.from = &n }
}

// WithLocale sets the request locale.
func WithLocale(locale string) Option {
	return func(r *Request) { r.locale = locale }
}

// Scope returns the requested buckets.
func (r Request) Scope() []string { return r.scope }

// Fields returns the boosted field list.
func (r Request) Fields() []string { return r.fields }

// Filters returns the ordered predicates.
func (r Request) Filters() filter.Predicates { return r.filters }

// Size returns the page size, nil when unset.
func (r Request) Size() *int { return r.size }

// From returns the offset, nil when unset.
func (r Request) From() *int { return r.from }

// Locale returns the request locale.
func (r Request) Locale() string { return r.locale }

// ParseInt reads a raw numeric option; nil for empty or non-numeric input.
func ParseInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

// ValidateTerm checks the search term length.
func ValidateTerm(term string) error {
	if len(term) > MaxTermLength {
		return fmt.Errorf("search term too long (max %d chars)", MaxTermLength)
	}
	return nil
}

// FromValues reads a Request from query parameters: types, fields, size,
// from, locale and filter[<field>] (repeated values form a set).
// Filters are added in field name order.
func FromValues(v url.Values) Request {
	var opts []Option
	if types := splitList(v["types"]); len(types) > 0 {
		opts = append(opts, WithScope(types...))
	}
	if fields := splitList(v["fields"]); len(fields) > 0 {
		opts = append(opts, WithFields(fields...))
	}
	if n := ParseInt(v.Get("size")); n != nil {
		opts = append(opts, WithSize(*n))
	}
	if n := ParseInt(v.Get("from")); n != nil {
		opts = append(opts, WithFrom(*n))
	}
	if l := v.Get("locale"); l != "" {
		opts = append(opts, WithLocale(l))
	}

	var filterKeys []string
	for k := range v {
		if strings.HasPrefix(k, "filter[") && strings.HasSuffix(k, "]") {
			filterKeys = append(filterKeys, k)
		}
	}
	sort.Strings(filterKeys)
	for _, k := range filterKeys {
		field := k[len("filter[") : len(k)-1]
		if field == "" {
			continue
		}
		vals := v[k]
		if len(vals) == 1 {
			opts = append(opts, Where(field, vals[0]))
			continue
		}
		set := make([]any, len(vals))
		for i, s := range vals {
			set[i] = s
		}
		opts = append(opts, WhereIn(field, set...))
	}
	return New(opts...)
}

func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
