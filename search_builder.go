package hunt

import (
	"context"

	"github.com/kailas-cloud/hunt/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/hunt/internal/usecase/search"
)

// SearchBuilder is a fluent builder for one search.
type SearchBuilder struct {
	search *searchuc.Service
	err    error

	term   string
	bucket string
	opts   []request.Option
	take   int
}

// Where restricts results to documents whose field equals value.
func (b *SearchBuilder) Where(field string, value any) *SearchBuilder {
	b.opts = append(b.opts, request.Where(field, value))
	return b
}

// WhereIn restricts results to documents whose field matches every value.
func (b *SearchBuilder) WhereIn(field string, values ...any) *SearchBuilder {
	b.opts = append(b.opts, request.WhereIn(field, values...))
	return b
}

// Fields overrides the weighted fields the term is matched against.
func (b *SearchBuilder) Fields(fields ...string) *SearchBuilder {
	b.opts = append(b.opts, request.WithFields(fields...))
	return b
}

// Locale targets the locale buckets and, when configured, the locale field.
func (b *SearchBuilder) Locale(locale string) *SearchBuilder {
	b.opts = append(b.opts, request.WithLocale(locale))
	return b
}

// Take limits the number of results of Get.
func (b *SearchBuilder) Take(n int) *SearchBuilder {
	b.take = n
	return b
}

// Get runs the search and returns the rehydrated records.
func (b *SearchBuilder) Get(ctx context.Context) ([]*Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	req := b.request()
	if b.take > 0 {
		req = req.With(request.WithSize(b.take))
	}
	return b.search.PerformSearch(ctx, b.term, req)
}

// First returns the best match, nil when nothing matches.
func (b *SearchBuilder) First(ctx context.Context) (*Record, error) {
	b.take = 1
	items, err := b.Get(ctx)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

// Paginate returns one page of perPage results. The page number is read
// from ctx, see WithPage.
func (b *SearchBuilder) Paginate(ctx context.Context, perPage int) (*Page, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.search.Search(ctx, b.term, perPage, b.request())
}

func (b *SearchBuilder) request() request.Request {
	opts := b.opts
	if b.bucket != "" {
		opts = append([]request.Option{request.WithScope(b.bucket)}, opts...)
	}
	return request.New(opts...)
}
