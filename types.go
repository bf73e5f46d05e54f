package hunt

import (
	"context"

	"github.com/kailas-cloud/hunt/internal/domain/record"
	"github.com/kailas-cloud/hunt/internal/domain/search/result"
)

// Record is one application record: attributes, relations and pivot data.
type Record = record.Record

// Type describes a record type. Register types before syncing or searching.
type Type = record.Type

// Relation declares a relation accessor of a Type.
type Relation = record.Relation

// RelationKind is the cardinality of a Relation.
type RelationKind = record.RelationKind

// PivotSpec describes the association table of a many-to-many relation.
type PivotSpec = record.PivotSpec

// Relation kinds.
const (
	BelongsTo     = record.BelongsTo
	HasOne        = record.HasOne
	HasMany       = record.HasMany
	BelongsToMany = record.BelongsToMany
)

// Page is one page of search results.
type Page = result.Page

// Quick is a quick-search result, optionally grouped by table.
type Quick = result.Quick

// WithPage stores the page that Paginate reads.
func WithPage(ctx context.Context, page int) context.Context {
	return result.ContextWithPage(ctx, page)
}
