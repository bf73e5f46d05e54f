package hydrate

import "github.com/kailas-cloud/hunt/internal/domain/record"

// TypeResolver resolves type tags to registered record types.
type TypeResolver interface {
	Lookup(name string) (*record.Type, error)
}
