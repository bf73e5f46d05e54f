package admin

import (
	"context"

	"github.com/kailas-cloud/hunt/internal/db"
)

// Engine is the index and mapping lifecycle subset of the engine.
type Engine interface {
	db.IndexManager
	db.MappingManager
}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}
