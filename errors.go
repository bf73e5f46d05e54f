package hunt

import (
	"errors"

	"github.com/kailas-cloud/hunt/internal/domain"
)

// Errors returned by the client. Match them with errors.Is.
var (
	ErrUnknownType     = domain.ErrUnknownType
	ErrNotFound        = domain.ErrNotFound
	ErrIndexNotFound   = domain.ErrIndexNotFound
	ErrAlreadyExists   = domain.ErrAlreadyExists
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrInvalidRelation = domain.ErrInvalidRelation

	// ErrRejected reports documents the engine refused during a sync.
	ErrRejected = errors.New("hunt: documents rejected")
)
