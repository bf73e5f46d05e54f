package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnknownType signals a type tag that is not registered.
	ErrUnknownType = errors.New("unknown record type")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrIndexNotFound signals a missing search index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidRelation signals a relation payload or declaration that cannot be hydrated.
	ErrInvalidRelation = errors.New("invalid relation")
	// ErrDepthExceeded signals relation nesting beyond the configured limit.
	ErrDepthExceeded = errors.New("relation depth exceeded")
	// ErrCycle signals a payload that references one of its own ancestors.
	ErrCycle = errors.New("relation cycle detected")
	// ErrAborted signals an operation declined by the operator.
	ErrAborted = errors.New("aborted")
	// ErrInvalidArgument signals malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// UnknownTypeError wraps ErrUnknownType with the offending tag.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownType.Error(), e.Name)
}

func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }

// NewUnknownType creates an unknown type error.
func NewUnknownType(name string) error {
	return &UnknownTypeError{Name: name}
}

// DepthExceededError wraps ErrDepthExceeded with the limit that was hit.
type DepthExceededError struct {
	Relation string
	Limit    int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("%s: relation %q nests deeper than %d", ErrDepthExceeded.Error(), e.Relation, e.Limit)
}

func (e *DepthExceededError) Unwrap() error { return ErrDepthExceeded }
