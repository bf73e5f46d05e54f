package db

import (
	"errors"
	"strconv"
)

// Sentinel errors for backend operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
)

// Op constants name the engine API or Redis command for error context.
const (
	OpPing          = "ping"
	OpBulk          = "bulk"
	OpSearch        = "search"
	OpIndexExists   = "indices.exists"
	OpCreateIndex   = "indices.create"
	OpDeleteIndex   = "indices.delete"
	OpTypeExists    = "indices.exists_type"
	OpGetMapping    = "indices.get_mapping"
	OpPutMapping    = "indices.put_mapping"
	OpDeleteMapping = "delete_by_query"

	OpGet  = "GET"
	OpSet  = "SET"
	OpIncr = "INCR"
)

// Error wraps an underlying error with the operation name and, for HTTP
// backends, the response status.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return e.Op + ": status " + strconv.Itoa(e.Status) + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
