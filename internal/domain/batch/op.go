package batch

import (
	"fmt"

	"github.com/kailas-cloud/hunt/internal/domain"
)

// Op is a document sync operation.
type Op string

// Sync operations.
const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

// Event is a record lifecycle event that triggers a sync.
type Event string

// Record lifecycle events.
const (
	EventCreated  Event = "created"
	EventUpdated  Event = "updated"
	EventRestored Event = "restored"
	EventDeleted  Event = "deleted"
)

// ParseEvent parses a lifecycle event name.
func ParseEvent(s string) (Event, error) {
	switch e := Event(s); e {
	case EventCreated, EventUpdated, EventRestored, EventDeleted:
		return e, nil
	}
	return "", fmt.Errorf("%w: unknown record event %q", domain.ErrInvalidArgument, s)
}

// Op returns the sync operation an event maps to.
func (e Event) Op() Op {
	if e == EventDeleted {
		return OpDelete
	}
	return OpUpsert
}
