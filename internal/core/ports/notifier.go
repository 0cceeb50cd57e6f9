package ports

import (
	"fastdispatch/internal/core/domain/model/kernel"
)

// Notification is one realtime event fanned out to connected participants.
type Notification struct {
	// Recipients are the actor ids the event is addressed to. Actors
	// without a live connection are skipped.
	Recipients []kernel.UUID

	// Event names what happened, such as "ORDER_DELIVERED" or
	// "ASSIGNMENT_OFFERED".
	Event string

	// OrderID is the order the event concerns.
	OrderID kernel.UUID

	// Body carries event-specific fields for the client.
	Body map[string]any
}

// Notifier delivers realtime notifications on a best-effort basis. Publish
// never blocks the calling command and never returns an error: a failed or
// missing delivery must not affect the outcome of the operation that
// triggered it.
type Notifier interface {
	Publish(n Notification)
}
