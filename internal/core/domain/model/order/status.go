package order

import (
	"fmt"

	"fastdispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so orders follow the
// delivery workflow:
//
//	Pending ──> Confirmed ──> Accepted ──> PickedUp ──> InTransit ──> Delivered
//	    │            │            │            │            │
//	    └────────────┴────────────┴────────────┴────────────┴──> Cancelled
//
// Accepted is reachable from both Pending and Confirmed (a courier assignment
// accepts on behalf of the order). Delivered and Cancelled are terminal for
// the lifecycle; a rejection returns an order to Pending without going through
// Cancelled.
//
// Status is a value object that validates transitions and provides string
// representations for persistence, tracking labels, and realtime events.
// An attempted transition outside the graph fails with a state-conflict error
// and leaves the value unchanged.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: submitted, awaiting merchant
	// confirmation or courier assignment.
	Pending

	// Confirmed means the merchant acknowledged the order.
	Confirmed

	// Accepted means a courier (or the merchant on the courier's behalf)
	// committed to the delivery.
	Accepted

	// PickedUp means the assigned courier collected the goods.
	PickedUp

	// InTransit means the courier is en route to the delivery point.
	InTransit

	// Delivered means the courier reported delivery; the confirmation
	// deadline is armed at this transition.
	Delivered

	// Cancelled is terminal and reachable from any non-Delivered status.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Confirmed: "CONFIRMED",
		Accepted:  "ACCEPTED",
		PickedUp:  "PICKED_UP",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// String returns the wire/persistence name of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StatusFromString parses the wire/persistence name back into a Status.
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks the status is one of the defined lifecycle values.
// Unknown (0) and out-of-range values are invalid. Used when reconstructing
// orders from persistence or parsing external input.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// conflict builds the uniform illegal-transition error.
func (s Status) conflict(target Status) error {
	return errs.NewStateConflictError("order",
		fmt.Sprintf("cannot transition from %s to %s", s, target))
}

// Confirm transitions Pending -> Confirmed.
func (s Status) Confirm() (Status, error) {
	if s != Pending {
		return 0, s.conflict(Confirmed)
	}
	return Confirmed, nil
}

// Accept transitions {Pending, Confirmed} -> Accepted.
func (s Status) Accept() (Status, error) {
	if s != Pending && s != Confirmed {
		return 0, s.conflict(Accepted)
	}
	return Accepted, nil
}

// Reject returns the order to Pending. Allowed from any status except the
// terminal Delivered and Cancelled; the caller clears the rejecting party's
// assignment alongside.
func (s Status) Reject() (Status, error) {
	if s == Delivered || s == Cancelled {
		return 0, s.conflict(Pending)
	}
	return Pending, nil
}

// Pickup transitions Accepted -> PickedUp.
func (s Status) Pickup() (Status, error) {
	if s != Accepted {
		return 0, s.conflict(PickedUp)
	}
	return PickedUp, nil
}

// StartTransit transitions PickedUp -> InTransit.
func (s Status) StartTransit() (Status, error) {
	if s != PickedUp {
		return 0, s.conflict(InTransit)
	}
	return InTransit, nil
}

// Deliver transitions {PickedUp, InTransit} -> Delivered.
func (s Status) Deliver() (Status, error) {
	if s != PickedUp && s != InTransit {
		return 0, s.conflict(Delivered)
	}
	return Delivered, nil
}

// Cancel transitions any non-terminal status -> Cancelled.
func (s Status) Cancel() (Status, error) {
	if s == Delivered || s == Cancelled {
		return 0, s.conflict(Cancelled)
	}
	return Cancelled, nil
}

// IsActiveDelivery reports whether location reports are accepted for an order
// in this status. Tracking points are only recorded while the courier is
// working the order.
func (s Status) IsActiveDelivery() bool {
	return s == Accepted || s == PickedUp || s == InTransit
}
