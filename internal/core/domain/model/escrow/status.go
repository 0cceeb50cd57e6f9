package escrow

import (
	"fmt"

	"fastdispatch/internal/pkg/errs"
)

// Status represents the state of escrowed funds for one order.
//
//	Held ──┬──> Released   (explicit release, or the auto-release sweep)
//	       ├──> Refunded
//	       └──> Disputed ──┬──> Released   (admin resolution)
//	                       └──> Refunded
//
// Released and Refunded are terminal: no transition out of them ever
// succeeds. Disputed suspends the auto-release sweep for the order until an
// admin resolves it.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Held is the initial state, created when the payment processor
	// confirms the customer's payment.
	Held

	// Released means the funds were paid out to the payee. Terminal.
	Released

	// Refunded means the funds were returned to the payer. Terminal.
	Refunded

	// Disputed means the customer raised a dispute; the sweep skips the
	// order until an admin resolves it.
	Disputed
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "UNKNOWN",
		Held:     "HELD",
		Released: "RELEASED",
		Refunded: "REFUNDED",
		Disputed: "DISPUTED",
	}
}

// String returns the wire/persistence name of the status.
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
	return Unknown, errs.NewValueIsInvalidErrorWithCause("escrow status",
		fmt.Errorf("%q is not a valid escrow status", s))
}

// Validate checks the status is one of the defined values.
func (s Status) Validate() error {
	if s < Held || s > Disputed {
		return errs.NewValueIsInvalidErrorWithCause("escrow status",
			fmt.Errorf("%d is not a valid escrow status", s))
	}
	return nil
}

func (s Status) conflict(target Status) error {
	return errs.NewStateConflictError("escrow",
		fmt.Sprintf("cannot transition from %s to %s", s, target))
}

// Release transitions {Held, Disputed} -> Released.
func (s Status) Release() (Status, error) {
	if s != Held && s != Disputed {
		return 0, s.conflict(Released)
	}
	return Released, nil
}

// Refund transitions {Held, Disputed} -> Refunded.
func (s Status) Refund() (Status, error) {
	if s != Held && s != Disputed {
		return 0, s.conflict(Refunded)
	}
	return Refunded, nil
}

// Dispute transitions Held -> Disputed.
func (s Status) Dispute() (Status, error) {
	if s != Held {
		return 0, s.conflict(Disputed)
	}
	return Disputed, nil
}

// IsTerminal reports whether no further transition can succeed.
func (s Status) IsTerminal() bool {
	return s == Released || s == Refunded
}
