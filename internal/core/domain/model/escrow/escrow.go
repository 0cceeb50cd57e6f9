// Package escrow contains the Escrow aggregate: funds held by the platform on
// behalf of a payer until a release condition (confirmed delivery or elapsed
// confirmation deadline) triggers payout to the payee. The amount is fixed at
// creation; only the status and resolution timestamps ever change.
package escrow

import (
	"errors"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

// ErrEscrowIsNotConstructed is returned when an Escrow instance was not
// created through NewEscrow or RestoreEscrow.
var ErrEscrowIsNotConstructed = errors.New("Escrow must be created via NewEscrow or RestoreEscrow")

// Escrow is the aggregate for one order's held funds.
//
// Invariants:
//   - amount equals the order total at creation and never changes
//   - Released and Refunded are terminal
//   - the concurrent release race (scheduler vs explicit caller) is decided
//     by the persistence layer's conditional update, not here; this aggregate
//     only encodes which transitions are legal
type Escrow struct {
	id            kernel.UUID
	orderID       kernel.UUID
	payerID       kernel.UUID
	payeeID       kernel.UUID
	amount        kernel.Money
	status        Status
	releasedAt    *time.Time
	refundedAt    *time.Time
	disputedAt    *time.Time
	isConstructed bool
}

// NewEscrow creates a Held escrow for an order. Called once the external
// payment processor verifies the customer's payment; amount must equal the
// order total, which the calling handler asserts.
func NewEscrow(id, orderID, payerID, payeeID kernel.UUID, amount kernel.Money) (*Escrow, error) {
	e := &Escrow{
		status:        Held,
		isConstructed: true,
	}

	if err := errors.Join(
		e.setID(id),
		e.setOrderID(orderID),
		e.setPayerID(payerID),
		e.setPayeeID(payeeID),
		e.setAmount(amount),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// RestoreEscrow reconstructs an Escrow aggregate from persistence.
func RestoreEscrow(
	id, orderID, payerID, payeeID kernel.UUID,
	amount kernel.Money,
	status Status,
	releasedAt, refundedAt, disputedAt *time.Time,
) (*Escrow, error) {
	e := &Escrow{isConstructed: true}

	if err := errors.Join(
		e.setID(id),
		e.setOrderID(orderID),
		e.setPayerID(payerID),
		e.setPayeeID(payeeID),
		e.setAmount(amount),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	e.status = status
	e.releasedAt = releasedAt
	e.refundedAt = refundedAt
	e.disputedAt = disputedAt
	return e, nil
}

// Validate ensures the Escrow was created through a constructor.
func (e *Escrow) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEscrowIsNotConstructed
	}
	return nil
}

// ID returns the escrow's unique identifier.
func (e *Escrow) ID() kernel.UUID { return e.id }

// OrderID returns the order whose funds are held.
func (e *Escrow) OrderID() kernel.UUID { return e.orderID }

// Payer returns the party whose funds are held (the customer).
func (e *Escrow) Payer() kernel.UUID { return e.payerID }

// Payee returns the party credited on release (the merchant).
func (e *Escrow) Payee() kernel.UUID { return e.payeeID }

// Amount returns the held amount. Immutable after creation.
func (e *Escrow) Amount() kernel.Money { return e.amount }

// Status returns the current funds state.
func (e *Escrow) Status() Status { return e.status }

// ReleasedAt returns when the funds were released, if they were.
func (e *Escrow) ReleasedAt() *time.Time { return e.releasedAt }

// RefundedAt returns when the funds were refunded, if they were.
func (e *Escrow) RefundedAt() *time.Time { return e.refundedAt }

// DisputedAt returns when a dispute was raised, if one was.
func (e *Escrow) DisputedAt() *time.Time { return e.disputedAt }

// Release pays the funds out to the payee. Legal from Held (explicit release
// or the sweep) and from Disputed (admin resolution).
func (e *Escrow) Release(at time.Time) error {
	newStatus, err := e.status.Release()
	if err != nil {
		return err
	}

	e.status = newStatus
	at = at.UTC()
	e.releasedAt = &at
	return nil
}

// Refund returns the funds to the payer. Legal from Held and from Disputed.
func (e *Escrow) Refund(at time.Time) error {
	newStatus, err := e.status.Refund()
	if err != nil {
		return err
	}

	e.status = newStatus
	at = at.UTC()
	e.refundedAt = &at
	return nil
}

// Dispute suspends auto-release for the order until an admin resolves it.
func (e *Escrow) Dispute(at time.Time) error {
	newStatus, err := e.status.Dispute()
	if err != nil {
		return err
	}

	e.status = newStatus
	at = at.UTC()
	e.disputedAt = &at
	return nil
}

func (e *Escrow) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Escrow) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	e.orderID = orderID
	return nil
}

func (e *Escrow) setPayerID(payerID kernel.UUID) error {
	if err := payerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payer id", err)
	}
	e.payerID = payerID
	return nil
}

func (e *Escrow) setPayeeID(payeeID kernel.UUID) error {
	if err := payeeID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payee id", err)
	}
	e.payeeID = payeeID
	return nil
}

func (e *Escrow) setAmount(amount kernel.Money) error {
	if amount.IsZero() {
		return errs.NewValueIsRequiredError("escrow amount")
	}
	e.amount = amount
	return nil
}
