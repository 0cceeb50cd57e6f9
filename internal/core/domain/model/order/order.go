package order

import (
	"errors"
	"fmt"
	"time"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

// ConfirmationWindow is how long after delivery the customer has to dispute
// before held funds auto-release.
const ConfirmationWindow = 48 * time.Hour

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root for a delivery. It owns the lifecycle state
// machine and the authorization predicate guarding every transition.
//
// Invariants:
//   - Must have a valid identifier, order number, and customer
//   - Total is immutable after creation and strictly positive
//   - confirmationDeadline is set if and only if the order reached Delivered
//   - At most one courier is assigned at a time; isAvailable on the courier
//     profile is flipped by the dispatch coordinator, never here
//   - Status transitions follow the graph defined on Status
//
// The struct uses private fields so every mutation passes through a guarded
// method. Wrong actor fails with a forbidden error before the transition is
// attempted; an illegal transition fails with a state conflict; in both cases
// the aggregate is left unchanged.
type Order struct {
	id                   kernel.UUID
	number               string
	customerID           kernel.UUID
	merchantID           *kernel.UUID
	courierID            *kernel.UUID
	status               Status
	total                kernel.Money
	courierEarnings      kernel.Money
	deliveryAddress      string
	deliveryPoint        *kernel.GeoPoint
	acceptedAt           *time.Time
	pickedUpAt           *time.Time
	deliveredAt          *time.Time
	confirmationDeadline *time.Time
	cancelReason         string
	isConstructed        bool
}

// NewOrder creates a Pending order. The delivery point may be nil when the
// geocoder could not resolve the address; candidate search requires it, so
// such orders stay un-dispatchable until coordinates are supplied.
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	merchantID *kernel.UUID,
	total kernel.Money,
	deliveryAddress string,
	deliveryPoint *kernel.GeoPoint,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerID(customerID),
		o.setMerchantID(merchantID),
		o.setTotal(total),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryPoint(deliveryPoint),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence, including its status,
// assignment, and lifecycle timestamps. The restored aggregate behaves
// identically to one built through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	merchantID *kernel.UUID,
	courierID *kernel.UUID,
	status Status,
	total kernel.Money,
	courierEarnings kernel.Money,
	deliveryAddress string,
	deliveryPoint *kernel.GeoPoint,
	acceptedAt, pickedUpAt, deliveredAt, confirmationDeadline *time.Time,
	cancelReason string,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerID(customerID),
		o.setMerchantID(merchantID),
		o.setTotal(total),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryPoint(deliveryPoint),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
	}

	if (status == Delivered) != (confirmationDeadline != nil) {
		return nil, errs.NewUnrecoverableError("order",
			fmt.Errorf("confirmation deadline presence does not match status %s", status))
	}

	o.courierID = courierID
	o.status = status
	o.courierEarnings = courierEarnings
	o.acceptedAt = acceptedAt
	o.pickedUpAt = pickedUpAt
	o.deliveredAt = deliveredAt
	o.confirmationDeadline = confirmationDeadline
	o.cancelReason = cancelReason
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the human-readable order number.
func (o *Order) Number() string { return o.number }

// Customer returns the identity of the customer who placed the order.
func (o *Order) Customer() kernel.UUID { return o.customerID }

// Merchant returns the assigned merchant, or nil after a merchant rejection.
func (o *Order) Merchant() *kernel.UUID { return o.merchantID }

// Courier returns the assigned courier, or nil when unassigned.
func (o *Order) Courier() *kernel.UUID { return o.courierID }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Total returns the immutable order total.
func (o *Order) Total() kernel.Money { return o.total }

// CourierEarnings returns the courier's payout for this delivery.
func (o *Order) CourierEarnings() kernel.Money { return o.courierEarnings }

// DeliveryAddress returns the free-text delivery address.
func (o *Order) DeliveryAddress() string { return o.deliveryAddress }

// DeliveryPoint returns the delivery coordinate, or nil when unresolved.
func (o *Order) DeliveryPoint() *kernel.GeoPoint { return o.deliveryPoint }

// AcceptedAt returns when the order was accepted, if it was.
func (o *Order) AcceptedAt() *time.Time { return o.acceptedAt }

// PickedUpAt returns when the goods were collected, if they were.
func (o *Order) PickedUpAt() *time.Time { return o.pickedUpAt }

// DeliveredAt returns when delivery was reported, if it was.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// ConfirmationDeadline returns the auto-release deadline, set exactly when
// the order reaches Delivered.
func (o *Order) ConfirmationDeadline() *time.Time { return o.confirmationDeadline }

// CancelReason returns the reason recorded at cancellation.
func (o *Order) CancelReason() string { return o.cancelReason }

// Participants returns the identities that receive realtime events for this
// order: customer, assigned merchant, and assigned courier.
func (o *Order) Participants() []kernel.UUID {
	ids := []kernel.UUID{o.customerID}
	if o.merchantID != nil {
		ids = append(ids, *o.merchantID)
	}
	if o.courierID != nil {
		ids = append(ids, *o.courierID)
	}
	return ids
}

// isCustomer reports whether the actor is the ordering customer.
func (o *Order) isCustomer(by actor.Actor) bool {
	return by.Role() == actor.RoleCustomer && by.Is(o.customerID)
}

// isAssignedMerchant reports whether the actor is the merchant on the order.
func (o *Order) isAssignedMerchant(by actor.Actor) bool {
	return by.Role() == actor.RoleMerchant && o.merchantID != nil && by.Is(*o.merchantID)
}

// isAssignedCourier reports whether the actor is the courier on the order.
func (o *Order) isAssignedCourier(by actor.Actor) bool {
	return by.Role() == actor.RoleCourier && o.courierID != nil && by.Is(*o.courierID)
}

// authorize is the single authorization predicate for order transitions:
// the operation proceeds when any granted capability holds. A wrong actor is
// a forbidden error regardless of whether the transition itself would be legal.
func (o *Order) authorize(by actor.Actor, operation string, granted ...bool) error {
	if err := by.Validate(); err != nil {
		return err
	}

	for _, ok := range granted {
		if ok {
			return nil
		}
	}
	return errs.NewForbiddenError(by.String(), operation+" order "+o.number)
}

// AuthorizeDispatch checks that the actor may assign a courier to this order:
// the customer who placed it, the assigned merchant, or an admin.
func (o *Order) AuthorizeDispatch(by actor.Actor) error {
	return o.authorize(by, "dispatch",
		o.isCustomer(by), o.isAssignedMerchant(by), by.IsAdmin())
}

// Confirm acknowledges a Pending order on behalf of the merchant.
func (o *Order) Confirm(by actor.Actor) error {
	if err := o.authorize(by, "confirm", o.isAssignedMerchant(by), by.IsAdmin()); err != nil {
		return err
	}

	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Accept commits the assigned party to the order. Allowed for the assigned
// merchant, the assigned courier, or an admin while the order is Pending or
// Confirmed.
func (o *Order) Accept(by actor.Actor, at time.Time) error {
	if err := o.authorize(by, "accept",
		o.isAssignedMerchant(by), o.isAssignedCourier(by), by.IsAdmin()); err != nil {
		return err
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	at = at.UTC()
	o.acceptedAt = &at
	return nil
}

// Reject withdraws the rejecting party from the order and returns it to
// Pending. A rejecting courier is unassigned and forfeits earnings; a
// rejecting merchant is cleared from the order. Not allowed once the order
// is Delivered or Cancelled.
func (o *Order) Reject(by actor.Actor) error {
	courierRejects := o.isAssignedCourier(by)
	merchantRejects := o.isAssignedMerchant(by)
	if err := o.authorize(by, "reject", courierRejects, merchantRejects); err != nil {
		return err
	}

	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}

	if courierRejects {
		o.courierID = nil
		o.courierEarnings = kernel.Zero()
		o.acceptedAt = nil
	}
	if merchantRejects {
		o.merchantID = nil
	}
	o.status = newStatus
	return nil
}

// AssignCourier atomically links a courier to the order with the agreed
// earnings and moves it to Accepted. The dispatch coordinator performs the
// courier-availability reservation before calling this.
func (o *Order) AssignCourier(courierID kernel.UUID, earnings kernel.Money, at time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID != nil && !o.courierID.IsEqual(courierID) {
		return errs.NewStateConflictError("order",
			fmt.Sprintf("order %s already has a courier assigned", o.number))
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = &courierID
	o.courierEarnings = earnings
	at = at.UTC()
	o.acceptedAt = &at
	return nil
}

// ClearAssignment removes the courier from the order and returns it to
// Pending. Used when a courier declines a dispatch offer; the caller has
// already verified the courier's identity against the assignment.
func (o *Order) ClearAssignment() error {
	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.courierID = nil
	o.courierEarnings = kernel.Zero()
	o.acceptedAt = nil
	o.status = newStatus
	return nil
}

// Pickup records that the assigned courier collected the goods.
func (o *Order) Pickup(by actor.Actor, at time.Time) error {
	if err := o.authorize(by, "pick up", o.isAssignedCourier(by)); err != nil {
		return err
	}

	newStatus, err := o.status.Pickup()
	if err != nil {
		return err
	}

	o.status = newStatus
	at = at.UTC()
	o.pickedUpAt = &at
	return nil
}

// StartTransit records that the assigned courier is en route.
func (o *Order) StartTransit(by actor.Actor) error {
	if err := o.authorize(by, "start transit for", o.isAssignedCourier(by)); err != nil {
		return err
	}

	newStatus, err := o.status.StartTransit()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Deliver records delivery by the assigned courier and arms the confirmation
// deadline at exactly at + ConfirmationWindow. The escrow auto-release sweep
// consumes the deadline once it passes undisputed.
func (o *Order) Deliver(by actor.Actor, at time.Time) error {
	if err := o.authorize(by, "deliver", o.isAssignedCourier(by)); err != nil {
		return err
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	at = at.UTC()
	o.deliveredAt = &at
	deadline := at.Add(ConfirmationWindow)
	o.confirmationDeadline = &deadline
	return nil
}

// Cancel moves a non-Delivered order to Cancelled. Allowed for the customer,
// an admin, or any assigned party.
func (o *Order) Cancel(by actor.Actor, reason string) error {
	if err := o.authorize(by, "cancel",
		o.isCustomer(by), by.IsAdmin(), o.isAssignedMerchant(by), o.isAssignedCourier(by)); err != nil {
		return err
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.cancelReason = reason
	return nil
}

// MarkCancelled cancels the order without an actor check. Used when the
// dispatch coordinator resolves an assignment with a cancel decision.
func (o *Order) MarkCancelled(reason string) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.cancelReason = reason
	return nil
}

// SetDeliveryPoint stores a late-resolved delivery coordinate.
func (o *Order) SetDeliveryPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	o.deliveryPoint = &point
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customer id", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setMerchantID(merchantID *kernel.UUID) error {
	if merchantID != nil {
		if err := merchantID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("merchant id", err)
		}
	}
	o.merchantID = merchantID
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if total.IsZero() {
		return errs.NewValueIsRequiredError("order total")
	}
	o.total = total
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setDeliveryPoint(point *kernel.GeoPoint) error {
	if point != nil {
		if err := point.Validate(); err != nil {
			return err
		}
	}
	o.deliveryPoint = point
	return nil
}
