package commands

import (
	"context"
	"errors"
	"fmt"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/domain/model/tracking"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/clock"
	"fastdispatch/internal/pkg/errs"
)

var ErrRespondAssignmentCommandIsNotConstructed = errors.New(
	"RespondAssignmentCommand must be created via NewRespondAssignmentCommand constructor",
)

// AssignmentDecision is the courier's answer to a dispatch offer.
type AssignmentDecision int

const (
	// DecisionUnknown represents an invalid or undefined value.
	DecisionUnknown AssignmentDecision = iota

	// DecisionAccepted confirms the courier takes the delivery.
	DecisionAccepted

	// DecisionRejected declines the offer; the order returns to Pending.
	DecisionRejected

	// DecisionCancelled cancels the order outright.
	DecisionCancelled
)

// DecisionFromString parses a wire decision value.
func DecisionFromString(s string) (AssignmentDecision, error) {
	switch s {
	case "ACCEPTED":
		return DecisionAccepted, nil
	case "REJECTED":
		return DecisionRejected, nil
	case "CANCELLED":
		return DecisionCancelled, nil
	default:
		return DecisionUnknown, errs.NewValueIsInvalidErrorWithCause("decision",
			fmt.Errorf("%q is not a valid assignment decision", s))
	}
}

// String returns the wire name of the decision.
func (d AssignmentDecision) String() string {
	switch d {
	case DecisionAccepted:
		return "ACCEPTED"
	case DecisionRejected:
		return "REJECTED"
	case DecisionCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Validate checks the decision is one of the defined values.
func (d AssignmentDecision) Validate() error {
	if d < DecisionAccepted || d > DecisionCancelled {
		return errs.NewValueIsInvalidErrorWithCause("decision",
			fmt.Errorf("%d is not a valid assignment decision", d))
	}
	return nil
}

// RespondAssignmentCommand carries a courier's answer to a dispatch offer.
type RespondAssignmentCommand struct {
	orderID       kernel.UUID
	courierID     kernel.UUID
	decision      AssignmentDecision
	isConstructed bool
}

// NewRespondAssignmentCommand creates a validated response command.
func NewRespondAssignmentCommand(
	orderID, courierID kernel.UUID,
	decision AssignmentDecision,
) (RespondAssignmentCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate(), decision.Validate()); err != nil {
		return RespondAssignmentCommand{}, err
	}
	return RespondAssignmentCommand{
		orderID:       orderID,
		courierID:     courierID,
		decision:      decision,
		isConstructed: true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RespondAssignmentCommand) Validate() error {
	if !c.isConstructed {
		return ErrRespondAssignmentCommandIsNotConstructed
	}
	return nil
}

// RespondAssignmentCommandHandler resolves a dispatch offer. The operation is
// idempotent: a repeated response for an assignment that is already resolved
// returns the current order unchanged, so client retries over flaky networks
// are harmless. Resolution of an acceptance is detected by the presence of
// the initial tracking point; resolution of a rejection or cancellation by
// the courier no longer being on the order.
type RespondAssignmentCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewRespondAssignmentCommandHandler creates a handler for offer responses.
func NewRespondAssignmentCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) RespondAssignmentCommandHandler {
	return RespondAssignmentCommandHandler{uowFactory: uowFactory, notifier: notifier, clk: clk}
}

// Handle processes the courier's response.
func (h RespondAssignmentCommandHandler) Handle(ctx context.Context, command RespondAssignmentCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, command.orderID)
	if err != nil {
		return nil, err
	}

	// The courier is no longer on the order: the assignment was already
	// resolved (or reassigned). Report the current state unchanged.
	if aggregate.Courier() == nil || !aggregate.Courier().IsEqual(command.courierID) {
		return aggregate, nil
	}

	switch command.decision {
	case DecisionAccepted:
		return h.accept(ctx, uow, aggregate, command.courierID)
	case DecisionRejected:
		return h.reject(ctx, uow, aggregate, command.courierID)
	case DecisionCancelled:
		return h.cancel(ctx, uow, aggregate, command.courierID)
	default:
		return nil, command.decision.Validate()
	}
}

// accept keeps the order Accepted and writes the single initial tracking
// point from the courier's last known location.
func (h RespondAssignmentCommandHandler) accept(
	ctx context.Context,
	uow ports.UnitOfWork,
	aggregate *order.Order,
	courierID kernel.UUID,
) (*order.Order, error) {
	alreadyAccepted, err := uow.TrackingRepository().HasInitialPoint(ctx, aggregate.ID())
	if err != nil {
		return nil, err
	}
	if alreadyAccepted {
		return aggregate, nil
	}

	profile, err := uow.CourierRepository().Get(ctx, courierID)
	if err != nil {
		return nil, err
	}

	// No known location yet: nothing to record, the acceptance stands and a
	// later retry with a location writes the point.
	if profile.Location() != nil {
		point, err := tracking.NewPoint(kernel.NewUUID(), aggregate.ID(), courierID,
			*profile.Location(), tracking.InitialPointLabel, h.clk.Now())
		if err != nil {
			return nil, err
		}
		if err = uow.TrackingRepository().Add(ctx, point); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventAssignmentAccepted, statusBody(aggregate))
	return aggregate, nil
}

// reject clears the assignment, returns the order to Pending, and frees the
// courier.
func (h RespondAssignmentCommandHandler) reject(
	ctx context.Context,
	uow ports.UnitOfWork,
	aggregate *order.Order,
	courierID kernel.UUID,
) (*order.Order, error) {
	previous := aggregate.Status()
	if err := aggregate.ClearAssignment(); err != nil {
		return nil, err
	}

	if err := uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}
	if err := uow.CourierRepository().Free(ctx, courierID); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderRejected, statusBody(aggregate))
	return aggregate, nil
}

// cancel moves the order to Cancelled and frees the courier.
func (h RespondAssignmentCommandHandler) cancel(
	ctx context.Context,
	uow ports.UnitOfWork,
	aggregate *order.Order,
	courierID kernel.UUID,
) (*order.Order, error) {
	previous := aggregate.Status()
	if err := aggregate.MarkCancelled("assignment cancelled by courier"); err != nil {
		return nil, err
	}

	if err := uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}
	if err := uow.CourierRepository().Free(ctx, courierID); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderCancelled, statusBody(aggregate))
	return aggregate, nil
}
