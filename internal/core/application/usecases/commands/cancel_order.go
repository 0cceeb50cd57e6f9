package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/errs"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels a non-Delivered order with a recorded reason.
type CancelOrderCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	reason        string
	isConstructed bool
}

// NewCancelOrderCommand creates a validated cancellation command.
func NewCancelOrderCommand(orderID kernel.UUID, by actor.Actor, reason string) (CancelOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}
	if reason == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("cancellation reason")
	}
	return CancelOrderCommand{orderID: orderID, by: by, reason: reason, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrCancelOrderCommandIsNotConstructed
	}
	return nil
}

// CancelOrderCommandHandler cancels an order and frees the assigned courier,
// if any. Held funds are not touched here; refunds are an explicit escrow
// operation.
type CancelOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

// Handle processes the cancellation.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (*order.Order, error) {
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

	previous := aggregate.Status()
	if err = aggregate.Cancel(command.by, command.reason); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}

	if courierID := aggregate.Courier(); courierID != nil {
		if err = uow.CourierRepository().Free(ctx, *courierID); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderCancelled, map[string]any{
		"orderNumber": aggregate.Number(),
		"status":      aggregate.Status().String(),
		"reason":      aggregate.CancelReason(),
	})
	return aggregate, nil
}
