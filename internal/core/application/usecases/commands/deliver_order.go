package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/clock"
)

var ErrDeliverOrderCommandIsNotConstructed = errors.New(
	"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
)

// DeliverOrderCommand records delivery by the assigned courier. Delivery arms
// the confirmation deadline consumed by the escrow release sweep.
type DeliverOrderCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewDeliverOrderCommand creates a validated delivery command.
func NewDeliverOrderCommand(orderID kernel.UUID, by actor.Actor) (DeliverOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return DeliverOrderCommand{}, err
	}
	return DeliverOrderCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeliverOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrDeliverOrderCommandIsNotConstructed
	}
	return nil
}

// DeliverOrderCommandHandler moves the order to Delivered, stamps the
// confirmation deadline, credits the courier's completed-delivery count, and
// frees them for the next assignment.
type DeliverOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewDeliverOrderCommandHandler creates a handler for delivery confirmation.
func NewDeliverOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{uowFactory: uowFactory, notifier: notifier, clk: clk}
}

// Handle processes the delivery.
func (h DeliverOrderCommandHandler) Handle(ctx context.Context, command DeliverOrderCommand) (*order.Order, error) {
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
	if err = aggregate.Deliver(command.by, h.clk.Now()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}

	if courierID := aggregate.Courier(); courierID != nil {
		profile, err := uow.CourierRepository().Get(ctx, *courierID)
		if err != nil {
			return nil, err
		}
		profile.CompleteDelivery()
		if err = uow.CourierRepository().Update(ctx, profile); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderDelivered, map[string]any{
		"orderNumber":          aggregate.Number(),
		"status":               aggregate.Status().String(),
		"confirmationDeadline": aggregate.ConfirmationDeadline(),
	})
	return aggregate, nil
}
