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

var ErrPickupOrderCommandIsNotConstructed = errors.New(
	"PickupOrderCommand must be created via NewPickupOrderCommand constructor",
)

// PickupOrderCommand records that the assigned courier collected the goods.
type PickupOrderCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewPickupOrderCommand creates a validated pickup command.
func NewPickupOrderCommand(orderID kernel.UUID, by actor.Actor) (PickupOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return PickupOrderCommand{}, err
	}
	return PickupOrderCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c PickupOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrPickupOrderCommandIsNotConstructed
	}
	return nil
}

// PickupOrderCommandHandler moves an Accepted order to PickedUp.
type PickupOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewPickupOrderCommandHandler creates a handler for order pickup.
func NewPickupOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) PickupOrderCommandHandler {
	return PickupOrderCommandHandler{uowFactory: uowFactory, notifier: notifier, clk: clk}
}

// Handle processes the pickup.
func (h PickupOrderCommandHandler) Handle(ctx context.Context, command PickupOrderCommand) (*order.Order, error) {
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
	if err = aggregate.Pickup(command.by, h.clk.Now()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderPickedUp, statusBody(aggregate))
	return aggregate, nil
}
