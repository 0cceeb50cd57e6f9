package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/ports"
)

var ErrStartTransitCommandIsNotConstructed = errors.New(
	"StartTransitCommand must be created via NewStartTransitCommand constructor",
)

// StartTransitCommand records that the assigned courier is en route to the
// delivery address.
type StartTransitCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewStartTransitCommand creates a validated transit command.
func NewStartTransitCommand(orderID kernel.UUID, by actor.Actor) (StartTransitCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return StartTransitCommand{}, err
	}
	return StartTransitCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c StartTransitCommand) Validate() error {
	if !c.isConstructed {
		return ErrStartTransitCommandIsNotConstructed
	}
	return nil
}

// StartTransitCommandHandler moves a PickedUp order to InTransit.
type StartTransitCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
}

// NewStartTransitCommandHandler creates a handler for the transit step.
func NewStartTransitCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
) StartTransitCommandHandler {
	return StartTransitCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

// Handle processes the transit start.
func (h StartTransitCommandHandler) Handle(ctx context.Context, command StartTransitCommand) (*order.Order, error) {
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
	if err = aggregate.StartTransit(command.by); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderInTransit, statusBody(aggregate))
	return aggregate, nil
}
