package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/ports"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand acknowledges a Pending order on behalf of the merchant.
type ConfirmOrderCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewConfirmOrderCommand creates a validated confirmation command.
func NewConfirmOrderCommand(orderID kernel.UUID, by actor.Actor) (ConfirmOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return ConfirmOrderCommand{}, err
	}
	return ConfirmOrderCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrConfirmOrderCommandIsNotConstructed
	}
	return nil
}

// ConfirmOrderCommandHandler moves a Pending order to Confirmed.
type ConfirmOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation.
func NewConfirmOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

// Handle processes the confirmation.
func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, command ConfirmOrderCommand) (*order.Order, error) {
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
	if err = aggregate.Confirm(command.by); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderConfirmed, statusBody(aggregate))
	return aggregate, nil
}
