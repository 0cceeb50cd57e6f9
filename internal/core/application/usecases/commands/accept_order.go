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

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand commits the assigned merchant or courier to the order.
type AcceptOrderCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewAcceptOrderCommand creates a validated acceptance command.
func NewAcceptOrderCommand(orderID kernel.UUID, by actor.Actor) (AcceptOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return AcceptOrderCommand{}, err
	}
	return AcceptOrderCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrAcceptOrderCommandIsNotConstructed
	}
	return nil
}

// AcceptOrderCommandHandler moves an order to Accepted and stamps acceptedAt.
type AcceptOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewAcceptOrderCommandHandler creates a handler for order acceptance.
func NewAcceptOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{uowFactory: uowFactory, notifier: notifier, clk: clk}
}

// Handle processes the acceptance.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, command AcceptOrderCommand) (*order.Order, error) {
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
	if err = aggregate.Accept(command.by, h.clk.Now()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderAccepted, statusBody(aggregate))
	return aggregate, nil
}
