package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/ports"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand withdraws the rejecting merchant or courier from the
// order and returns it to Pending.
type RejectOrderCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewRejectOrderCommand creates a validated rejection command.
func NewRejectOrderCommand(orderID kernel.UUID, by actor.Actor) (RejectOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return RejectOrderCommand{}, err
	}
	return RejectOrderCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrRejectOrderCommandIsNotConstructed
	}
	return nil
}

// RejectOrderCommandHandler returns a rejected order to Pending. A rejecting
// courier is released back into the available pool in the same transaction.
type RejectOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
}

// NewRejectOrderCommandHandler creates a handler for order rejection.
func NewRejectOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

// Handle processes the rejection.
func (h RejectOrderCommandHandler) Handle(ctx context.Context, command RejectOrderCommand) (*order.Order, error) {
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
	assignedCourier := aggregate.Courier()
	if err = aggregate.Reject(command.by); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}

	// A courier rejection frees the courier for the next dispatch.
	if assignedCourier != nil && aggregate.Courier() == nil {
		if err = uow.CourierRepository().Free(ctx, *assignedCourier); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventOrderRejected, statusBody(aggregate))
	return aggregate, nil
}
