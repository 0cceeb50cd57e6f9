package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/clock"
	"fastdispatch/internal/pkg/errs"
)

var ErrDisputeEscrowCommandIsNotConstructed = errors.New(
	"DisputeEscrowCommand must be created via NewDisputeEscrowCommand constructor",
)

// DisputeEscrowCommand freezes held funds pending admin resolution. A
// disputed order is skipped by the auto-release sweep.
type DisputeEscrowCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewDisputeEscrowCommand creates a validated dispute command.
func NewDisputeEscrowCommand(orderID kernel.UUID, by actor.Actor) (DisputeEscrowCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return DisputeEscrowCommand{}, err
	}
	return DisputeEscrowCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c DisputeEscrowCommand) Validate() error {
	if !c.isConstructed {
		return ErrDisputeEscrowCommandIsNotConstructed
	}
	return nil
}

// DisputeEscrowCommandHandler raises a dispute on held funds.
type DisputeEscrowCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewDisputeEscrowCommandHandler creates a handler for disputes.
func NewDisputeEscrowCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) DisputeEscrowCommandHandler {
	return DisputeEscrowCommandHandler{uowFactory: uowFactory, notifier: notifier, clk: clk}
}

// Handle processes the dispute.
func (h DisputeEscrowCommandHandler) Handle(ctx context.Context, command DisputeEscrowCommand) (*escrow.Escrow, error) {
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

	held, err := uow.EscrowRepository().GetByOrder(ctx, command.orderID)
	if err != nil {
		return nil, err
	}
	aggregate, err := uow.OrderRepository().Get(ctx, command.orderID)
	if err != nil {
		return nil, err
	}

	payerDisputes := command.by.Role() == actor.RoleCustomer && command.by.Is(held.Payer())
	if !payerDisputes && !command.by.IsAdmin() {
		return nil, errs.NewForbiddenError(command.by.String(), "dispute escrow")
	}

	previous := held.Status()
	if err = held.Dispute(h.clk.Now()); err != nil {
		return nil, err
	}
	if err = uow.EscrowRepository().UpdateIfStatus(ctx, held, previous); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventEscrowDisputed, map[string]any{
		"orderNumber": aggregate.Number(),
	})
	return held, nil
}
