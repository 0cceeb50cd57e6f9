package commands

import (
	"context"
	"errors"
	"time"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/clock"
	"fastdispatch/internal/pkg/errs"
)

var ErrRefundEscrowCommandIsNotConstructed = errors.New(
	"RefundEscrowCommand must be created via NewRefundEscrowCommand constructor",
)

// RefundEscrowCommand returns held funds to the payer. Allowed for the paying
// customer or an admin; a disputed escrow is resolved through
// ResolveDisputeCommand instead.
type RefundEscrowCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewRefundEscrowCommand creates a validated refund command.
func NewRefundEscrowCommand(orderID kernel.UUID, by actor.Actor) (RefundEscrowCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return RefundEscrowCommand{}, err
	}
	return RefundEscrowCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c RefundEscrowCommand) Validate() error {
	if !c.isConstructed {
		return ErrRefundEscrowCommandIsNotConstructed
	}
	return nil
}

// RefundEscrowCommandHandler moves held funds back to the payer with a
// status-guarded write and a ledger entry. The monetary reversal itself is
// executed by the card processor against the original charge.
type RefundEscrowCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewRefundEscrowCommandHandler creates a handler for refunds.
func NewRefundEscrowCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) RefundEscrowCommandHandler {
	return RefundEscrowCommandHandler{uowFactory: uowFactory, notifier: notifier, clk: clk}
}

// Handle processes the refund.
func (h RefundEscrowCommandHandler) Handle(ctx context.Context, command RefundEscrowCommand) (*escrow.Escrow, error) {
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

	payerRefunds := command.by.Role() == actor.RoleCustomer && command.by.Is(held.Payer())
	if !payerRefunds && !command.by.IsAdmin() {
		return nil, errs.NewForbiddenError(command.by.String(), "refund escrow")
	}
	if held.Status() == escrow.Disputed {
		return nil, errs.NewStateConflictError("escrow", "disputed escrow requires admin resolution")
	}

	if err = refundHeldEscrow(ctx, uow, held, h.clk.Now()); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventEscrowRefunded, map[string]any{
		"orderNumber": aggregate.Number(),
		"amount":      held.Amount().Float64(),
	})
	return held, nil
}

// refundHeldEscrow moves the escrow to Refunded with a status-guarded write
// and records the ledger entry returning the amount to the payer.
func refundHeldEscrow(
	ctx context.Context,
	uow ports.UnitOfWork,
	held *escrow.Escrow,
	now time.Time,
) error {
	previous := held.Status()
	if err := held.Refund(now); err != nil {
		return err
	}
	if err := uow.EscrowRepository().UpdateIfStatus(ctx, held, previous); err != nil {
		return err
	}

	entry, err := escrow.NewTransaction(kernel.NewUUID(), held.ID(), held.OrderID(),
		held.Payer(), held.Amount(), escrow.TransactionRefund, now)
	if err != nil {
		return err
	}
	return uow.EscrowRepository().AddTransaction(ctx, entry)
}
