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

var ErrReleaseEscrowCommandIsNotConstructed = errors.New(
	"ReleaseEscrowCommand must be created via NewReleaseEscrowCommand constructor",
)

// ReleaseEscrowCommand releases held funds to the payee before the
// confirmation deadline. Allowed for the paying customer or an admin; a
// disputed escrow is resolved through ResolveDisputeCommand instead.
type ReleaseEscrowCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	isConstructed bool
}

// NewReleaseEscrowCommand creates a validated release command.
func NewReleaseEscrowCommand(orderID kernel.UUID, by actor.Actor) (ReleaseEscrowCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate()); err != nil {
		return ReleaseEscrowCommand{}, err
	}
	return ReleaseEscrowCommand{orderID: orderID, by: by, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseEscrowCommand) Validate() error {
	if !c.isConstructed {
		return ErrReleaseEscrowCommandIsNotConstructed
	}
	return nil
}

// ReleaseEscrowCommandHandler performs an explicit release. The status write
// is guarded on the row still being Held, so a release racing the sweep loses
// cleanly with a state conflict and no duplicate ledger entry.
type ReleaseEscrowCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	payments   ports.PaymentProcessor
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewReleaseEscrowCommandHandler creates a handler for explicit release.
func NewReleaseEscrowCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	payments ports.PaymentProcessor,
	notifier ports.Notifier,
	clk clock.Clock,
) ReleaseEscrowCommandHandler {
	return ReleaseEscrowCommandHandler{
		uowFactory: uowFactory,
		payments:   payments,
		notifier:   notifier,
		clk:        clk,
	}
}

// Handle processes the release.
func (h ReleaseEscrowCommandHandler) Handle(ctx context.Context, command ReleaseEscrowCommand) (*escrow.Escrow, error) {
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

	payerReleases := command.by.Role() == actor.RoleCustomer && command.by.Is(held.Payer())
	if !payerReleases && !command.by.IsAdmin() {
		return nil, errs.NewForbiddenError(command.by.String(), "release escrow")
	}
	if held.Status() == escrow.Disputed {
		return nil, errs.NewStateConflictError("escrow", "disputed escrow requires admin resolution")
	}

	if err = releaseHeldEscrow(ctx, uow, h.payments, held, h.clk.Now()); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, EventEscrowReleased, map[string]any{
		"orderNumber": aggregate.Number(),
		"amount":      held.Amount().Float64(),
	})
	return held, nil
}

// releaseHeldEscrow moves a Held escrow to Released with a status-guarded
// write, records the ledger credit, and pays the payee out. Shared between
// the explicit release, dispute resolution, and the auto-release sweep; the
// guard makes all of them mutually idempotent.
func releaseHeldEscrow(
	ctx context.Context,
	uow ports.UnitOfWork,
	payments ports.PaymentProcessor,
	held *escrow.Escrow,
	now time.Time,
) error {
	previous := held.Status()
	if err := held.Release(now); err != nil {
		return err
	}
	if err := uow.EscrowRepository().UpdateIfStatus(ctx, held, previous); err != nil {
		return err
	}

	credit, err := escrow.NewTransaction(kernel.NewUUID(), held.ID(), held.OrderID(),
		held.Payee(), held.Amount(), escrow.TransactionCredit, now)
	if err != nil {
		return err
	}
	if err = uow.EscrowRepository().AddTransaction(ctx, credit); err != nil {
		return err
	}

	return payments.Payout(ctx, held.Payee(), held.Amount(), "escrow release "+held.OrderID().String())
}
