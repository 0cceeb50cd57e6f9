package commands

import (
	"context"
	"errors"
	"log/slog"

	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/clock"
	"fastdispatch/internal/pkg/errs"
)

var ErrReleaseDueEscrowsCommandIsNotConstructed = errors.New(
	"ReleaseDueEscrowsCommand must be created via NewReleaseDueEscrowsCommand constructor",
)

// ReleaseDueEscrowsCommand triggers one sweep over escrows whose order was
// delivered and whose confirmation deadline has passed undisputed.
type ReleaseDueEscrowsCommand struct {
	isConstructed bool
}

// NewReleaseDueEscrowsCommand creates a sweep trigger.
func NewReleaseDueEscrowsCommand() ReleaseDueEscrowsCommand {
	return ReleaseDueEscrowsCommand{isConstructed: true}
}

// Validate ensures the command was created through the constructor.
func (c ReleaseDueEscrowsCommand) Validate() error {
	if !c.isConstructed {
		return ErrReleaseDueEscrowsCommandIsNotConstructed
	}
	return nil
}

// ReleaseDueEscrowsCommandHandler is the auto-release sweep. Each due escrow
// is released in its own transaction so one failure never aborts the tick for
// the others; a failed release is simply retried on the next tick. An escrow
// released by a foreground request between selection and the guarded write
// loses the race and is skipped without a duplicate ledger entry.
type ReleaseDueEscrowsCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	payments   ports.PaymentProcessor
	notifier   ports.Notifier
	clk        clock.Clock
	logger     *slog.Logger
}

// NewReleaseDueEscrowsCommandHandler creates the sweep handler.
func NewReleaseDueEscrowsCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	payments ports.PaymentProcessor,
	notifier ports.Notifier,
	clk clock.Clock,
	logger *slog.Logger,
) ReleaseDueEscrowsCommandHandler {
	return ReleaseDueEscrowsCommandHandler{
		uowFactory: uowFactory,
		payments:   payments,
		notifier:   notifier,
		clk:        clk,
		logger:     logger.With("component", "escrow-sweep"),
	}
}

// Handle performs one sweep and returns how many escrows were released.
func (h ReleaseDueEscrowsCommandHandler) Handle(ctx context.Context, command ReleaseDueEscrowsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	due, err := h.selectDue(ctx)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, held := range due {
		if err := h.releaseOne(ctx, held); err != nil {
			if errors.Is(err, errs.ErrStateConflict) {
				// Resolved by a foreground request since selection.
				continue
			}
			h.logger.Error("escrow release failed",
				"order_id", held.OrderID().String(), "error", err)
			continue
		}
		released++
	}

	if released > 0 {
		h.logger.Info("sweep released escrows", "count", released, "due", len(due))
	}
	return released, nil
}

func (h ReleaseDueEscrowsCommandHandler) selectDue(ctx context.Context) ([]*escrow.Escrow, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.EscrowRepository().GetDueForRelease(ctx, h.clk.Now())
}

func (h ReleaseDueEscrowsCommandHandler) releaseOne(ctx context.Context, held *escrow.Escrow) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, held.OrderID())
	if err != nil {
		return err
	}

	if err = releaseHeldEscrow(ctx, uow, h.payments, held, h.clk.Now()); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notifyParticipants(h.notifier, aggregate, EventEscrowReleased, map[string]any{
		"orderNumber": aggregate.Number(),
		"amount":      held.Amount().Float64(),
	})
	return nil
}
