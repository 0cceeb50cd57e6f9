package commands

import (
	"context"
	"errors"
	"fmt"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/clock"
	"fastdispatch/internal/pkg/errs"
)

var ErrResolveDisputeCommandIsNotConstructed = errors.New(
	"ResolveDisputeCommand must be created via NewResolveDisputeCommand constructor",
)

// DisputeResolution is the admin's verdict on a disputed escrow.
type DisputeResolution int

const (
	// ResolutionUnknown represents an invalid or undefined value.
	ResolutionUnknown DisputeResolution = iota

	// ResolutionRelease awards the held funds to the payee.
	ResolutionRelease

	// ResolutionRefund returns the held funds to the payer.
	ResolutionRefund
)

// ResolutionFromString parses a wire resolution value.
func ResolutionFromString(s string) (DisputeResolution, error) {
	switch s {
	case "RELEASE":
		return ResolutionRelease, nil
	case "REFUND":
		return ResolutionRefund, nil
	default:
		return ResolutionUnknown, errs.NewValueIsInvalidErrorWithCause("resolution",
			fmt.Errorf("%q is not a valid dispute resolution", s))
	}
}

// Validate checks the resolution is one of the defined values.
func (r DisputeResolution) Validate() error {
	if r != ResolutionRelease && r != ResolutionRefund {
		return errs.NewValueIsInvalidErrorWithCause("resolution",
			fmt.Errorf("%d is not a valid dispute resolution", r))
	}
	return nil
}

// ResolveDisputeCommand settles a disputed escrow one way or the other.
type ResolveDisputeCommand struct {
	orderID       kernel.UUID
	by            actor.Actor
	resolution    DisputeResolution
	isConstructed bool
}

// NewResolveDisputeCommand creates a validated resolution command.
func NewResolveDisputeCommand(
	orderID kernel.UUID,
	by actor.Actor,
	resolution DisputeResolution,
) (ResolveDisputeCommand, error) {
	if err := errors.Join(orderID.Validate(), by.Validate(), resolution.Validate()); err != nil {
		return ResolveDisputeCommand{}, err
	}
	return ResolveDisputeCommand{
		orderID:       orderID,
		by:            by,
		resolution:    resolution,
		isConstructed: true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveDisputeCommand) Validate() error {
	if !c.isConstructed {
		return ErrResolveDisputeCommandIsNotConstructed
	}
	return nil
}

// ResolveDisputeCommandHandler applies an admin verdict to a disputed escrow.
type ResolveDisputeCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	payments   ports.PaymentProcessor
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewResolveDisputeCommandHandler creates a handler for dispute resolution.
func NewResolveDisputeCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	payments ports.PaymentProcessor,
	notifier ports.Notifier,
	clk clock.Clock,
) ResolveDisputeCommandHandler {
	return ResolveDisputeCommandHandler{
		uowFactory: uowFactory,
		payments:   payments,
		notifier:   notifier,
		clk:        clk,
	}
}

// Handle processes the resolution. Admin only; the escrow must currently be
// disputed.
func (h ResolveDisputeCommandHandler) Handle(ctx context.Context, command ResolveDisputeCommand) (*escrow.Escrow, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	if !command.by.IsAdmin() {
		return nil, errs.NewForbiddenError(command.by.String(), "resolve escrow dispute")
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

	if held.Status() != escrow.Disputed {
		return nil, errs.NewStateConflictError("escrow", "escrow is not disputed")
	}

	event := EventEscrowReleased
	if command.resolution == ResolutionRelease {
		err = releaseHeldEscrow(ctx, uow, h.payments, held, h.clk.Now())
	} else {
		event = EventEscrowRefunded
		err = refundHeldEscrow(ctx, uow, held, h.clk.Now())
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyParticipants(h.notifier, aggregate, event, map[string]any{
		"orderNumber": aggregate.Number(),
		"amount":      held.Amount().Float64(),
	})
	return held, nil
}
