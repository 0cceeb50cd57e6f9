package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/errs"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand verifies a charge with the processor and, on success,
// places the order total in escrow.
type ConfirmPaymentCommand struct {
	orderID       kernel.UUID
	reference     string
	isConstructed bool
}

// NewConfirmPaymentCommand creates a validated payment confirmation.
func NewConfirmPaymentCommand(orderID kernel.UUID, reference string) (ConfirmPaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmPaymentCommand{}, err
	}
	if reference == "" {
		return ConfirmPaymentCommand{}, errs.NewValueIsRequiredError("payment reference")
	}
	return ConfirmPaymentCommand{orderID: orderID, reference: reference, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPaymentCommand) Validate() error {
	if !c.isConstructed {
		return ErrConfirmPaymentCommandIsNotConstructed
	}
	return nil
}

// ConfirmPaymentCommandHandler creates the Held escrow for a verified charge.
// The command is the webhook/redirect target of the checkout flow and is
// idempotent: when the order already holds funds, the existing escrow is
// returned untouched.
type ConfirmPaymentCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	payments   ports.PaymentProcessor
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmation.
func NewConfirmPaymentCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	payments ports.PaymentProcessor,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{uowFactory: uowFactory, payments: payments}
}

// Handle verifies the charge and opens the escrow.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, command ConfirmPaymentCommand) (*escrow.Escrow, error) {
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

	existing, err := uow.EscrowRepository().GetByOrder(ctx, command.orderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	if aggregate.Merchant() == nil {
		return nil, errs.NewStateConflictError("order",
			"no merchant on order to receive held funds")
	}

	settled, err := h.payments.Verify(ctx, command.reference)
	if err != nil {
		return nil, err
	}
	if !settled.IsEqual(aggregate.Total()) {
		return nil, errs.NewStateConflictError("payment",
			"settled amount does not match order total")
	}

	held, err := escrow.NewEscrow(kernel.NewUUID(), aggregate.ID(),
		aggregate.Customer(), *aggregate.Merchant(), aggregate.Total())
	if err != nil {
		return nil, err
	}

	if err = uow.EscrowRepository().Add(ctx, held); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return held, nil
}
