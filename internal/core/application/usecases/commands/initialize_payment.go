package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/errs"
)

var ErrInitializePaymentCommandIsNotConstructed = errors.New(
	"InitializePaymentCommand must be created via NewInitializePaymentCommand constructor",
)

// InitializePaymentCommand opens a checkout session for an order with the
// card processor. The order number doubles as the payment reference.
type InitializePaymentCommand struct {
	orderID       kernel.UUID
	email         string
	isConstructed bool
}

// NewInitializePaymentCommand creates a validated checkout command.
func NewInitializePaymentCommand(orderID kernel.UUID, email string) (InitializePaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return InitializePaymentCommand{}, err
	}
	if email == "" {
		return InitializePaymentCommand{}, errs.NewValueIsRequiredError("email")
	}
	return InitializePaymentCommand{orderID: orderID, email: email, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c InitializePaymentCommand) Validate() error {
	if !c.isConstructed {
		return ErrInitializePaymentCommandIsNotConstructed
	}
	return nil
}

// InitializePaymentCommandHandler starts the checkout flow and returns the
// authorization URL the customer completes payment on. Nothing is persisted;
// escrow is only created once the processor confirms the charge.
type InitializePaymentCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	payments   ports.PaymentProcessor
}

// NewInitializePaymentCommandHandler creates a handler for checkout sessions.
func NewInitializePaymentCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	payments ports.PaymentProcessor,
) InitializePaymentCommandHandler {
	return InitializePaymentCommandHandler{uowFactory: uowFactory, payments: payments}
}

// Handle opens the session and returns the authorization URL.
func (h InitializePaymentCommandHandler) Handle(ctx context.Context, command InitializePaymentCommand) (string, error) {
	if err := command.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, command.orderID)
	if err != nil {
		return "", err
	}

	return h.payments.Initialize(ctx, aggregate.Number(), command.email, aggregate.Total())
}
