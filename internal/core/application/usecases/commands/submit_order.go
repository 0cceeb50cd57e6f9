package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/errs"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand creates a new Pending order for a customer.
type SubmitOrderCommand struct {
	customerID      kernel.UUID
	merchantID      *kernel.UUID
	total           kernel.Money
	deliveryAddress string
	isConstructed   bool
}

// NewSubmitOrderCommand validates the order intake fields. The merchant is
// optional at submission and may be attached later.
func NewSubmitOrderCommand(
	customerID kernel.UUID,
	merchantID *kernel.UUID,
	total kernel.Money,
	deliveryAddress string,
) (SubmitOrderCommand, error) {
	if err := customerID.Validate(); err != nil {
		return SubmitOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("customer id", err)
	}
	if merchantID != nil {
		if err := merchantID.Validate(); err != nil {
			return SubmitOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("merchant id", err)
		}
	}
	if total.IsZero() {
		return SubmitOrderCommand{}, errs.NewValueIsRequiredError("order total")
	}
	if deliveryAddress == "" {
		return SubmitOrderCommand{}, errs.NewValueIsRequiredError("delivery address")
	}

	return SubmitOrderCommand{
		customerID:      customerID,
		merchantID:      merchantID,
		total:           total,
		deliveryAddress: deliveryAddress,
		isConstructed:   true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrSubmitOrderCommandIsNotConstructed
	}
	return nil
}

// SubmitOrderCommandHandler creates orders with a unique human-readable
// number. The geocoder is consulted once; a geocoding failure leaves the
// delivery point unset rather than failing the submission.
type SubmitOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	geocoder   ports.Geocoder
}

// NewSubmitOrderCommandHandler creates a handler for order submission.
func NewSubmitOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	geocoder ports.Geocoder,
) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{uowFactory: uowFactory, geocoder: geocoder}
}

// Handle creates the order, retrying with a fresh number on a collision up to
// order.MaxNumberAttempts times.
func (h SubmitOrderCommandHandler) Handle(ctx context.Context, command SubmitOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	var deliveryPoint *kernel.GeoPoint
	if point, err := h.geocoder.Geocode(ctx, command.deliveryAddress); err == nil {
		deliveryPoint = &point
	}

	for attempt := 0; attempt < order.MaxNumberAttempts; attempt++ {
		created, err := h.submitOnce(ctx, command, deliveryPoint)
		if errors.Is(err, errs.ErrStateConflict) {
			continue
		}
		return created, err
	}

	return nil, errs.NewStateConflictError("order",
		"could not allocate a unique order number")
}

func (h SubmitOrderCommandHandler) submitOnce(
	ctx context.Context,
	command SubmitOrderCommand,
	deliveryPoint *kernel.GeoPoint,
) (*order.Order, error) {
	number, err := order.GenerateNumber()
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(kernel.NewUUID(), number, command.customerID,
		command.merchantID, command.total, command.deliveryAddress, deliveryPoint)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
