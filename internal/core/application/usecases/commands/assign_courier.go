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

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// EarningsSharePercent is the courier's cut of the order total, added to the
// platform base rate when no explicit earnings figure is supplied.
const EarningsSharePercent = 10.0

// AssignCourierCommand binds a chosen courier to an order. Earnings may be
// supplied explicitly; otherwise they are computed from the base rate and the
// order total.
type AssignCourierCommand struct {
	orderID       kernel.UUID
	courierID     kernel.UUID
	by            actor.Actor
	earnings      *kernel.Money
	isConstructed bool
}

// NewAssignCourierCommand creates a validated assignment command.
func NewAssignCourierCommand(
	orderID, courierID kernel.UUID,
	by actor.Actor,
	earnings *kernel.Money,
) (AssignCourierCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate(), by.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}
	return AssignCourierCommand{
		orderID:       orderID,
		courierID:     courierID,
		by:            by,
		earnings:      earnings,
		isConstructed: true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignCourierCommand) Validate() error {
	if !c.isConstructed {
		return ErrAssignCourierCommandIsNotConstructed
	}
	return nil
}

// AssignCourierCommandHandler performs the dispatch: it reserves the courier
// with a conditional availability flip, mutates the order, and commits both
// in one transaction. When two dispatchers race for the same courier, the
// reservation update matches zero rows for the loser, who receives a state
// conflict while the winner's assignment stands.
type AssignCourierCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	clk        clock.Clock
	baseRate   kernel.Money
}

// NewAssignCourierCommandHandler creates a handler for courier assignment.
// baseRate is the flat per-delivery component of courier earnings.
func NewAssignCourierCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	baseRate kernel.Money,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clk:        clk,
		baseRate:   baseRate,
	}
}

// Handle processes the assignment. The offer notification to the courier is
// fired after commit; its failure never rolls the assignment back.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, command AssignCourierCommand) (*order.Order, error) {
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
	if err = aggregate.AuthorizeDispatch(command.by); err != nil {
		return nil, err
	}

	earnings := h.baseRate.Add(aggregate.Total().Percent(EarningsSharePercent))
	if command.earnings != nil {
		earnings = *command.earnings
	}

	previous := aggregate.Status()
	if err = aggregate.AssignCourier(command.courierID, earnings, h.clk.Now()); err != nil {
		return nil, err
	}

	// Commit-time re-check of the courier's eligibility. A raced courier
	// yields ErrStateConflict here and the whole transaction unwinds.
	if err = uow.CourierRepository().Reserve(ctx, command.courierID); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, previous); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Publish(ports.Notification{
		Recipients: []kernel.UUID{command.courierID},
		Event:      EventAssignmentOffered,
		OrderID:    aggregate.ID(),
		Body: map[string]any{
			"orderNumber":     aggregate.Number(),
			"deliveryAddress": aggregate.DeliveryAddress(),
			"earnings":        earnings.Float64(),
		},
	})
	return aggregate, nil
}
