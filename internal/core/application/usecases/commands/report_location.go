package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/tracking"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/clock"
	"fastdispatch/internal/pkg/errs"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// ReportLocationCommand records a courier position report against an order.
type ReportLocationCommand struct {
	orderID       kernel.UUID
	courierID     kernel.UUID
	coordinate    kernel.GeoPoint
	isConstructed bool
}

// NewReportLocationCommand creates a validated location report.
func NewReportLocationCommand(
	orderID, courierID kernel.UUID,
	coordinate kernel.GeoPoint,
) (ReportLocationCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate(), coordinate.Validate()); err != nil {
		return ReportLocationCommand{}, err
	}
	return ReportLocationCommand{
		orderID:       orderID,
		courierID:     courierID,
		coordinate:    coordinate,
		isConstructed: true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportLocationCommand) Validate() error {
	if !c.isConstructed {
		return ErrReportLocationCommandIsNotConstructed
	}
	return nil
}

// ReportLocationCommandHandler updates the courier's last known position and,
// while the order is in active delivery, appends a tracking point labelled
// with the current order status. Every report fans out to the order's
// participants in real time.
type ReportLocationCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	clk        clock.Clock
}

// NewReportLocationCommandHandler creates a handler for location reports.
func NewReportLocationCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{uowFactory: uowFactory, notifier: notifier, clk: clk}
}

// Handle processes the location report.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, command ReportLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, command.orderID)
	if err != nil {
		return err
	}
	if aggregate.Courier() == nil || !aggregate.Courier().IsEqual(command.courierID) {
		return errs.NewForbiddenError(command.courierID.String(),
			"report location for order "+aggregate.Number())
	}

	profile, err := uow.CourierRepository().Get(ctx, command.courierID)
	if err != nil {
		return err
	}

	now := h.clk.Now()
	if err = profile.ReportLocation(command.coordinate, now); err != nil {
		return err
	}
	if err = uow.CourierRepository().Update(ctx, profile); err != nil {
		return err
	}

	if aggregate.Status().IsActiveDelivery() {
		point, err := tracking.NewPoint(kernel.NewUUID(), aggregate.ID(),
			command.courierID, command.coordinate, aggregate.Status().String(), now)
		if err != nil {
			return err
		}
		if err = uow.TrackingRepository().Add(ctx, point); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notifyParticipants(h.notifier, aggregate, EventLocationUpdate, map[string]any{
		"orderNumber": aggregate.Number(),
		"latitude":    command.coordinate.Latitude(),
		"longitude":   command.coordinate.Longitude(),
	})
	return nil
}
