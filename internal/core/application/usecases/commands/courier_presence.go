package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"
)

var ErrSetCourierPresenceCommandIsNotConstructed = errors.New(
	"SetCourierPresenceCommand must be created via NewSetCourierPresenceCommand constructor",
)

// SetCourierPresenceCommand toggles a courier's online session. Going offline
// withdraws the courier from the candidate pool immediately.
type SetCourierPresenceCommand struct {
	courierID     kernel.UUID
	online        bool
	isConstructed bool
}

// NewSetCourierPresenceCommand creates a validated presence command.
func NewSetCourierPresenceCommand(courierID kernel.UUID, online bool) (SetCourierPresenceCommand, error) {
	if err := courierID.Validate(); err != nil {
		return SetCourierPresenceCommand{}, err
	}
	return SetCourierPresenceCommand{courierID: courierID, online: online, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetCourierPresenceCommand) Validate() error {
	if !c.isConstructed {
		return ErrSetCourierPresenceCommandIsNotConstructed
	}
	return nil
}

// SetCourierPresenceCommandHandler persists a presence change.
type SetCourierPresenceCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewSetCourierPresenceCommandHandler creates a handler for presence changes.
func NewSetCourierPresenceCommandHandler(uowFactory ports.UnitOfWorkFactory) SetCourierPresenceCommandHandler {
	return SetCourierPresenceCommandHandler{uowFactory: uowFactory}
}

// Handle processes the presence change.
func (h SetCourierPresenceCommandHandler) Handle(ctx context.Context, command SetCourierPresenceCommand) (*courier.Profile, error) {
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

	profile, err := uow.CourierRepository().Get(ctx, command.courierID)
	if err != nil {
		return nil, err
	}

	profile.SetOnline(command.online)

	// Coming online must not free a courier who is still bound to an
	// active delivery.
	if command.online {
		active, err := uow.OrderRepository().GetActiveByCourier(ctx, command.courierID)
		if err != nil {
			return nil, err
		}
		if len(active) > 0 {
			if err = profile.MarkReserved(); err != nil {
				return nil, err
			}
		}
	}

	if err = uow.CourierRepository().Update(ctx, profile); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return profile, nil
}
