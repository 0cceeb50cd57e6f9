package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/errs"
)

var ErrVerifyCourierCommandIsNotConstructed = errors.New(
	"VerifyCourierCommand must be created via NewVerifyCourierCommand constructor",
)

// VerifyCourierCommand records the outcome of a courier's verification
// review. The review process itself lives outside this system; this command
// only flips the flag the candidate locator filters on.
type VerifyCourierCommand struct {
	courierID     kernel.UUID
	by            actor.Actor
	approved      bool
	isConstructed bool
}

// NewVerifyCourierCommand creates a validated verification command.
func NewVerifyCourierCommand(courierID kernel.UUID, by actor.Actor, approved bool) (VerifyCourierCommand, error) {
	if err := errors.Join(courierID.Validate(), by.Validate()); err != nil {
		return VerifyCourierCommand{}, err
	}
	return VerifyCourierCommand{courierID: courierID, by: by, approved: approved, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyCourierCommand) Validate() error {
	if !c.isConstructed {
		return ErrVerifyCourierCommandIsNotConstructed
	}
	return nil
}

// VerifyCourierCommandHandler applies a verification outcome. Admin only.
type VerifyCourierCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewVerifyCourierCommandHandler creates a handler for verification outcomes.
func NewVerifyCourierCommandHandler(uowFactory ports.UnitOfWorkFactory) VerifyCourierCommandHandler {
	return VerifyCourierCommandHandler{uowFactory: uowFactory}
}

// Handle processes the verification outcome.
func (h VerifyCourierCommandHandler) Handle(ctx context.Context, command VerifyCourierCommand) (*courier.Profile, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	if !command.by.IsAdmin() {
		return nil, errs.NewForbiddenError(command.by.String(), "verify courier")
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

	if command.approved {
		err = profile.Approve()
	} else {
		err = profile.RejectVerification()
	}
	if err != nil {
		return nil, err
	}

	if err = uow.CourierRepository().Update(ctx, profile); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return profile, nil
}
