package commands

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"
)

var ErrCreateCourierCommandIsNotConstructed = errors.New(
	"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
)

// CreateCourierCommand registers a new courier profile. The profile starts
// offline and pending verification; it cannot receive assignments until it is
// approved and the courier comes online.
type CreateCourierCommand struct {
	name          string
	tier          int
	rating        float64
	isConstructed bool
}

// NewCreateCourierCommand creates a validated registration command.
func NewCreateCourierCommand(name string, tier int, rating float64) (CreateCourierCommand, error) {
	// Field validation is delegated to the aggregate constructor; only the
	// command shape is checked here.
	return CreateCourierCommand{name: name, tier: tier, rating: rating, isConstructed: true}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	if !c.isConstructed {
		return ErrCreateCourierCommandIsNotConstructed
	}
	return nil
}

// CreateCourierCommandHandler persists a new courier profile.
type CreateCourierCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewCreateCourierCommandHandler creates a handler for courier registration.
func NewCreateCourierCommandHandler(uowFactory ports.UnitOfWorkFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{uowFactory: uowFactory}
}

// Handle processes the registration.
func (h CreateCourierCommandHandler) Handle(ctx context.Context, command CreateCourierCommand) (*courier.Profile, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	profile, err := courier.NewProfile(kernel.NewUUID(), command.name, command.tier, command.rating)
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

	if err = uow.CourierRepository().Add(ctx, profile); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return profile, nil
}
