package commands_test

import (
	"testing"
	"time"

	"fastdispatch/internal/core/application/usecases/commands"
	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/pkg/clock"
	"fastdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseEscrowCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*fakeUnitOfWork, *fakePayments, *order.Order, *escrow.Escrow, kernel.UUID) {
		uow := newFakeUnitOfWork()
		payments := newFakePayments()
		customerID := kernel.NewUUID()
		merchantID := kernel.NewUUID()
		o := seedOrder(t, uow, order.Delivered, customerID, uuidPtr(merchantID), nil)
		e := seedEscrow(t, uow, o, merchantID)
		return uow, payments, o, e, customerID
	}

	t.Run("customer release credits the payee", func(t *testing.T) {
		uow, payments, o, e, customerID := setup(t)
		notifier := &fakeNotifier{}
		h := commands.NewReleaseEscrowCommandHandler(uow, payments, notifier, clock.NewFixed(now))

		cmd, err := commands.NewReleaseEscrowCommand(o.ID(), actorAs(t, actor.RoleCustomer, customerID))
		require.NoError(t, err)

		released, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, escrow.Released, released.Status())
		assert.Equal(t, now, *released.ReleasedAt())
		require.Len(t, uow.escrows.transactions, 1)
		assert.Equal(t, escrow.TransactionCredit, uow.escrows.transactions[0].Kind())
		assert.True(t, uow.escrows.transactions[0].Counterparty().IsEqual(e.Payee()))
		require.Len(t, payments.payouts, 1)
		assert.True(t, payments.payouts[0].IsEqual(e.Amount()))
		assert.Equal(t, []string{commands.EventEscrowReleased}, notifier.eventNames())
	})

	t.Run("release after a concurrent resolution is a state conflict", func(t *testing.T) {
		uow, payments, o, e, customerID := setup(t)
		h := commands.NewReleaseEscrowCommandHandler(uow, payments, &fakeNotifier{}, clock.NewFixed(now))

		// The sweep resolved the escrow after this request read it.
		uow.escrows.committed[e.ID().String()] = escrow.Released

		cmd, err := commands.NewReleaseEscrowCommand(o.ID(), actorAs(t, actor.RoleCustomer, customerID))
		require.NoError(t, err)

		_, err = h.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrStateConflict)
		assert.Empty(t, payments.payouts)
	})

	t.Run("stranger cannot release", func(t *testing.T) {
		uow, payments, o, _, _ := setup(t)
		h := commands.NewReleaseEscrowCommandHandler(uow, payments, &fakeNotifier{}, clock.NewFixed(now))

		cmd, err := commands.NewReleaseEscrowCommand(o.ID(),
			actorAs(t, actor.RoleCustomer, kernel.NewUUID()))
		require.NoError(t, err)

		_, err = h.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("disputed escrow requires admin resolution", func(t *testing.T) {
		uow, payments, o, e, customerID := setup(t)
		require.NoError(t, e.Dispute(now))
		uow.escrows.committed[e.ID().String()] = escrow.Disputed
		h := commands.NewReleaseEscrowCommandHandler(uow, payments, &fakeNotifier{}, clock.NewFixed(now))

		cmd, err := commands.NewReleaseEscrowCommand(o.ID(), actorAs(t, actor.RoleCustomer, customerID))
		require.NoError(t, err)

		_, err = h.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestResolveDisputeCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	now := time.Now().UTC()

	setup := func(t *testing.T) (*fakeUnitOfWork, *fakePayments, *order.Order, *escrow.Escrow) {
		uow := newFakeUnitOfWork()
		payments := newFakePayments()
		merchantID := kernel.NewUUID()
		o := seedOrder(t, uow, order.Delivered, kernel.NewUUID(), uuidPtr(merchantID), nil)
		e := seedEscrow(t, uow, o, merchantID)
		require.NoError(t, e.Dispute(now))
		uow.escrows.committed[e.ID().String()] = escrow.Disputed
		return uow, payments, o, e
	}

	t.Run("admin releases a disputed escrow", func(t *testing.T) {
		uow, payments, o, e := setup(t)
		h := commands.NewResolveDisputeCommandHandler(uow, payments, &fakeNotifier{}, clock.NewFixed(now))

		cmd, err := commands.NewResolveDisputeCommand(o.ID(),
			actorAs(t, actor.RoleAdmin, kernel.NewUUID()), commands.ResolutionRelease)
		require.NoError(t, err)

		resolved, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, escrow.Released, resolved.Status())
		assert.Len(t, payments.payouts, 1)
		assert.True(t, resolved.Amount().IsEqual(e.Amount()))
	})

	t.Run("admin refunds a disputed escrow", func(t *testing.T) {
		uow, payments, o, e := setup(t)
		h := commands.NewResolveDisputeCommandHandler(uow, payments, &fakeNotifier{}, clock.NewFixed(now))

		cmd, err := commands.NewResolveDisputeCommand(o.ID(),
			actorAs(t, actor.RoleAdmin, kernel.NewUUID()), commands.ResolutionRefund)
		require.NoError(t, err)

		resolved, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, escrow.Refunded, resolved.Status())
		assert.Empty(t, payments.payouts)
		require.Len(t, uow.escrows.transactions, 1)
		assert.Equal(t, escrow.TransactionRefund, uow.escrows.transactions[0].Kind())
		assert.True(t, uow.escrows.transactions[0].Counterparty().IsEqual(e.Payer()))
	})

	t.Run("non-admin cannot resolve", func(t *testing.T) {
		uow, payments, o, e := setup(t)
		h := commands.NewResolveDisputeCommandHandler(uow, payments, &fakeNotifier{}, clock.NewFixed(now))

		cmd, err := commands.NewResolveDisputeCommand(o.ID(),
			actorAs(t, actor.RoleCustomer, e.Payer()), commands.ResolutionRelease)
		require.NoError(t, err)

		_, err = h.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("undisputed escrow cannot be resolved", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		merchantID := kernel.NewUUID()
		o := seedOrder(t, uow, order.Delivered, kernel.NewUUID(), uuidPtr(merchantID), nil)
		seedEscrow(t, uow, o, merchantID)
		h := commands.NewResolveDisputeCommandHandler(uow, newFakePayments(), &fakeNotifier{}, clock.NewFixed(now))

		cmd, err := commands.NewResolveDisputeCommand(o.ID(),
			actorAs(t, actor.RoleAdmin, kernel.NewUUID()), commands.ResolutionRelease)
		require.NoError(t, err)

		_, err = h.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrStateConflict)
	})
}
