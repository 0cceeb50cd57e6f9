package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fastdispatch/internal/core/application/usecases/commands"
	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/pkg/clock"
	"fastdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReleaseDueEscrowsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, 3, 20, 0, 1, 0, 0, time.UTC)

	seedDue := func(t *testing.T, uow *fakeUnitOfWork, payee kernel.UUID) *escrow.Escrow {
		o := seedOrder(t, uow, order.Delivered, kernel.NewUUID(), uuidPtr(payee), nil)
		e := seedEscrow(t, uow, o, payee)
		uow.escrows.due = append(uow.escrows.due, e)
		return e
	}

	t.Run("releases every due escrow", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		payments := newFakePayments()
		notifier := &fakeNotifier{}
		first := seedDue(t, uow, kernel.NewUUID())
		second := seedDue(t, uow, kernel.NewUUID())

		h := commands.NewReleaseDueEscrowsCommandHandler(uow, payments, notifier,
			clock.NewFixed(now), discardLogger())
		released, err := h.Handle(ctx, commands.NewReleaseDueEscrowsCommand())

		require.NoError(t, err)
		assert.Equal(t, 2, released)
		assert.Equal(t, escrow.Released, first.Status())
		assert.Equal(t, escrow.Released, second.Status())
		assert.Len(t, uow.escrows.transactions, 2)
		assert.Len(t, payments.payouts, 2)
		assert.Len(t, notifier.eventNames(), 2)
	})

	t.Run("second sweep over released escrows is a no-op", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		payments := newFakePayments()
		seedDue(t, uow, kernel.NewUUID())

		h := commands.NewReleaseDueEscrowsCommandHandler(uow, payments, &fakeNotifier{},
			clock.NewFixed(now), discardLogger())

		released, err := h.Handle(ctx, commands.NewReleaseDueEscrowsCommand())
		require.NoError(t, err)
		require.Equal(t, 1, released)

		released, err = h.Handle(ctx, commands.NewReleaseDueEscrowsCommand())
		require.NoError(t, err)

		assert.Zero(t, released)
		assert.Len(t, uow.escrows.transactions, 1)
		assert.Len(t, payments.payouts, 1)
	})

	t.Run("one failing order does not abort the tick", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		payments := newFakePayments()
		failingPayee := kernel.NewUUID()
		payments.payoutErrs[failingPayee.String()] =
			errs.NewExternalServiceError("payments", errors.New("transfer rejected"))
		failing := seedDue(t, uow, failingPayee)
		healthy := seedDue(t, uow, kernel.NewUUID())

		h := commands.NewReleaseDueEscrowsCommandHandler(uow, payments, &fakeNotifier{},
			clock.NewFixed(now), discardLogger())
		released, err := h.Handle(ctx, commands.NewReleaseDueEscrowsCommand())

		require.NoError(t, err)
		assert.Equal(t, 1, released)
		assert.Equal(t, escrow.Released, healthy.Status())
		// The failed escrow stays held in storage and is retried next tick.
		assert.Equal(t, escrow.Held, uow.escrows.committed[failing.ID().String()])
		assert.Len(t, payments.payouts, 1)
	})

	t.Run("escrow resolved by a foreground release is skipped", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		payments := newFakePayments()
		e := seedDue(t, uow, kernel.NewUUID())
		uow.escrows.due = []*escrow.Escrow{e}

		// Foreground release wins between selection and the guarded write.
		uow.escrows.committed[e.ID().String()] = escrow.Released

		h := commands.NewReleaseDueEscrowsCommandHandler(uow, payments, &fakeNotifier{},
			clock.NewFixed(now), discardLogger())
		released, err := h.Handle(ctx, commands.NewReleaseDueEscrowsCommand())

		require.NoError(t, err)
		assert.Zero(t, released)
		assert.Empty(t, uow.escrows.transactions)
	})
}
