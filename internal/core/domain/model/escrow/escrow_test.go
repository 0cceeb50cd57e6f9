package escrow_test

import (
	"testing"
	"time"

	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEscrow(t *testing.T) *escrow.Escrow {
	t.Helper()
	amount, err := kernel.NewMoneyFromCents(250000)
	require.NoError(t, err)

	e, err := escrow.NewEscrow(kernel.NewUUID(), kernel.NewUUID(),
		kernel.NewUUID(), kernel.NewUUID(), amount)
	require.NoError(t, err)
	return e
}

func TestNewEscrow(t *testing.T) {
	t.Run("should create held escrow", func(t *testing.T) {
		e := newTestEscrow(t)

		require.NoError(t, e.Validate())
		assert.Equal(t, escrow.Held, e.Status())
		assert.Equal(t, int64(250000), e.Amount().Cents())
		assert.Nil(t, e.ReleasedAt())
		assert.Nil(t, e.RefundedAt())
		assert.Nil(t, e.DisputedAt())
	})

	t.Run("should fail with zero amount", func(t *testing.T) {
		_, err := escrow.NewEscrow(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(), kernel.Zero())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with zero-value party ids", func(t *testing.T) {
		amount, _ := kernel.NewMoneyFromCents(100)
		var nilID kernel.UUID

		_, err := escrow.NewEscrow(kernel.NewUUID(), nilID, kernel.NewUUID(), kernel.NewUUID(), amount)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "order id")
	})
}

func TestEscrow_Release(t *testing.T) {
	at := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	t.Run("held releases", func(t *testing.T) {
		e := newTestEscrow(t)

		require.NoError(t, e.Release(at))

		assert.Equal(t, escrow.Released, e.Status())
		require.NotNil(t, e.ReleasedAt())
		assert.Equal(t, at, *e.ReleasedAt())
	})

	t.Run("disputed releases on admin resolution", func(t *testing.T) {
		e := newTestEscrow(t)
		require.NoError(t, e.Dispute(at))

		require.NoError(t, e.Release(at.Add(time.Hour)))

		assert.Equal(t, escrow.Released, e.Status())
	})

	t.Run("released is terminal", func(t *testing.T) {
		e := newTestEscrow(t)
		require.NoError(t, e.Release(at))

		assert.ErrorIs(t, e.Release(at), errs.ErrStateConflict)
		assert.ErrorIs(t, e.Refund(at), errs.ErrStateConflict)
		assert.ErrorIs(t, e.Dispute(at), errs.ErrStateConflict)
		assert.Equal(t, escrow.Released, e.Status())
	})
}

func TestEscrow_Refund(t *testing.T) {
	at := time.Now().UTC()

	t.Run("held refunds", func(t *testing.T) {
		e := newTestEscrow(t)

		require.NoError(t, e.Refund(at))

		assert.Equal(t, escrow.Refunded, e.Status())
		require.NotNil(t, e.RefundedAt())
	})

	t.Run("refunded is terminal", func(t *testing.T) {
		e := newTestEscrow(t)
		require.NoError(t, e.Refund(at))

		assert.ErrorIs(t, e.Release(at), errs.ErrStateConflict)
		assert.ErrorIs(t, e.Refund(at), errs.ErrStateConflict)
		assert.Equal(t, escrow.Refunded, e.Status())
	})
}

func TestEscrow_Dispute(t *testing.T) {
	at := time.Now().UTC()

	t.Run("held disputes", func(t *testing.T) {
		e := newTestEscrow(t)

		require.NoError(t, e.Dispute(at))

		assert.Equal(t, escrow.Disputed, e.Status())
		require.NotNil(t, e.DisputedAt())
	})

	t.Run("cannot dispute twice", func(t *testing.T) {
		e := newTestEscrow(t)
		require.NoError(t, e.Dispute(at))

		assert.ErrorIs(t, e.Dispute(at), errs.ErrStateConflict)
	})

	t.Run("disputed refunds on admin resolution", func(t *testing.T) {
		e := newTestEscrow(t)
		require.NoError(t, e.Dispute(at))

		require.NoError(t, e.Refund(at))

		assert.Equal(t, escrow.Refunded, e.Status())
	})
}

func TestEscrow_AmountIsImmutable(t *testing.T) {
	e := newTestEscrow(t)
	before := e.Amount()

	_ = e.Dispute(time.Now())
	_ = e.Release(time.Now())

	assert.True(t, e.Amount().IsEqual(before))
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, escrow.Held.IsTerminal())
	assert.False(t, escrow.Disputed.IsTerminal())
	assert.True(t, escrow.Released.IsTerminal())
	assert.True(t, escrow.Refunded.IsTerminal())
}

func TestNewTransaction(t *testing.T) {
	amount, _ := kernel.NewMoneyFromCents(250000)
	at := time.Now()

	t.Run("creates credit entry", func(t *testing.T) {
		tx, err := escrow.NewTransaction(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(), amount, escrow.TransactionCredit, at)

		require.NoError(t, err)
		require.NoError(t, tx.Validate())
		assert.Equal(t, escrow.TransactionCredit, tx.Kind())
		assert.Equal(t, "CREDIT", tx.Kind().String())
		assert.Equal(t, at.UTC(), tx.CreatedAt())
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := escrow.NewTransaction(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(), amount, escrow.TransactionUnknown, at)

		require.Error(t, err)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := escrow.NewTransaction(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(), kernel.Zero(), escrow.TransactionRefund, at)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
