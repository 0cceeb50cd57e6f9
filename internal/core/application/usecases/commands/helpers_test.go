package commands_test

import (
	"context"
	"testing"
	"time"

	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromCents(cents)
	require.NoError(t, err)
	return m
}

func actorAs(t *testing.T, role actor.Role, id kernel.UUID) actor.Actor {
	t.Helper()
	a, err := actor.New(id, role)
	require.NoError(t, err)
	return a
}

// seedOrder places an order in the fake repository in the given status with
// the given (optional) courier assignment.
func seedOrder(
	t *testing.T,
	uow *fakeUnitOfWork,
	status order.Status,
	customerID kernel.UUID,
	merchantID, courierID *kernel.UUID,
) *order.Order {
	t.Helper()

	var acceptedAt, deliveredAt, deadline *time.Time
	now := time.Now().UTC()
	if courierID != nil {
		acceptedAt = &now
	}
	if status == order.Delivered {
		deliveredAt = &now
		d := now.Add(order.ConfirmationWindow)
		deadline = &d
	}

	earnings := kernel.Zero()
	if courierID != nil {
		earnings = mustMoney(t, 5000)
	}

	o, err := order.RestoreOrder(kernel.NewUUID(), "FD-TEST234X", customerID,
		merchantID, courierID, status, mustMoney(t, 250000), earnings,
		"12 Marina Road", nil, acceptedAt, nil, deliveredAt, deadline, "")
	require.NoError(t, err)
	require.NoError(t, uow.orders.Add(context.Background(), o))
	return o
}

// seedCourier places an approved, online, available courier with a location.
func seedCourier(t *testing.T, uow *fakeUnitOfWork) *courier.Profile {
	t.Helper()
	point, err := kernel.NewGeoPoint(6.45, 3.4)
	require.NoError(t, err)
	at := time.Now().UTC()

	p, err := courier.RestoreProfile(kernel.NewUUID(), "Seyi", 1, 4.8, 12,
		courier.VerificationApproved, true, true, &point, &at)
	require.NoError(t, err)
	require.NoError(t, uow.couriers.Add(context.Background(), p))
	return p
}

// seedEscrow places a held escrow for the order.
func seedEscrow(t *testing.T, uow *fakeUnitOfWork, o *order.Order, payee kernel.UUID) *escrow.Escrow {
	t.Helper()
	e, err := escrow.NewEscrow(kernel.NewUUID(), o.ID(), o.Customer(), payee, o.Total())
	require.NoError(t, err)
	require.NoError(t, uow.escrows.Add(context.Background(), e))
	return e
}

func uuidPtr(id kernel.UUID) *kernel.UUID { return &id }
