package order_test

import (
	"testing"

	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.Pending, order.Confirmed, order.Accepted,
		order.PickedUp, order.InTransit, order.Delivered, order.Cancelled,
	}
}

func TestStatus_String(t *testing.T) {
	cases := map[order.Status]string{
		order.Unknown:   "UNKNOWN",
		order.Pending:   "PENDING",
		order.Confirmed: "CONFIRMED",
		order.Accepted:  "ACCEPTED",
		order.PickedUp:  "PICKED_UP",
		order.InTransit: "IN_TRANSIT",
		order.Delivered: "DELIVERED",
		order.Cancelled: "CANCELLED",
		order.Status(42): "UNKNOWN",
	}

	for status, expected := range cases {
		assert.Equal(t, expected, status.String())
	}
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses() {
		assert.NoError(t, s.Validate())
	}

	assert.Error(t, order.Unknown.Validate())
	assert.Error(t, order.Status(99).Validate())
}

// Every transition method must succeed exactly from its allowed source
// states and fail with a state conflict from every other state.
func TestStatus_TransitionGraph(t *testing.T) {
	transitions := []struct {
		name    string
		apply   func(order.Status) (order.Status, error)
		allowed map[order.Status]bool
		target  order.Status
	}{
		{"Confirm", order.Status.Confirm,
			map[order.Status]bool{order.Pending: true}, order.Confirmed},
		{"Accept", order.Status.Accept,
			map[order.Status]bool{order.Pending: true, order.Confirmed: true}, order.Accepted},
		{"Reject", order.Status.Reject,
			map[order.Status]bool{
				order.Pending: true, order.Confirmed: true, order.Accepted: true,
				order.PickedUp: true, order.InTransit: true,
			}, order.Pending},
		{"Pickup", order.Status.Pickup,
			map[order.Status]bool{order.Accepted: true}, order.PickedUp},
		{"StartTransit", order.Status.StartTransit,
			map[order.Status]bool{order.PickedUp: true}, order.InTransit},
		{"Deliver", order.Status.Deliver,
			map[order.Status]bool{order.PickedUp: true, order.InTransit: true}, order.Delivered},
		{"Cancel", order.Status.Cancel,
			map[order.Status]bool{
				order.Pending: true, order.Confirmed: true, order.Accepted: true,
				order.PickedUp: true, order.InTransit: true,
			}, order.Cancelled},
	}

	for _, tr := range transitions {
		t.Run(tr.name, func(t *testing.T) {
			for _, from := range allStatuses() {
				got, err := tr.apply(from)
				if tr.allowed[from] {
					require.NoError(t, err, "from %s", from)
					assert.Equal(t, tr.target, got, "from %s", from)
				} else {
					require.Error(t, err, "from %s", from)
					assert.ErrorIs(t, err, errs.ErrStateConflict, "from %s", from)
				}
			}
		})
	}
}

func TestStatus_TerminalStates(t *testing.T) {
	t.Run("delivered rejects every transition", func(t *testing.T) {
		_, err := order.Delivered.Cancel()
		assert.ErrorIs(t, err, errs.ErrStateConflict)
		_, err = order.Delivered.Reject()
		assert.ErrorIs(t, err, errs.ErrStateConflict)
		_, err = order.Delivered.Accept()
		assert.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("cancelled rejects every transition including re-cancel", func(t *testing.T) {
		_, err := order.Cancelled.Cancel()
		assert.ErrorIs(t, err, errs.ErrStateConflict)
		_, err = order.Cancelled.Accept()
		assert.ErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestStatus_IsActiveDelivery(t *testing.T) {
	active := map[order.Status]bool{
		order.Accepted: true, order.PickedUp: true, order.InTransit: true,
	}

	for _, s := range allStatuses() {
		assert.Equal(t, active[s], s.IsActiveDelivery(), "status %s", s)
	}
}
