package commands

import (
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/ports"
)

// Realtime event names pushed to order participants. Clients switch on these
// to refresh their view of the order.
const (
	EventOrderConfirmed     = "ORDER_CONFIRMED"
	EventOrderAccepted      = "ORDER_ACCEPTED"
	EventOrderRejected      = "ORDER_REJECTED"
	EventOrderPickedUp      = "ORDER_PICKED_UP"
	EventOrderInTransit     = "ORDER_IN_TRANSIT"
	EventOrderDelivered     = "ORDER_DELIVERED"
	EventOrderCancelled     = "ORDER_CANCELLED"
	EventAssignmentOffered  = "ASSIGNMENT_OFFERED"
	EventAssignmentAccepted = "ASSIGNMENT_ACCEPTED"
	EventLocationUpdate     = "LOCATION_UPDATE"
	EventEscrowReleased     = "ESCROW_RELEASED"
	EventEscrowRefunded     = "ESCROW_REFUNDED"
	EventEscrowDisputed     = "ESCROW_DISPUTED"
)

// notifyParticipants pushes an event to everyone on the order. Called after
// commit only; delivery is best-effort and never affects the command outcome.
func notifyParticipants(notifier ports.Notifier, o *order.Order, event string, body map[string]any) {
	notifier.Publish(ports.Notification{
		Recipients: o.Participants(),
		Event:      event,
		OrderID:    o.ID(),
		Body:       body,
	})
}

func statusBody(o *order.Order) map[string]any {
	return map[string]any{
		"orderNumber": o.Number(),
		"status":      o.Status().String(),
	}
}
