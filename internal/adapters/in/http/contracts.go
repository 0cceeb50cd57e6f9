package http

import (
	"time"

	"fastdispatch/internal/core/application/usecases/queries"
	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/order"
)

type submitOrderRequest struct {
	CustomerID      string  `json:"customerId"`
	MerchantID      string  `json:"merchantId,omitempty"`
	Total           float64 `json:"total"`
	DeliveryAddress string  `json:"deliveryAddress"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type assignCourierRequest struct {
	CourierID string   `json:"courierId"`
	Earnings  *float64 `json:"earnings,omitempty"`
}

type respondAssignmentRequest struct {
	CourierID string `json:"courierId"`
	Decision  string `json:"decision"`
}

type reportLocationRequest struct {
	CourierID string  `json:"courierId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type initializePaymentRequest struct {
	Email string `json:"email"`
}

type confirmPaymentRequest struct {
	Reference string `json:"reference"`
}

type resolveDisputeRequest struct {
	Resolution string `json:"resolution"`
}

type createCourierRequest struct {
	Name   string  `json:"name"`
	Tier   int     `json:"tier"`
	Rating float64 `json:"rating"`
}

type verifyCourierRequest struct {
	Approved bool `json:"approved"`
}

type courierPresenceRequest struct {
	Online bool `json:"online"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type orderResponse struct {
	ID                   string     `json:"id"`
	Number               string     `json:"number"`
	CustomerID           string     `json:"customerId"`
	MerchantID           *string    `json:"merchantId,omitempty"`
	CourierID            *string    `json:"courierId,omitempty"`
	Status               string     `json:"status"`
	Total                float64    `json:"total"`
	CourierEarnings      float64    `json:"courierEarnings"`
	DeliveryAddress      string     `json:"deliveryAddress"`
	Latitude             *float64   `json:"latitude,omitempty"`
	Longitude            *float64   `json:"longitude,omitempty"`
	AcceptedAt           *time.Time `json:"acceptedAt,omitempty"`
	PickedUpAt           *time.Time `json:"pickedUpAt,omitempty"`
	DeliveredAt          *time.Time `json:"deliveredAt,omitempty"`
	ConfirmationDeadline *time.Time `json:"confirmationDeadline,omitempty"`
	CancelReason         string     `json:"cancelReason,omitempty"`
	EscrowStatus         string     `json:"escrowStatus,omitempty"`
}

func orderFromDomain(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:                   o.ID().String(),
		Number:               o.Number(),
		CustomerID:           o.Customer().String(),
		Status:               o.Status().String(),
		Total:                o.Total().Float64(),
		CourierEarnings:      o.CourierEarnings().Float64(),
		DeliveryAddress:      o.DeliveryAddress(),
		AcceptedAt:           o.AcceptedAt(),
		PickedUpAt:           o.PickedUpAt(),
		DeliveredAt:          o.DeliveredAt(),
		ConfirmationDeadline: o.ConfirmationDeadline(),
		CancelReason:         o.CancelReason(),
	}
	if o.Merchant() != nil {
		id := o.Merchant().String()
		resp.MerchantID = &id
	}
	if o.Courier() != nil {
		id := o.Courier().String()
		resp.CourierID = &id
	}
	if point := o.DeliveryPoint(); point != nil {
		lat, lon := point.Latitude(), point.Longitude()
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

func orderFromReadModel(m queries.GetOrderQueryResponse) orderResponse {
	resp := orderResponse{
		ID:                   m.ID.String(),
		Number:               m.Number,
		CustomerID:           m.CustomerID.String(),
		Status:               m.Status,
		Total:                m.Total,
		CourierEarnings:      m.CourierEarnings,
		DeliveryAddress:      m.DeliveryAddress,
		Latitude:             m.Latitude,
		Longitude:            m.Longitude,
		AcceptedAt:           m.AcceptedAt,
		PickedUpAt:           m.PickedUpAt,
		DeliveredAt:          m.DeliveredAt,
		ConfirmationDeadline: m.ConfirmationDeadline,
		CancelReason:         m.CancelReason,
		EscrowStatus:         m.EscrowStatus,
	}
	if m.MerchantID != nil {
		id := m.MerchantID.String()
		resp.MerchantID = &id
	}
	if m.CourierID != nil {
		id := m.CourierID.String()
		resp.CourierID = &id
	}
	return resp
}

type courierResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Tier                int        `json:"tier"`
	Rating              float64    `json:"rating"`
	CompletedDeliveries int        `json:"completedDeliveries"`
	Verification        string     `json:"verification"`
	IsOnline            bool       `json:"isOnline"`
	IsAvailable         bool       `json:"isAvailable"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	LocationAt          *time.Time `json:"locationAt,omitempty"`
}

func courierFromDomain(p *courier.Profile) courierResponse {
	resp := courierResponse{
		ID:                  p.ID().String(),
		Name:                p.Name(),
		Tier:                p.Tier(),
		Rating:              p.Rating(),
		CompletedDeliveries: p.CompletedDeliveries(),
		Verification:        p.VerificationStatus().String(),
		IsOnline:            p.IsOnline(),
		IsAvailable:         p.IsAvailable(),
		LocationAt:          p.LocationAt(),
	}
	if point := p.Location(); point != nil {
		lat, lon := point.Latitude(), point.Longitude()
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

type escrowResponse struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"orderId"`
	PayerID    string     `json:"payerId"`
	PayeeID    string     `json:"payeeId"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status"`
	ReleasedAt *time.Time `json:"releasedAt,omitempty"`
	RefundedAt *time.Time `json:"refundedAt,omitempty"`
	DisputedAt *time.Time `json:"disputedAt,omitempty"`
}

func escrowFromDomain(e *escrow.Escrow) escrowResponse {
	return escrowResponse{
		ID:         e.ID().String(),
		OrderID:    e.OrderID().String(),
		PayerID:    e.Payer().String(),
		PayeeID:    e.Payee().String(),
		Amount:     e.Amount().Float64(),
		Status:     e.Status().String(),
		ReleasedAt: e.ReleasedAt(),
		RefundedAt: e.RefundedAt(),
		DisputedAt: e.DisputedAt(),
	}
}

type candidateResponse struct {
	CourierID  string  `json:"courierId"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distanceKm"`
	EtaMinutes float64 `json:"etaMinutes"`
	Score      float64 `json:"score"`
}

type trackingPointResponse struct {
	CourierID  string    `json:"courierId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Label      string    `json:"label"`
	RecordedAt time.Time `json:"recordedAt"`
}

type initializePaymentResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
}
