// Package http exposes the dispatch engine over a JSON API. Handlers only
// translate between the wire and the application layer; authorization and
// state rules live in the domain.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"fastdispatch/internal/core/application/usecases/commands"
	"fastdispatch/internal/core/application/usecases/queries"
	"fastdispatch/internal/core/domain/model/actor"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Actor identity headers. Identity verification is the gateway's concern;
// this service trusts the headers and enforces what the actor may do.
const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

const (
	defaultSearchRadiusKm = 10.0
	defaultMaxCandidates  = 5
)

// Handlers bundles the use cases the server exposes.
type Handlers struct {
	SubmitOrder       commands.SubmitOrderCommandHandler
	ConfirmOrder      commands.ConfirmOrderCommandHandler
	AcceptOrder       commands.AcceptOrderCommandHandler
	RejectOrder       commands.RejectOrderCommandHandler
	AssignCourier     commands.AssignCourierCommandHandler
	RespondAssignment commands.RespondAssignmentCommandHandler
	PickupOrder       commands.PickupOrderCommandHandler
	StartTransit      commands.StartTransitCommandHandler
	DeliverOrder      commands.DeliverOrderCommandHandler
	CancelOrder       commands.CancelOrderCommandHandler
	ReportLocation    commands.ReportLocationCommandHandler
	InitializePayment commands.InitializePaymentCommandHandler
	ConfirmPayment    commands.ConfirmPaymentCommandHandler
	ReleaseEscrow     commands.ReleaseEscrowCommandHandler
	RefundEscrow      commands.RefundEscrowCommandHandler
	DisputeEscrow     commands.DisputeEscrowCommandHandler
	ResolveDispute    commands.ResolveDisputeCommandHandler
	CreateCourier     commands.CreateCourierCommandHandler
	VerifyCourier     commands.VerifyCourierCommandHandler
	CourierPresence   commands.SetCourierPresenceCommandHandler

	GetOrder           queries.GetOrderQueryHandler
	GetTrackingHistory queries.GetTrackingHistoryQueryHandler
	FindCandidates     queries.FindCandidatesQueryHandler
}

// Server routes API requests to command and query handlers.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

// NewServer creates the API server.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http-server"),
	}
}

// RegisterRoutes mounts every endpoint on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.SubmitOrder)
	v1.GET("/orders/:id", s.GetOrder)
	v1.GET("/orders/:id/tracking", s.GetTrackingHistory)
	v1.GET("/orders/:id/candidates", s.FindCandidates)
	v1.POST("/orders/:id/confirm", s.ConfirmOrder)
	v1.POST("/orders/:id/accept", s.AcceptOrder)
	v1.POST("/orders/:id/reject", s.RejectOrder)
	v1.POST("/orders/:id/assignment", s.AssignCourier)
	v1.POST("/orders/:id/assignment/response", s.RespondAssignment)
	v1.POST("/orders/:id/pickup", s.PickupOrder)
	v1.POST("/orders/:id/transit", s.StartTransit)
	v1.POST("/orders/:id/deliver", s.DeliverOrder)
	v1.POST("/orders/:id/cancel", s.CancelOrder)
	v1.POST("/orders/:id/location", s.ReportLocation)
	v1.POST("/orders/:id/payment", s.InitializePayment)
	v1.POST("/orders/:id/payment/confirm", s.ConfirmPayment)
	v1.POST("/orders/:id/escrow/release", s.ReleaseEscrow)
	v1.POST("/orders/:id/escrow/refund", s.RefundEscrow)
	v1.POST("/orders/:id/escrow/dispute", s.DisputeEscrow)
	v1.POST("/orders/:id/escrow/resolve", s.ResolveDispute)

	v1.POST("/couriers", s.CreateCourier)
	v1.POST("/couriers/:id/verification", s.VerifyCourier)
	v1.POST("/couriers/:id/presence", s.CourierPresence)
}

// Health reports liveness.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitOrder handles POST /api/v1/orders.
func (s *Server) SubmitOrder(c echo.Context) error {
	var req submitOrderRequest
	if err := c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("customer id", err))
	}
	var merchantID *kernel.UUID
	if req.MerchantID != "" {
		id, err := kernel.UUIDFromString(req.MerchantID)
		if err != nil {
			return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("merchant id", err))
		}
		merchantID = &id
	}
	total, err := kernel.NewMoneyFromFloat(req.Total)
	if err != nil {
		return s.renderError(c, err)
	}

	command, err := commands.NewSubmitOrderCommand(customerID, merchantID, total, req.DeliveryAddress)
	if err != nil {
		return s.renderError(c, err)
	}
	placed, err := s.handlers.SubmitOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusCreated, orderFromDomain(placed))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.renderError(c, err)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.renderError(c, err)
	}
	model, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromReadModel(model))
}

// GetTrackingHistory handles GET /api/v1/orders/:id/tracking.
func (s *Server) GetTrackingHistory(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.renderError(c, err)
	}
	query, err := queries.NewGetTrackingHistoryQuery(orderID)
	if err != nil {
		return s.renderError(c, err)
	}
	points, err := s.handlers.GetTrackingHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return s.renderError(c, err)
	}

	response := make([]trackingPointResponse, 0, len(points))
	for _, p := range points {
		response = append(response, trackingPointResponse{
			CourierID:  p.CourierID.String(),
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
			Label:      p.Label,
			RecordedAt: p.RecordedAt,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// FindCandidates handles GET /api/v1/orders/:id/candidates.
func (s *Server) FindCandidates(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.renderError(c, err)
	}

	radiusKm := defaultSearchRadiusKm
	if raw := c.QueryParam("radius_km"); raw != "" {
		if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil {
			return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("radius_km", err))
		}
	}
	maxResults := defaultMaxCandidates
	if raw := c.QueryParam("max_results"); raw != "" {
		if maxResults, err = strconv.Atoi(raw); err != nil {
			return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("max_results", err))
		}
	}

	query, err := queries.NewFindCandidatesQuery(orderID, radiusKm, maxResults)
	if err != nil {
		return s.renderError(c, err)
	}
	candidates, err := s.handlers.FindCandidates.Handle(c.Request().Context(), query)
	if err != nil {
		return s.renderError(c, err)
	}

	response := make([]candidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		response = append(response, candidateResponse{
			CourierID:  candidate.CourierID.String(),
			Name:       candidate.Name,
			DistanceKm: candidate.DistanceKm,
			EtaMinutes: candidate.EtaMinutes,
			Score:      candidate.Score,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm.
func (s *Server) ConfirmOrder(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewConfirmOrderCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	confirmed, err := s.handlers.ConfirmOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(confirmed))
}

// AcceptOrder handles POST /api/v1/orders/:id/accept.
func (s *Server) AcceptOrder(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewAcceptOrderCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	accepted, err := s.handlers.AcceptOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(accepted))
}

// RejectOrder handles POST /api/v1/orders/:id/reject.
func (s *Server) RejectOrder(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewRejectOrderCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	rejected, err := s.handlers.RejectOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(rejected))
}

// AssignCourier handles POST /api/v1/orders/:id/assignment.
func (s *Server) AssignCourier(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	var req assignCourierRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("courier id", err))
	}
	var earnings *kernel.Money
	if req.Earnings != nil {
		amount, err := kernel.NewMoneyFromFloat(*req.Earnings)
		if err != nil {
			return s.renderError(c, err)
		}
		earnings = &amount
	}

	command, err := commands.NewAssignCourierCommand(orderID, courierID, by, earnings)
	if err != nil {
		return s.renderError(c, err)
	}
	assigned, err := s.handlers.AssignCourier.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(assigned))
}

// RespondAssignment handles POST /api/v1/orders/:id/assignment/response.
func (s *Server) RespondAssignment(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.renderError(c, err)
	}
	var req respondAssignmentRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("courier id", err))
	}
	decision, err := commands.DecisionFromString(req.Decision)
	if err != nil {
		return s.renderError(c, err)
	}

	command, err := commands.NewRespondAssignmentCommand(orderID, courierID, decision)
	if err != nil {
		return s.renderError(c, err)
	}
	updated, err := s.handlers.RespondAssignment.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(updated))
}

// PickupOrder handles POST /api/v1/orders/:id/pickup.
func (s *Server) PickupOrder(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewPickupOrderCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	picked, err := s.handlers.PickupOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(picked))
}

// StartTransit handles POST /api/v1/orders/:id/transit.
func (s *Server) StartTransit(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewStartTransitCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	inTransit, err := s.handlers.StartTransit.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(inTransit))
}

// DeliverOrder handles POST /api/v1/orders/:id/deliver.
func (s *Server) DeliverOrder(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewDeliverOrderCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	delivered, err := s.handlers.DeliverOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(delivered))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	var req cancelOrderRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	command, err := commands.NewCancelOrderCommand(orderID, by, req.Reason)
	if err != nil {
		return s.renderError(c, err)
	}
	cancelled, err := s.handlers.CancelOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(cancelled))
}

// ReportLocation handles POST /api/v1/orders/:id/location.
func (s *Server) ReportLocation(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.renderError(c, err)
	}
	var req reportLocationRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("courier id", err))
	}
	coordinate, err := kernel.NewGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return s.renderError(c, err)
	}

	command, err := commands.NewReportLocationCommand(orderID, courierID, coordinate)
	if err != nil {
		return s.renderError(c, err)
	}
	if err = s.handlers.ReportLocation.Handle(c.Request().Context(), command); err != nil {
		return s.renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// InitializePayment handles POST /api/v1/orders/:id/payment.
func (s *Server) InitializePayment(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.renderError(c, err)
	}
	var req initializePaymentRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	command, err := commands.NewInitializePaymentCommand(orderID, req.Email)
	if err != nil {
		return s.renderError(c, err)
	}
	authorizationURL, err := s.handlers.InitializePayment.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, initializePaymentResponse{AuthorizationURL: authorizationURL})
}

// ConfirmPayment handles POST /api/v1/orders/:id/payment/confirm.
func (s *Server) ConfirmPayment(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.renderError(c, err)
	}
	var req confirmPaymentRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	command, err := commands.NewConfirmPaymentCommand(orderID, req.Reference)
	if err != nil {
		return s.renderError(c, err)
	}
	held, err := s.handlers.ConfirmPayment.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusCreated, escrowFromDomain(held))
}

// ReleaseEscrow handles POST /api/v1/orders/:id/escrow/release.
func (s *Server) ReleaseEscrow(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewReleaseEscrowCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	released, err := s.handlers.ReleaseEscrow.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, escrowFromDomain(released))
}

// RefundEscrow handles POST /api/v1/orders/:id/escrow/refund.
func (s *Server) RefundEscrow(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewRefundEscrowCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	refunded, err := s.handlers.RefundEscrow.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, escrowFromDomain(refunded))
}

// DisputeEscrow handles POST /api/v1/orders/:id/escrow/dispute.
func (s *Server) DisputeEscrow(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	command, err := commands.NewDisputeEscrowCommand(orderID, by)
	if err != nil {
		return s.renderError(c, err)
	}
	disputed, err := s.handlers.DisputeEscrow.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, escrowFromDomain(disputed))
}

// ResolveDispute handles POST /api/v1/orders/:id/escrow/resolve.
func (s *Server) ResolveDispute(c echo.Context) error {
	orderID, by, err := orderIDAndActor(c)
	if err != nil {
		return s.renderError(c, err)
	}
	var req resolveDisputeRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	resolution, err := commands.ResolutionFromString(req.Resolution)
	if err != nil {
		return s.renderError(c, err)
	}

	command, err := commands.NewResolveDisputeCommand(orderID, by, resolution)
	if err != nil {
		return s.renderError(c, err)
	}
	settled, err := s.handlers.ResolveDispute.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, escrowFromDomain(settled))
}

// CreateCourier handles POST /api/v1/couriers.
func (s *Server) CreateCourier(c echo.Context) error {
	var req createCourierRequest
	if err := c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	command, err := commands.NewCreateCourierCommand(req.Name, req.Tier, req.Rating)
	if err != nil {
		return s.renderError(c, err)
	}
	created, err := s.handlers.CreateCourier.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusCreated, courierFromDomain(created))
}

// VerifyCourier handles POST /api/v1/couriers/:id/verification.
func (s *Server) VerifyCourier(c echo.Context) error {
	courierID, err := idParam(c, "courier id")
	if err != nil {
		return s.renderError(c, err)
	}
	by, err := actorFromHeaders(c)
	if err != nil {
		return s.renderError(c, err)
	}
	var req verifyCourierRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	command, err := commands.NewVerifyCourierCommand(courierID, by, req.Approved)
	if err != nil {
		return s.renderError(c, err)
	}
	verified, err := s.handlers.VerifyCourier.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, courierFromDomain(verified))
}

// CourierPresence handles POST /api/v1/couriers/:id/presence.
func (s *Server) CourierPresence(c echo.Context) error {
	courierID, err := idParam(c, "courier id")
	if err != nil {
		return s.renderError(c, err)
	}
	var req courierPresenceRequest
	if err = c.Bind(&req); err != nil {
		return s.renderError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	command, err := commands.NewSetCourierPresenceCommand(courierID, req.Online)
	if err != nil {
		return s.renderError(c, err)
	}
	updated, err := s.handlers.CourierPresence.Handle(c.Request().Context(), command)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, courierFromDomain(updated))
}

// renderError maps a failure to its HTTP status. Internal failures are logged
// and reported without the underlying message.
func (s *Server) renderError(c echo.Context, err error) error {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		message = "internal error"
	}
	return c.JSON(status, errorResponse{Code: status, Message: message})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func idParam(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func orderIDParam(c echo.Context) (kernel.UUID, error) {
	return idParam(c, "order id")
}

func orderIDAndActor(c echo.Context) (kernel.UUID, actor.Actor, error) {
	orderID, err := orderIDParam(c)
	if err != nil {
		return kernel.UUID{}, actor.Actor{}, err
	}
	by, err := actorFromHeaders(c)
	if err != nil {
		return kernel.UUID{}, actor.Actor{}, err
	}
	return orderID, by, nil
}

func actorFromHeaders(c echo.Context) (actor.Actor, error) {
	id, err := kernel.UUIDFromString(c.Request().Header.Get(HeaderActorID))
	if err != nil {
		return actor.Actor{}, errs.NewValueIsInvalidErrorWithCause(HeaderActorID, err)
	}
	role, err := actor.RoleFromString(c.Request().Header.Get(HeaderActorRole))
	if err != nil {
		return actor.Actor{}, errs.NewValueIsInvalidErrorWithCause(HeaderActorRole, err)
	}
	return actor.New(id, role)
}
