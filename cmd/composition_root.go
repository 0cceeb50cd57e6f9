// Package cmd assembles the application: configuration, adapter
// construction, and wiring of use cases to their ports.
package cmd

import (
	"fmt"
	"log/slog"

	httpin "fastdispatch/internal/adapters/in/http"
	"fastdispatch/internal/adapters/in/ws"
	"fastdispatch/internal/adapters/out/geocode"
	"fastdispatch/internal/adapters/out/paystack"
	"fastdispatch/internal/adapters/out/postgres"
	"fastdispatch/internal/core/application/usecases/commands"
	"fastdispatch/internal/core/application/usecases/queries"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/jobs"
	"fastdispatch/internal/pkg/clock"

	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived dependency and hands out wired
// command and query handlers.
type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	logger *slog.Logger

	uowFactory *postgres.GormUnitOfWorkFactory
	payments   *paystack.Client
	geocoder   *geocode.Client
	hub        *ws.Hub
	clk        clock.Clock
	baseRate   kernel.Money
}

// NewCompositionRoot builds the adapters once; handlers constructed from the
// root share them.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	baseRate, err := kernel.NewMoneyFromFloat(config.BaseCourierRate)
	if err != nil {
		return nil, fmt.Errorf("invalid base courier rate: %w", err)
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		payments:   paystack.NewClient(config.PaystackBaseURL, config.PaystackSecretKey),
		geocoder:   geocode.NewClient(config.GeocoderBaseURL),
		hub:        ws.NewHub(config.WsToken, logger),
		clk:        clock.NewSystem(),
		baseRate:   baseRate,
	}, nil
}

// Hub exposes the WebSocket hub so main can mount its endpoint.
func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

// HTTPHandlers wires every API use case.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		SubmitOrder:       commands.NewSubmitOrderCommandHandler(c.uowFactory, c.geocoder),
		ConfirmOrder:      commands.NewConfirmOrderCommandHandler(c.uowFactory, c.hub),
		AcceptOrder:       commands.NewAcceptOrderCommandHandler(c.uowFactory, c.hub, c.clk),
		RejectOrder:       commands.NewRejectOrderCommandHandler(c.uowFactory, c.hub),
		AssignCourier:     commands.NewAssignCourierCommandHandler(c.uowFactory, c.hub, c.clk, c.baseRate),
		RespondAssignment: commands.NewRespondAssignmentCommandHandler(c.uowFactory, c.hub, c.clk),
		PickupOrder:       commands.NewPickupOrderCommandHandler(c.uowFactory, c.hub, c.clk),
		StartTransit:      commands.NewStartTransitCommandHandler(c.uowFactory, c.hub),
		DeliverOrder:      commands.NewDeliverOrderCommandHandler(c.uowFactory, c.hub, c.clk),
		CancelOrder:       commands.NewCancelOrderCommandHandler(c.uowFactory, c.hub),
		ReportLocation:    commands.NewReportLocationCommandHandler(c.uowFactory, c.hub, c.clk),
		InitializePayment: commands.NewInitializePaymentCommandHandler(c.uowFactory, c.payments),
		ConfirmPayment:    commands.NewConfirmPaymentCommandHandler(c.uowFactory, c.payments),
		ReleaseEscrow:     commands.NewReleaseEscrowCommandHandler(c.uowFactory, c.payments, c.hub, c.clk),
		RefundEscrow:      commands.NewRefundEscrowCommandHandler(c.uowFactory, c.hub, c.clk),
		DisputeEscrow:     commands.NewDisputeEscrowCommandHandler(c.uowFactory, c.hub, c.clk),
		ResolveDispute:    commands.NewResolveDisputeCommandHandler(c.uowFactory, c.payments, c.hub, c.clk),
		CreateCourier:     commands.NewCreateCourierCommandHandler(c.uowFactory),
		VerifyCourier:     commands.NewVerifyCourierCommandHandler(c.uowFactory),
		CourierPresence:   commands.NewSetCourierPresenceCommandHandler(c.uowFactory),

		GetOrder:           queries.NewGetOrderQueryHandler(c.gormDB),
		GetTrackingHistory: queries.NewGetTrackingHistoryQueryHandler(c.gormDB),
		FindCandidates:     queries.NewFindCandidatesQueryHandler(c.gormDB),
	}
}

// JobManager wires the scheduled escrow release sweep.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	sweep := commands.NewReleaseDueEscrowsCommandHandler(
		c.uowFactory, c.payments, c.hub, c.clk, c.logger)
	return jobs.NewJobManager(sweep, c.config.EscrowReleaseSchedule, c.logger)
}
