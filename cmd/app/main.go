package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fastdispatch/cmd"
	httpin "fastdispatch/internal/adapters/in/http"
	"fastdispatch/internal/adapters/out/postgres/courierrepo"
	"fastdispatch/internal/adapters/out/postgres/escrowrepo"
	"fastdispatch/internal/adapters/out/postgres/orderrepo"
	"fastdispatch/internal/adapters/out/postgres/trackingrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	postgresdriver "gorm.io/driver/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A local .env is a development convenience; in deployment the
	// environment is set by the platform.
	_ = godotenv.Load(".env")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config, err := cmd.LoadConfig()
	if err != nil {
		logger.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	gormDB, err := openDatabase(config)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(config, gormDB, logger)
	if err != nil {
		logger.Error("composition failed", "error", err)
		os.Exit(1)
	}

	jobManager := root.JobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.WARN)
	e.Use(middleware.Recover())

	server := httpin.NewServer(root.HTTPHandlers(), logger)
	server.RegisterRoutes(e)
	e.GET("/ws", root.Hub().Handle)

	go func() {
		if err := e.Start("0.0.0.0:" + config.HTTPPort); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("dispatch engine started", "port", config.HTTPPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("dispatch engine stopped")
}

// openDatabase connects through the lib/pq driver; the repositories inspect
// pq error codes to classify unique violations.
func openDatabase(config cmd.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgresdriver.New(postgresdriver.Config{
		DriverName: "postgres",
		DSN:        config.DSN(),
	}), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return gormDB, gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&escrowrepo.EscrowDTO{},
		&escrowrepo.TransactionDTO{},
		&trackingrepo.PointDTO{},
	)
}
