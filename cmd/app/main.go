package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/eventlog"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/rabbitmq"
	"fulfillment/internal/adapters/out/rail"
	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	db, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	publisher, closePublisher := newPublisher(configs, logger)
	defer closePublisher()

	app, err := cmd.NewCompositionRoot(
		configs,
		db,
		publisher,
		rail.NewClient(configs.PaymentRailURL, configs.PaymentRailAPIKey, configs.PaymentRailTimeout),
		logger,
	)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	router, err := httpadapter.NewRouter(app.CreateHTTPServer(), logger)
	if err != nil {
		log.Fatalf("Error building HTTP router: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, router, configs.HTTPPort); err != nil {
		logger.Error("Server stopped with error", "error", err)
	}
}

// run serves HTTP until ctx is cancelled, then shuts the server down.
func run(ctx context.Context, e *echo.Echo, port string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPublisher selects RabbitMQ when a URL is configured and falls back to
// logging events otherwise.
func newPublisher(configs cmd.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	if configs.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL is not set, domain events are logged only")
		return eventlog.NewPublisher(logger), func() {}
	}

	publisher, err := rabbitmq.Dial(configs.RabbitMQURL, configs.RabbitMQExchange, logger)
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	return publisher, func() {
		if closeErr := publisher.Close(); closeErr != nil {
			logger.Warn("Closing RabbitMQ publisher failed", "error", closeErr)
		}
	}
}
