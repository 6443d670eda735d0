package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/rabbitmq/statuspublisher"
	"fulfillment/internal/adapters/out/redis/snapshotstore"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/monitoring"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, configs, logger); err != nil {
		log.Fatalf("Service stopped: %v", err)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	db, err := postgres.Open(configs.Postgres())
	if err != nil {
		return err
	}

	store, closeStore, err := openSnapshotStore(configs)
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		logger.WarnContext(ctx, "REDIS_URL is not set, queue snapshots are kept in memory only")
	}

	publisher, closePublisher := openStatusPublisher(ctx, configs, logger)
	defer closePublisher()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := cmd.NewCompositionRoot(configs, db, store, publisher, monitoring.NewQueueMetrics(registry), logger)

	report, err := app.Engine().Start(ctx)
	if err != nil {
		return fmt.Errorf("start timing engine: %w", err)
	}
	if report.Restored {
		reconcileHandler := app.CreateReconcileQueueCommandHandler()
		if _, reconcileErr := reconcileHandler.Handle(ctx, commands.NewReconcileQueueCommand()); reconcileErr != nil {
			logger.ErrorContext(ctx, "Queue reconciliation incomplete", "error", reconcileErr)
		}
	} else {
		reseedHandler := app.CreateReseedQueueCommandHandler()
		queued, reseedErr := reseedHandler.Handle(ctx, commands.NewReseedQueueCommand())
		if reseedErr != nil {
			logger.ErrorContext(ctx, "Queue reseed incomplete", "error", reseedErr)
		}
		logger.InfoContext(ctx, "Queue rebuilt from order store", "queue_length", queued)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		app.Engine().Stop(ctx)
		return err
	}

	e := newEchoServer(&app, registry)
	addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if startErr := e.Start(addr); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			return startErr
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := e.Shutdown(shutdownCtx)
		jobManager.StopAll()
		app.Engine().Stop(shutdownCtx)
		logger.InfoContext(shutdownCtx, "Service stopped")
		return shutdownErr
	})

	return g.Wait()
}

func newEchoServer(app *cmd.CompositionRoot, registry *prometheus.Registry) *echo.Echo {
	placeOrderHandler := app.CreatePlaceOrderCommandHandler()
	cancelOrderHandler := app.CreateCancelOrderCommandHandler()
	completeOrderHandler := app.CreateCompleteOrderCommandHandler()

	server := httpadapter.NewServer(
		&placeOrderHandler,
		&cancelOrderHandler,
		&completeOrderHandler,
		app.CreateGetOrderETAQueryHandler(),
		app.CreateGetQueueQueryHandler(),
		app.CreateGetUnfinishedOrdersQueryHandler(),
		app.QueryFacade(),
		app.Engine(),
	)

	e := echo.New()
	e.HideBanner = true
	server.Register(e, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return e
}

func openSnapshotStore(configs cmd.Config) (ports.SnapshotStore, func(), error) {
	if configs.RedisURL == "" {
		return nil, func() {}, nil
	}

	opts, err := redis.ParseURL(configs.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	closeClient := func() { _ = client.Close() }
	return snapshotstore.NewRedisSnapshotStore(client, configs.SnapshotKey), closeClient, nil
}

// openStatusPublisher connects to RabbitMQ when configured. Events are best
// effort, so a broker that cannot be reached only disables publishing.
func openStatusPublisher(ctx context.Context, configs cmd.Config, logger *slog.Logger) (ports.StatusPublisher, func()) {
	if configs.RabbitMQURL == "" {
		return nil, func() {}
	}

	publisher, err := statuspublisher.Dial(configs.RabbitMQURL, configs.StatusExchange)
	if err != nil {
		logger.WarnContext(ctx, "Status events disabled", "error", err)
		return nil, func() {}
	}
	return publisher, func() { _ = publisher.Close() }
}
