package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/PhotoSearch/cmd/server/factory"
	"github.com/PhotoSearch/internal/app"
	"github.com/PhotoSearch/internal/infra/tracing"
	transport "github.com/PhotoSearch/internal/transport/http"
	"github.com/PhotoSearch/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	fx.New(
		fx.Supply(cfg),
		fx.Provide(
			// Infrastructure
			factory.NewMongoClient,
			factory.NewPageArchive,
			factory.NewEventProducer,

			// Providers
			factory.NewRemoteClient,
			factory.NewResponseMapper,

			// Services
			factory.NewPhotoRepository,
			factory.NewSearchController,
			factory.NewStateBroadcaster,

			// HTTP Server
			AsController,
			transport.NewHTTPServer,
		),
		fx.Invoke(
			SetupTracer,
			WaitForReady, // Block until dependencies are ready
			RegisterHooks,
			StartServer,
		),
	).Run()
}

// AsController exposes the search controller to the HTTP façade.
func AsController(c *app.SearchController) transport.Controller {
	return c
}

// --- Invokers ---

func RegisterHooks(lc fx.Lifecycle, controller *app.SearchController, broadcaster *app.StateBroadcaster) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			broadcaster.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			controller.Close()
			cancel()
			return broadcaster.Stop()
		},
	})
}

func SetupTracer(lc fx.Lifecycle, cfg *config.Config) error {
	if !cfg.OtelEnabled {
		slog.Info("Tracing disabled")
		return nil
	}

	ctx := context.Background()
	shutdown, err := tracing.InitTracer(ctx, cfg.OtelServiceName)
	if err != nil {
		slog.Error("Failed to initialize tracer", "error", err)
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Info("Shutting down tracer provider")
			return shutdown(ctx)
		},
	})
	return nil
}

// WaitForReady blocks until the configured dependencies are ready.
func WaitForReady(
	cfg *config.Config,
	mongoClient *mongo.Client,
) error {
	ctx := context.Background()
	waiter := app.NewReadinessWaiter(
		mongoClient,
		cfg.KafkaBrokers,
		cfg.KafkaTopic,
	)
	return waiter.WaitForDependencies(ctx)
}

func StartServer(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				slog.Info("Starting HTTP server", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
