package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/fleetconsole/internal/capability"
	"github.com/xiaot623/gogo/fleetconsole/internal/config"
	"github.com/xiaot623/gogo/fleetconsole/internal/dispatch"
	"github.com/xiaot623/gogo/fleetconsole/internal/fleet"
	"github.com/xiaot623/gogo/fleetconsole/internal/hub"
	"github.com/xiaot623/gogo/fleetconsole/internal/metrics"
	"github.com/xiaot623/gogo/fleetconsole/internal/policy"
	"github.com/xiaot623/gogo/fleetconsole/internal/random"
	"github.com/xiaot623/gogo/fleetconsole/internal/repository"
	"github.com/xiaot623/gogo/fleetconsole/internal/scheduler"
	"github.com/xiaot623/gogo/fleetconsole/internal/service"
	handler "github.com/xiaot623/gogo/fleetconsole/internal/transport/http"
	"github.com/xiaot623/gogo/fleetconsole/internal/transport/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Console stopped with error", zap.Error(err))
	}
	logger.Info("Console stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting fleet console",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("ws_port", cfg.WSPort),
		zap.String("database", cfg.DatabaseURL))

	// Seed data
	assets, err := config.LoadFleet(cfg.FleetFile)
	if err != nil {
		return err
	}
	registry, err := fleet.New(assets, logger.Named("fleet"))
	if err != nil {
		return fmt.Errorf("invalid fleet: %w", err)
	}

	// Initialize store
	db, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer db.Close()

	// Initialize policy engine
	policyEngine, err := policy.NewEngineFromFile(ctx, cfg.PolicyFile)
	if err != nil {
		return fmt.Errorf("failed to initialize policy engine: %w", err)
	}

	m := metrics.New()
	connectionHub := hub.NewHub(logger.Named("hub"))
	connectionHub.OnCountChange = m.SetConnections
	loop := scheduler.NewLoop(logger.Named("scheduler"))

	timing := dispatch.Timing{
		Stagger:        cfg.StaggerInterval,
		Highlight:      cfg.HighlightDuration,
		SelectionClear: cfg.SelectionClearDelay,
	}
	dispatcher := dispatch.New(registry, policyEngine, loop, random.New(cfg.RandomSeed), timing, logger.Named("dispatch"))
	svc := service.New(db, capability.NewBuiltinRegistry(), registry, dispatcher, connectionHub, m, logger.Named("service"))

	apiServer := handler.NewAPIServer(svc, m, logger.Named("http"))
	wsEcho := handler.NewEcho(logger.Named("ws"))
	ws.NewServer(cfg, connectionHub, svc, logger.Named("ws")).RegisterRoutes(wsEcho)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		connectionHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		loop.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return serve(apiServer, cfg.HTTPPort)
	})
	g.Go(func() error {
		return serve(wsEcho, cfg.WSPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down console...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), wsEcho.Shutdown(shutdownCtx))
	})

	logger.Info("Console started",
		zap.Int("assets", registry.Len()),
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("ws_port", cfg.WSPort))
	return g.Wait()
}

func serve(e *echo.Echo, port int) error {
	if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server on port %d: %w", port, err)
	}
	return nil
}
