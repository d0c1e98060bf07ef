package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"party-status-backend/config"
	"party-status-backend/internal/acuity"
	"party-status-backend/internal/api"
	"party-status-backend/internal/board"
	"party-status-backend/internal/logging"
	"party-status-backend/internal/metrics"
	"party-status-backend/internal/notification"
	"party-status-backend/internal/party"
	"party-status-backend/internal/slots"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	logger.Info().Str("path", configPath).Str("timezone", cfg.Venue.Timezone).Msg("configuration loaded")

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("party status service stopped with error")
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	metrics.Register()
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := slots.SystemClock{}
	engine := slots.NewEngine(slots.OptionsFromConfig(cfg), clock)
	parties := party.NewService(
		acuity.NewClient(cfg.Acuity, logger),
		party.NewNormalizer(cfg.Location()),
		logger,
	)

	// Push is optional; without VAPID keys the board runs without notifications.
	var (
		notifier       board.Notifier
		registry       *notification.Registry
		webpushOptions *webpush.Options
	)
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		registry = notification.NewRegistry()
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, registry, webpushOptions, logger)
		pool.Start(ctx)
		notifier = pool
	} else {
		logger.Warn().Msg("VAPID keys are not configured, push notifications disabled")
	}

	var boardReader api.BoardReader
	if !cfg.Board.Disabled {
		b := board.New(cfg.Board, parties, engine, clock, notifier, logger)
		go b.Run(ctx)
		boardReader = b
	}

	handler := api.NewHandler(parties, engine, boardReader, registry, webpushOptions, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(handler, cfg.Server, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received, stopping services")
	case err := <-errCh:
		return fmt.Errorf("HTTP server ListenAndServe: %w", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}

	logger.Info().Msg("server gracefully stopped")
	return nil
}
