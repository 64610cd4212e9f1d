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

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsyaark/api/internal/config"
	"github.com/matsyaark/api/internal/handler"
	"github.com/matsyaark/api/internal/logging"
	"github.com/matsyaark/api/internal/metrics"
	middlewarepkg "github.com/matsyaark/api/internal/middleware"
	"github.com/matsyaark/api/internal/router"
	"github.com/matsyaark/api/internal/service"
	"github.com/matsyaark/api/internal/vision"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	repo, closeStore, err := openStore(connectCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer closeStore()

	if err := ensureSchema(connectCtx, repo); err != nil {
		return fmt.Errorf("failed to prepare database: %w", err)
	}

	describer, err := vision.NewGeminiClient(ctx, vision.Options{
		APIKey:      cfg.Vision.APIKey,
		Model:       cfg.Vision.Model,
		Temperature: cfg.Vision.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to create vision client: %w", err)
	}

	m := metrics.New()
	contactService := service.NewContactService(repo, service.NewContactValidator(cfg.PhoneRegion))

	handlers := router.Handlers{
		Contact: handler.NewContactHandler(contactService, logger, m),
		Vision:  handler.NewVisionHandler(describer, cfg.UploadDir, cfg.Vision.Timeout, logger, m),
	}
	if cfg.InferenceBaseURL != "" {
		var client *http.Client
		if !cfg.InferenceIDToken {
			client = &http.Client{Timeout: cfg.InferenceTimeout}
		}
		handlers.Detections = handler.NewDetectionsHandler(client, cfg.InferenceBaseURL, cfg.InferenceTimeout, logger)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(middlewarepkg.Metrics(m))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:  cfg.CORSAllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, middlewarepkg.HeaderRequestID},
		ExposeHeaders: []string{middlewarepkg.HeaderRequestID},
	}))

	router.Register(e, cfg, handlers, m)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port), zap.String("vision_model", describer.Model()))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	return nil
}
