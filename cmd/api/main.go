package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/api/middleware"
	"github.com/ds8/tip-allowance/internal/api/rest"
	"github.com/ds8/tip-allowance/internal/api/server"
	"github.com/ds8/tip-allowance/internal/config"
	"github.com/ds8/tip-allowance/internal/engine"
	"github.com/ds8/tip-allowance/internal/logger"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "tip-allowance-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting tip allowance API")

	if err := cfg.Validate(); err != nil {
		logger.FatalCtx(ctx, "Invalid configuration", zap.Error(err))
	}

	eng, err := engine.New(ctx, &cfg.EngineConfig, adapter.NewClock())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize engine", zap.Error(err))
	}
	defer eng.Close()

	// Expired cache rows are swept in the background
	if eng.Sweeper != nil {
		go eng.Sweeper.Run(ctx)
	}

	handler := rest.NewHandler(eng.Stats, eng.Resolver, eng.Raindrop, eng.Window.Period, cfg.Stats.RequestTimeout)

	authenticator, err := middleware.NewAuthenticator(middleware.AuthConfig{
		JWTPublicKey: cfg.Auth.JWTPublicKey,
		APIKeys:      cfg.Auth.APIKeys,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Invalid auth configuration", zap.Error(err))
	}

	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth:         authenticator,
	}
	srv := server.New(serverConfig, handler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
