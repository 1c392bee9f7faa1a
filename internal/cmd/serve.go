package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	apperrors "github.com/sendlens/sendlens/internal/errors"
	"github.com/sendlens/sendlens/internal/mcptools"
	"github.com/sendlens/sendlens/internal/observability"
	"github.com/sendlens/sendlens/internal/config"
	"github.com/sendlens/sendlens/internal/core/quota"
	"github.com/sendlens/sendlens/internal/server"
	"github.com/sendlens/sendlens/internal/server/handlers"
)

var (
	serveHTTP  bool
	serverPort int
	serverHost string
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return apperrors.NewInternal("telemetry system not initialized")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gateway",
	Long: `Start the MCP gateway.

By default the gateway speaks MCP over stdin/stdout, which is what MCP
clients spawn. With --http it serves the streamable HTTP transport at
/mcp alongside health, version and metrics endpoints.

Signal Handling (HTTP mode):
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()

		if cfg.Platform.APIKey == "" {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid,
				"No platform API key configured (set platform.api_key or SENDLENS_PLATFORM_API_KEY)", nil)
		}

		// All diagnostics go to stderr: in stdio mode stdout carries
		// protocol frames.
		observability.InitServerLogger("sendlens", cfg.Logging.Level)
		logger := observability.ServerLogger

		registry := quota.NewRegistry()
		mcpSrv := mcptools.New(cfg, registry, versionInfo.Version, logger)

		if serveHTTP {
			return runHTTP(cmd.Context(), cfg, mcpSrv)
		}
		return runStdio(cmd.Context(), mcpSrv)
	},
}

// runStdio serves a single MCP session over stdin/stdout.
func runStdio(parent context.Context, mcpSrv *mcptools.Server) error {
	logger := observability.ServerLogger

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	signals.OnShutdown(func(context.Context) error {
		logger.Info("Shutting down stdio session")
		cancel()
		return nil
	})

	go func() {
		if err := signals.Listen(ctx); err != nil {
			logger.Warn("Signal handler error", zap.Error(err))
		}
	}()

	logger.Info("Serving MCP over stdio",
		zap.String("version", versionInfo.Version))

	if err := mcpSrv.RunStdio(ctx); err != nil && ctx.Err() == nil {
		return apperrors.NewInternal("stdio session failed: " + err.Error())
	}
	return nil
}

// runHTTP serves the streamable HTTP transport with graceful shutdown.
func runHTTP(parent context.Context, cfg *config.Config, mcpSrv *mcptools.Server) error {
	logger := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics("sendlens", cfg.Metrics.Port); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return apperrors.NewInternal("metrics initialization failed: " + err.Error())
		}
	}

	logger.Info("Initializing server",
		zap.String("version", versionInfo.Version),
		zap.String("host", serverHost),
		zap.Int("port", serverPort),
		zap.Int("metrics_port", cfg.Metrics.Port))

	handlers.InitHealthManager(versionInfo.Version)
	hm := handlers.GetHealthManager()
	if cfg.Metrics.Enabled {
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
	}
	hm.RegisterChecker("platform_config", handlers.HealthCheckerFunc(func(context.Context) error {
		if cfg.Platform.APIKey == "" {
			return apperrors.NewConfigInvalid("platform API key not configured")
		}
		return nil
	}))

	srv := server.New(serverHost, serverPort, mcpSrv.HTTPHandler())

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}

	// Shutdown handlers run LIFO: server drains first, logger flushes last.
	signals.OnShutdown(func(ctx context.Context) error {
		logger.Info("Flushing logger...")
		if err := logger.Sync(); err != nil {
			// Sync errors are often benign (stderr already closed)
			logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})

	signals.OnShutdown(func(ctx context.Context) error {
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return apperrors.NewInternal("server shutdown failed: " + err.Error())
		}

		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	signals.OnReload(func(ctx context.Context) error {
		logger.Info("Received SIGHUP: attempting config reload")

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				logger.Info("No config file found - using defaults and environment variables")
				return nil
			}
			logger.Error("Failed to reload config file",
				zap.String("file", viper.ConfigFileUsed()),
				zap.Error(err))
			return apperrors.NewConfigInvalid("config reload failed: " + err.Error())
		}

		logger.Info("Configuration reloaded successfully",
			zap.String("file", viper.ConfigFileUsed()))
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server...",
			zap.String("host", serverHost),
			zap.Int("port", serverPort))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	go func() {
		if err := signals.Listen(parent); err != nil {
			logger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	if err := <-errChan; err != nil {
		return apperrors.NewInternal("server error: " + err.Error())
	}

	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve the streamable HTTP transport instead of stdio")
	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host (HTTP mode)")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port (HTTP mode)")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
