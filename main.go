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

	"github.com/mark3labs/mcp-go/server"
	"github.com/patrickdappollonio/mcp-weather/internal/config"
	"github.com/patrickdappollonio/mcp-weather/internal/handlers"
	"github.com/patrickdappollonio/mcp-weather/internal/nws"
	"github.com/patrickdappollonio/mcp-weather/internal/observability"
	"github.com/patrickdappollonio/mcp-weather/internal/transport"
	"github.com/patrickdappollonio/mcp-weather/internal/weather"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

const serverName = "mcp-weather"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	cmd := &cobra.Command{
		Use:          serverName,
		Short:        "MCP server answering weather alert and forecast questions",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to load config %s: %w", cfgFile, err)
				}
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "path to a config file (yaml, json or toml)")
	flags.String("transport", config.TransportStdio, "transport to serve MCP over: stdio or http")
	flags.String("addr", "127.0.0.1:8000", "listen address for the http transport")
	flags.String("endpoint-path", "/mcp", "path of the MCP endpoint for the http transport")
	flags.String("api-base", "https://api.weather.gov", "weather provider base URL")
	flags.String("user-agent", "weather-app/2.0", "User-Agent sent to the weather provider")
	flags.String("request-timeout", "30s", "timeout for each weather provider request")
	flags.String("shutdown-timeout", "10s", "time allowed for in-flight requests on shutdown")
	flags.String("metrics-addr", "", "listen address for /metrics and /healthz in stdio mode (disabled when empty)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", observability.FormatText, "log format: text or json")

	bindFlags(v, cmd, map[string]string{
		config.KeyTransport:       "transport",
		config.KeyAddr:            "addr",
		config.KeyEndpointPath:    "endpoint-path",
		config.KeyAPIBase:         "api-base",
		config.KeyUserAgent:       "user-agent",
		config.KeyRequestTimeout:  "request-timeout",
		config.KeyShutdownTimeout: "shutdown-timeout",
		config.KeyMetricsAddr:     "metrics-addr",
		config.KeyLogLevel:        "log-level",
		config.KeyLogFormat:       "log-format",
	})

	return cmd
}

// bindFlags makes each flag override its config key when set.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// newMCPServer wires the weather provider client, the tool handlers and
// the router into an MCP server.
func newMCPServer(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*server.MCPServer, error) {
	client := nws.NewClient(&nws.Config{
		BaseURL:   cfg.APIBase,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	}, metrics, logger)

	alertHandler := handlers.NewAlertHandler(client, metrics, logger)
	forecastHandler := handlers.NewForecastHandler(weather.NewResolver(client), metrics, logger)

	router, err := handlers.NewRouter(metrics, logger, alertHandler, forecastHandler)
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	s := server.NewMCPServer(
		serverName,
		version,
		server.WithInstructions("A simple weather forecaster"),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	router.Attach(s)

	return s, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	// stdout belongs to the stdio transport, so logs always go to stderr.
	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	s, err := newMCPServer(cfg, metrics, logger)
	if err != nil {
		return err
	}

	logger.Info("starting weather MCP server",
		"version", version,
		"transport", cfg.Transport,
		"api_base", cfg.APIBase,
	)

	switch cfg.Transport {
	case config.TransportHTTP:
		httpServer := transport.NewHTTPServer(cfg.Addr, logger)
		httpServer.MountMCP(cfg.EndpointPath, s)
		logger.Info("MCP endpoint ready", "url", "http://"+cfg.Addr+cfg.EndpointPath)
		return serveUntilDone(ctx, httpServer, cfg, logger)

	default:
		if cfg.MetricsAddr != "" {
			sidecar := transport.NewHTTPServer(cfg.MetricsAddr, logger)
			go func() {
				if err := serveUntilDone(ctx, sidecar, cfg, logger); err != nil {
					logger.Error("metrics server failed", "error", err)
				}
			}()
		}

		return transport.ServeStdio(ctx, s, os.Stdin, os.Stdout, logger)
	}
}

// serveUntilDone runs srv until ctx is cancelled, then drains it within the
// configured shutdown timeout.
func serveUntilDone(ctx context.Context, srv *transport.HTTPServer, cfg *config.Config, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server", "timeout", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}
