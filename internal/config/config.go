// Package config resolves the server settings from flags, WEATHER_*
// environment variables, an optional config file and built-in defaults, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/patrickdappollonio/mcp-weather/internal/observability"
	"github.com/spf13/viper"
)

// Supported transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Keys understood by Load. Each is also readable from WEATHER_<KEY>.
const (
	KeyTransport       = "transport"
	KeyAddr            = "addr"
	KeyEndpointPath    = "endpoint_path"
	KeyAPIBase         = "api_base"
	KeyUserAgent       = "user_agent"
	KeyRequestTimeout  = "request_timeout"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyMetricsAddr     = "metrics_addr"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
)

const envPrefix = "WEATHER"

// Config holds all server settings.
type Config struct {
	Transport    string
	Addr         string
	EndpointPath string

	// APIBase is the weather provider root URL.
	APIBase string

	// UserAgent identifies this server to the provider. Requests without
	// it are rejected upstream.
	UserAgent string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// MetricsAddr, when set in stdio mode, starts a side listener serving
	// /metrics and /healthz. The http transport always serves both.
	MetricsAddr string

	LogLevel  slog.Level
	LogFormat string
}

// NewViper returns a viper instance with the defaults and environment
// binding Load expects.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyTransport, TransportStdio)
	v.SetDefault(KeyAddr, "127.0.0.1:8000")
	v.SetDefault(KeyEndpointPath, "/mcp")
	v.SetDefault(KeyAPIBase, "https://api.weather.gov")
	v.SetDefault(KeyUserAgent, "weather-app/2.0")
	v.SetDefault(KeyRequestTimeout, "30s")
	v.SetDefault(KeyShutdownTimeout, "10s")
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, observability.FormatText)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	requestTimeout, err := parseDuration(v, KeyRequestTimeout)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration(v, KeyShutdownTimeout)
	if err != nil {
		return nil, err
	}

	level, err := observability.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Transport:       strings.ToLower(strings.TrimSpace(v.GetString(KeyTransport))),
		Addr:            strings.TrimSpace(v.GetString(KeyAddr)),
		EndpointPath:    strings.TrimSpace(v.GetString(KeyEndpointPath)),
		APIBase:         strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBase)), "/"),
		UserAgent:       strings.TrimSpace(v.GetString(KeyUserAgent)),
		RequestTimeout:  requestTimeout,
		ShutdownTimeout: shutdownTimeout,
		MetricsAddr:     strings.TrimSpace(v.GetString(KeyMetricsAddr)),
		LogLevel:        level,
		LogFormat:       strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q: supported values are %q and %q", c.Transport, TransportStdio, TransportHTTP)
	}

	if c.Transport == TransportHTTP && c.Addr == "" {
		return errors.New("addr is required for the http transport")
	}

	if !strings.HasPrefix(c.EndpointPath, "/") {
		return fmt.Errorf("endpoint_path must start with \"/\", got %q", c.EndpointPath)
	}

	base, err := url.Parse(c.APIBase)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return fmt.Errorf("api_base must be an absolute URL, got %q", c.APIBase)
	}

	if c.UserAgent == "" {
		return errors.New("user_agent is required: the weather provider rejects anonymous requests")
	}

	switch c.LogFormat {
	case observability.FormatText, observability.FormatJSON:
	default:
		return fmt.Errorf("unknown log_format %q: supported values are %q and %q", c.LogFormat, observability.FormatText, observability.FormatJSON)
	}

	return nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return d, nil
}
