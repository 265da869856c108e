// Package nws is a small read-only client for the National Weather Service
// API. It performs single-attempt GET requests, decodes the GeoJSON documents
// the tools need and reports every failure as a *FetchError.
package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/patrickdappollonio/mcp-weather/internal/observability"
)

// Endpoint labels used in diagnostics and metrics.
const (
	EndpointAlerts   = "alerts"
	EndpointPoints   = "points"
	EndpointForecast = "forecast"
)

// Config holds the settings needed to build a Client.
type Config struct {
	// BaseURL is the provider root, e.g. https://api.weather.gov.
	BaseURL string

	// UserAgent is sent on every request. The provider rejects requests
	// that do not identify themselves.
	UserAgent string

	// Timeout bounds a single request end to end. Zero means no limit.
	Timeout time.Duration
}

// Client issues requests against the provider. It holds no per-request state
// and is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a provider client from cfg.
func NewClient(cfg *Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
		logger:  logger,
	}
}

// ActiveAlerts returns the active alerts for an area such as a US state
// code. The area is not validated here.
func (c *Client) ActiveAlerts(ctx context.Context, area string) ([]AlertFeature, error) {
	target := fmt.Sprintf("%s/alerts/active?area=%s", c.baseURL, url.QueryEscape(area))
	return getJSON(ctx, c, EndpointAlerts, target, alertsPayload.features)
}

// GridEndpoint resolves the forecast URL that serves the given point.
func (c *Client) GridEndpoint(ctx context.Context, coords Coordinates) (GridEndpoint, error) {
	target := fmt.Sprintf("%s/points/%s,%s", c.baseURL, url.PathEscape(coords.Latitude), url.PathEscape(coords.Longitude))
	return getJSON(ctx, c, EndpointPoints, target, pointsPayload.endpoint)
}

// Forecast fetches the forecast periods served by a grid endpoint, in the
// order the provider returns them.
func (c *Client) Forecast(ctx context.Context, endpoint GridEndpoint) ([]ForecastPeriod, error) {
	return getJSON(ctx, c, EndpointForecast, string(endpoint), forecastPayload.periods)
}

// getJSON performs one GET against target, decodes a 200 response into the
// payload type P and converts it with convert. Every outcome is counted
// under the endpoint label.
func getJSON[P, T any](ctx context.Context, c *Client, endpoint, target string, convert func(P) (T, error)) (T, error) {
	var zero T

	start := c.clock.Now()
	defer func() {
		c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(c.clock.Since(start).Seconds())
	}()

	c.logger.Debug("making request", "endpoint", endpoint, "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return zero, c.fail(endpoint, &FetchError{Kind: KindTransport, URL: target, Err: err})
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, c.fail(endpoint, &FetchError{Kind: KindTransport, URL: target, Err: err})
	}
	defer resp.Body.Close()

	c.logger.Info("received response", "endpoint", endpoint, "url", target, "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return zero, c.fail(endpoint, &FetchError{Kind: KindStatus, URL: target, StatusCode: resp.StatusCode})
	}

	var payload P
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// A body cut short by cancellation or the client timeout is a
		// transport problem, not a malformed document.
		if ctx.Err() != nil || isTimeout(err) {
			return zero, c.fail(endpoint, &FetchError{Kind: KindTransport, URL: target, StatusCode: resp.StatusCode, Err: err})
		}
		return zero, c.fail(endpoint, &FetchError{Kind: KindDecode, URL: target, StatusCode: resp.StatusCode, Err: err})
	}

	result, err := convert(payload)
	if err != nil {
		return zero, c.fail(endpoint, &FetchError{Kind: KindDecode, URL: target, StatusCode: resp.StatusCode, Err: err})
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return result, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) fail(endpoint string, err *FetchError) error {
	err.Endpoint = endpoint
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, err.Kind.String()).Inc()
	return err
}
