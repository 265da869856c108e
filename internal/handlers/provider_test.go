package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/patrickdappollonio/mcp-weather/internal/nws"
	"github.com/patrickdappollonio/mcp-weather/internal/observability"
	"github.com/patrickdappollonio/mcp-weather/internal/weather"
)

const twoAlerts = `{"features":[
	{"properties":{"event":"Heat Advisory","areaDesc":"Inland Empire","severity":"Moderate","status":"Actual","headline":"Heat Advisory issued"}},
	{"properties":{"event":"Wind Advisory","areaDesc":"Mojave Desert","severity":"Minor","status":"Actual","headline":"Wind Advisory issued"}}
]}`

const twoPeriods = `{"properties":{"periods":[
	{"name":"Tonight","temperature":58,"temperatureUnit":"F","windSpeed":"5 mph","windDirection":"SW","shortForecast":"Patchy Fog"},
	{"name":"Thursday","temperature":75,"temperatureUnit":"F","windSpeed":"5 to 10 mph","windDirection":"W","shortForecast":"Sunny"}
]}}`

// fakeProvider imitates the three provider endpoints. Each route can be
// replaced with a custom handler and every request is counted by stage.
type fakeProvider struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int

	alerts   http.HandlerFunc
	points   http.HandlerFunc
	forecast http.HandlerFunc
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	p := &fakeProvider{hits: make(map[string]int)}
	p.alerts = respond(http.StatusOK, twoAlerts)
	p.forecast = respond(http.StatusOK, twoPeriods)
	p.points = func(w http.ResponseWriter, r *http.Request) {
		respond(http.StatusOK, `{"properties":{"forecast":"http://`+r.Host+`/gridpoints/LOX/155,45/forecast"}}`)(w, r)
	}

	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stage := ""
		switch {
		case r.URL.Path == "/alerts/active":
			stage = nws.EndpointAlerts
		case strings.HasPrefix(r.URL.Path, "/points/"):
			stage = nws.EndpointPoints
		case strings.HasPrefix(r.URL.Path, "/gridpoints/"):
			stage = nws.EndpointForecast
		default:
			http.NotFound(w, r)
			return
		}

		p.mu.Lock()
		p.hits[stage]++
		handler := map[string]http.HandlerFunc{
			nws.EndpointAlerts:   p.alerts,
			nws.EndpointPoints:   p.points,
			nws.EndpointForecast: p.forecast,
		}[stage]
		p.mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(p.Close)

	return p
}

// Set replaces the handler serving stage.
func (p *fakeProvider) Set(stage string, handler http.HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch stage {
	case nws.EndpointAlerts:
		p.alerts = handler
	case nws.EndpointPoints:
		p.points = handler
	case nws.EndpointForecast:
		p.forecast = handler
	}
}

func (p *fakeProvider) Hits(stage string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits[stage]
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// hang blocks until the client gives up on the request.
func hang(w http.ResponseWriter, r *http.Request) {
	<-r.Context().Done()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testDeps struct {
	metrics  *observability.Metrics
	client   *nws.Client
	alerts   *AlertHandler
	forecast *ForecastHandler
}

func newTestDeps(baseURL string, timeout time.Duration) testDeps {
	metrics := observability.NewMetricsForTesting()
	logger := discardLogger()
	client := nws.NewClient(&nws.Config{BaseURL: baseURL, UserAgent: "weather-test/1.0", Timeout: timeout}, metrics, logger)

	return testDeps{
		metrics:  metrics,
		client:   client,
		alerts:   NewAlertHandler(client, metrics, logger),
		forecast: NewForecastHandler(weather.NewResolver(client), metrics, logger),
	}
}
