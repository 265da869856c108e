// Package weather turns provider data into tool answers: it resolves
// coordinates to forecast periods and renders alerts and forecasts as the
// fixed-layout text returned to clients.
package weather

import (
	"context"

	"github.com/patrickdappollonio/mcp-weather/internal/nws"
)

// GridClient is the subset of the provider client the Resolver needs.
type GridClient interface {
	GridEndpoint(ctx context.Context, coords nws.Coordinates) (nws.GridEndpoint, error)
	Forecast(ctx context.Context, endpoint nws.GridEndpoint) ([]nws.ForecastPeriod, error)
}

// Resolver answers forecast queries by coordinates. The provider has no
// single-call lookup, so every resolution first asks which grid endpoint
// serves the point and then fetches that endpoint's forecast.
type Resolver struct {
	client GridClient
}

// NewResolver creates a Resolver backed by client.
func NewResolver(client GridClient) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the forecast periods for coords. Errors from either stage
// are returned as they are; when the point lookup fails the forecast is
// never requested. The grid endpoint is used once and then dropped.
func (r *Resolver) Resolve(ctx context.Context, coords nws.Coordinates) ([]nws.ForecastPeriod, error) {
	endpoint, err := r.client.GridEndpoint(ctx, coords)
	if err != nil {
		return nil, err
	}

	// The caller may have gone away while the first request was in flight.
	if err := ctx.Err(); err != nil {
		return nil, &nws.FetchError{Kind: nws.KindTransport, Endpoint: nws.EndpointForecast, URL: string(endpoint), Err: err}
	}

	return r.client.Forecast(ctx, endpoint)
}
