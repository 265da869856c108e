package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/patrickdappollonio/mcp-weather/internal/nws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGridClient struct {
	endpoint    nws.GridEndpoint
	pointsErr   error
	periods     []nws.ForecastPeriod
	forecastErr error

	pointsCalls   []nws.Coordinates
	forecastCalls []nws.GridEndpoint

	onPoints func()
}

func (f *fakeGridClient) GridEndpoint(_ context.Context, coords nws.Coordinates) (nws.GridEndpoint, error) {
	f.pointsCalls = append(f.pointsCalls, coords)
	if f.onPoints != nil {
		f.onPoints()
	}
	return f.endpoint, f.pointsErr
}

func (f *fakeGridClient) Forecast(_ context.Context, endpoint nws.GridEndpoint) ([]nws.ForecastPeriod, error) {
	f.forecastCalls = append(f.forecastCalls, endpoint)
	return f.periods, f.forecastErr
}

var losAngeles = nws.Coordinates{Latitude: "34.05", Longitude: "-118.25"}

func TestResolver_Resolve(t *testing.T) {
	client := &fakeGridClient{
		endpoint: "https://api.weather.gov/gridpoints/LOX/155,45/forecast",
		periods: []nws.ForecastPeriod{
			{Name: "Tonight", Temperature: 58, TemperatureUnit: "F"},
			{Name: "Thursday", Temperature: 75, TemperatureUnit: "F"},
		},
	}

	periods, err := NewResolver(client).Resolve(context.Background(), losAngeles)
	require.NoError(t, err)

	assert.Equal(t, client.periods, periods)
	assert.Equal(t, []nws.Coordinates{losAngeles}, client.pointsCalls)
	assert.Equal(t, []nws.GridEndpoint{client.endpoint}, client.forecastCalls)
}

func TestResolver_PointsFailureShortCircuits(t *testing.T) {
	kinds := []nws.ErrorKind{nws.KindTransport, nws.KindStatus, nws.KindDecode}

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			pointsErr := &nws.FetchError{Kind: kind, URL: "https://api.weather.gov/points/34.05,-118.25", StatusCode: 404}
			client := &fakeGridClient{pointsErr: pointsErr}

			periods, err := NewResolver(client).Resolve(context.Background(), losAngeles)
			assert.Nil(t, periods)
			assert.Same(t, pointsErr, err)
			assert.Empty(t, client.forecastCalls)
		})
	}
}

func TestResolver_ForecastFailurePropagates(t *testing.T) {
	forecastErr := &nws.FetchError{Kind: nws.KindTransport, URL: "https://api.weather.gov/gridpoints/LOX/155,45/forecast", Err: context.DeadlineExceeded}
	client := &fakeGridClient{
		endpoint:    "https://api.weather.gov/gridpoints/LOX/155,45/forecast",
		forecastErr: forecastErr,
	}

	periods, err := NewResolver(client).Resolve(context.Background(), losAngeles)
	assert.Nil(t, periods)
	assert.Same(t, forecastErr, err)
	assert.Len(t, client.forecastCalls, 1)
}

func TestResolver_CancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeGridClient{
		endpoint: "https://api.weather.gov/gridpoints/LOX/155,45/forecast",
		onPoints: cancel,
	}

	periods, err := NewResolver(client).Resolve(ctx, losAngeles)
	assert.Nil(t, periods)

	var fetchErr *nws.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, nws.KindTransport, fetchErr.Kind)
	assert.Equal(t, nws.EndpointForecast, fetchErr.Endpoint)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.forecastCalls)
}
