package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/patrickdappollonio/mcp-weather/internal/nws"
	"github.com/patrickdappollonio/mcp-weather/internal/observability"
	"github.com/patrickdappollonio/mcp-weather/internal/weather"
)

// ToolGetForecast is the name clients use to request a point forecast.
const ToolGetForecast = "get_forecast"

// ForecastFallback is returned in place of any provider error, whichever
// lookup stage failed.
const ForecastFallback = "No forecast found or an error occurred."

// ForecastResolver resolves coordinates to forecast periods.
type ForecastResolver interface {
	Resolve(ctx context.Context, coords nws.Coordinates) ([]nws.ForecastPeriod, error)
}

type ForecastHandler struct {
	resolver ForecastResolver
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func NewForecastHandler(resolver ForecastResolver, metrics *observability.Metrics, logger *slog.Logger) *ForecastHandler {
	return &ForecastHandler{
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
	}
}

type GetForecastParams struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Forecast returns the formatted forecast for coords, or ForecastFallback
// when either provider lookup fails. It never returns an error.
func (h *ForecastHandler) Forecast(ctx context.Context, coords nws.Coordinates) string {
	h.logger.Info("received request for forecast", "latitude", coords.Latitude, "longitude", coords.Longitude)

	periods, err := h.resolver.Resolve(ctx, coords)
	if err != nil {
		recordFetchFailure(h.logger, h.metrics, ToolGetForecast, "failed to fetch forecast", err)
		return ForecastFallback
	}

	return weather.FormatForecast(periods)
}

func (h *ForecastHandler) GetForecast(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	var params GetForecastParams
	if err := request.BindArguments(&params); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}

	return h.Forecast(ctx, nws.Coordinates{Latitude: params.Latitude, Longitude: params.Longitude}), nil
}

// GetTools returns all forecast-related MCP tools
func (h *ForecastHandler) GetTools() []MCPTool {
	return []MCPTool{
		NewMCPTool(
			mcp.NewTool(ToolGetForecast,
				mcp.WithDescription("Get forecast using latitude and longitude coordinates"),
				mcp.WithString("latitude",
					mcp.Required(),
					mcp.Description("latitude of the location in decimal format"),
				),
				mcp.WithString("longitude",
					mcp.Required(),
					mcp.Description("longitude of the location in decimal format"),
				),
			),
			h.GetForecast,
		),
	}
}
