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

// ToolGetAlerts is the name clients use to request active alerts.
const ToolGetAlerts = "get_alerts"

// AlertsFallback is returned in place of any provider error.
const AlertsFallback = "No alerts found or an error occurred."

// AlertsSource looks up the active alerts for an area.
type AlertsSource interface {
	ActiveAlerts(ctx context.Context, area string) ([]nws.AlertFeature, error)
}

type AlertHandler struct {
	source  AlertsSource
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewAlertHandler(source AlertsSource, metrics *observability.Metrics, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{
		source:  source,
		metrics: metrics,
		logger:  logger,
	}
}

type GetAlertsParams struct {
	State string `json:"state"`
}

// Alerts returns the formatted active alerts for state, or AlertsFallback
// when the provider lookup fails. It never returns an error.
func (h *AlertHandler) Alerts(ctx context.Context, state string) string {
	h.logger.Info("received request for weather alerts", "state", state)

	alerts, err := h.source.ActiveAlerts(ctx, state)
	if err != nil {
		recordFetchFailure(h.logger, h.metrics, ToolGetAlerts, "failed to fetch alerts", err)
		return AlertsFallback
	}

	return weather.FormatAlerts(alerts)
}

func (h *AlertHandler) GetAlerts(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	var params GetAlertsParams
	if err := request.BindArguments(&params); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}

	return h.Alerts(ctx, params.State), nil
}

// GetTools returns all alert-related MCP tools
func (h *AlertHandler) GetTools() []MCPTool {
	return []MCPTool{
		NewMCPTool(
			mcp.NewTool(ToolGetAlerts,
				mcp.WithDescription("Get weather alerts for a US state"),
				mcp.WithString("state",
					mcp.Required(),
					mcp.Description("the US state to get alerts for"),
				),
			),
			h.GetAlerts,
		),
	}
}
