package handlers

import (
	"errors"
	"log/slog"

	"github.com/patrickdappollonio/mcp-weather/internal/nws"
	"github.com/patrickdappollonio/mcp-weather/internal/observability"
)

// recordFetchFailure logs a provider error that is about to be replaced by
// fallback text. The client only sees the fallback, so this is where the
// failing stage, URL and status remain visible.
func recordFetchFailure(logger *slog.Logger, metrics *observability.Metrics, tool, msg string, err error) {
	endpoint, kind := "unknown", "unknown_error"
	attrs := []any{"tool", tool, "error", err}

	var fetchErr *nws.FetchError
	if errors.As(err, &fetchErr) {
		endpoint, kind = fetchErr.Endpoint, fetchErr.Kind.String()
		attrs = append(attrs, "endpoint", endpoint, "kind", kind, "url", fetchErr.URL)
		if fetchErr.StatusCode != 0 {
			attrs = append(attrs, "status", fetchErr.StatusCode)
		}
	}

	logger.Error(msg, attrs...)
	metrics.ToolFallbacks.WithLabelValues(tool, endpoint, kind).Inc()
}
