package weather

import (
	"fmt"
	"strings"

	"github.com/patrickdappollonio/mcp-weather/internal/nws"
)

// Text returned when the provider has nothing to report. Clients may match
// on these strings.
const (
	NoActiveAlerts = "No active alerts found."
	NoForecastData = "No forecast data available."
)

// Delimiter terminates every rendered alert or forecast block.
const Delimiter = "---"

// FormatAlerts renders each alert as a five-line block followed by the
// delimiter line, keeping the input order.
func FormatAlerts(alerts []nws.AlertFeature) string {
	if len(alerts) == 0 {
		return NoActiveAlerts
	}

	var sb strings.Builder
	sb.Grow(len(alerts) * 200)

	for _, alert := range alerts {
		fmt.Fprintf(&sb, "Event: %s\nArea: %s\nSeverity: %s\nStatus: %s\nHeadline: %s\n%s\n",
			alert.Event,
			alert.AreaDescription,
			alert.Severity,
			alert.Status,
			alert.Headline,
			Delimiter,
		)
	}

	return sb.String()
}

// FormatForecast renders each period as a block of name, temperature, wind
// and short forecast followed by the delimiter line, keeping the input order.
// The degree sign is written as the UTF-8 encoded U+00B0.
func FormatForecast(periods []nws.ForecastPeriod) string {
	if len(periods) == 0 {
		return NoForecastData
	}

	var sb strings.Builder
	sb.Grow(len(periods) * 150)

	for _, period := range periods {
		fmt.Fprintf(&sb, "Name: %s\nTemperature: %d°%s\nWind: %s %s\nForecast: %s\n%s\n",
			period.Name,
			period.Temperature,
			period.TemperatureUnit,
			period.WindSpeed,
			period.WindDirection,
			period.ShortForecast,
			Delimiter,
		)
	}

	return sb.String()
}
