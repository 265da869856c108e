package nws

import "fmt"

// AlertFeature is a single active alert as reported by the provider.
type AlertFeature struct {
	Event           string
	AreaDescription string
	Severity        string
	Status          string
	Headline        string
}

// ForecastPeriod is one forecast time slot, for example "Tonight" or "Wednesday".
type ForecastPeriod struct {
	Name            string
	Temperature     int
	TemperatureUnit string
	WindSpeed       string
	WindDirection   string
	ShortForecast   string
}

// Coordinates are decimal-degree values kept as text. They are forwarded to
// the provider verbatim; the provider decides whether they are acceptable.
type Coordinates struct {
	Latitude  string
	Longitude string
}

// GridEndpoint is the provider-specific forecast URL resolved from a point
// lookup. It is only meaningful for the request that resolved it.
type GridEndpoint string

// The payload types below mirror the provider's GeoJSON documents. Every
// field is a pointer so that a missing or null value can be told apart from
// an empty one: the provider must send all of them or the document is
// rejected.

type alertsPayload struct {
	Features *[]alertFeaturePayload `json:"features"`
}

type alertFeaturePayload struct {
	Properties *alertProperties `json:"properties"`
}

type alertProperties struct {
	Event    *string `json:"event"`
	AreaDesc *string `json:"areaDesc"`
	Severity *string `json:"severity"`
	Status   *string `json:"status"`
	Headline *string `json:"headline"`
}

type pointsPayload struct {
	Properties *struct {
		Forecast *string `json:"forecast"`
	} `json:"properties"`
}

type forecastPayload struct {
	Properties *struct {
		Periods *[]periodPayload `json:"periods"`
	} `json:"properties"`
}

type periodPayload struct {
	Name            *string `json:"name"`
	Temperature     *int    `json:"temperature"`
	TemperatureUnit *string `json:"temperatureUnit"`
	WindSpeed       *string `json:"windSpeed"`
	WindDirection   *string `json:"windDirection"`
	ShortForecast   *string `json:"shortForecast"`
}

func (p alertsPayload) features() ([]AlertFeature, error) {
	if p.Features == nil {
		return nil, missingField("features")
	}

	out := make([]AlertFeature, 0, len(*p.Features))
	for i, f := range *p.Features {
		prefix := fmt.Sprintf("features[%d].properties", i)
		if f.Properties == nil {
			return nil, missingField(prefix)
		}

		props := f.Properties
		fields := []struct {
			name  string
			value *string
		}{
			{"event", props.Event},
			{"areaDesc", props.AreaDesc},
			{"severity", props.Severity},
			{"status", props.Status},
			{"headline", props.Headline},
		}
		for _, field := range fields {
			if field.value == nil {
				return nil, missingField(prefix + "." + field.name)
			}
		}

		out = append(out, AlertFeature{
			Event:           *props.Event,
			AreaDescription: *props.AreaDesc,
			Severity:        *props.Severity,
			Status:          *props.Status,
			Headline:        *props.Headline,
		})
	}

	return out, nil
}

func (p pointsPayload) endpoint() (GridEndpoint, error) {
	if p.Properties == nil {
		return "", missingField("properties")
	}
	if p.Properties.Forecast == nil {
		return "", missingField("properties.forecast")
	}
	return GridEndpoint(*p.Properties.Forecast), nil
}

func (p forecastPayload) periods() ([]ForecastPeriod, error) {
	if p.Properties == nil {
		return nil, missingField("properties")
	}
	if p.Properties.Periods == nil {
		return nil, missingField("properties.periods")
	}

	out := make([]ForecastPeriod, 0, len(*p.Properties.Periods))
	for i, period := range *p.Properties.Periods {
		prefix := fmt.Sprintf("properties.periods[%d]", i)
		switch {
		case period.Name == nil:
			return nil, missingField(prefix + ".name")
		case period.Temperature == nil:
			return nil, missingField(prefix + ".temperature")
		case period.TemperatureUnit == nil:
			return nil, missingField(prefix + ".temperatureUnit")
		case period.WindSpeed == nil:
			return nil, missingField(prefix + ".windSpeed")
		case period.WindDirection == nil:
			return nil, missingField(prefix + ".windDirection")
		case period.ShortForecast == nil:
			return nil, missingField(prefix + ".shortForecast")
		}

		out = append(out, ForecastPeriod{
			Name:            *period.Name,
			Temperature:     *period.Temperature,
			TemperatureUnit: *period.TemperatureUnit,
			WindSpeed:       *period.WindSpeed,
			WindDirection:   *period.WindDirection,
			ShortForecast:   *period.ShortForecast,
		})
	}

	return out, nil
}

func missingField(path string) error {
	return fmt.Errorf("missing required field %q", path)
}
