// Package alerts derives display alerts from weather readings. Derivation
// is pure and deterministic: the same inputs always produce the same
// alerts, in the same order, with the same identifiers. Alerts are never
// persisted; they are recomputed for every reading/forecast pair.
package alerts

import (
	"fmt"

	"github.com/FAYAZKLU/WeatherApp/internal/common"
)

// Type enumerates the alert kinds the rule engine can emit. The display
// descriptor table also knows a few extra kinds for forward compatibility.
type Type string

const (
	TypeExtremeHeat  Type = "extreme_heat"
	TypeFreezing     Type = "freezing"
	TypeThunderstorm Type = "thunderstorm"
	TypeHeavyRain    Type = "heavy_rain"
	TypeHighWind     Type = "high_wind"
)

// Severity of an alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is a single derived alert. ID is deterministic within one
// derivation pass: a fixed per-rule suffix for current-weather alerts and
// the zero-based day index for forecast alerts.
type Alert struct {
	ID       string   `json:"id"`
	Type     Type     `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Reading is the current-conditions input to the rule engine. Temperature
// and WindSpeedKph are pointers because an absent value must suppress the
// corresponding rules rather than be read as zero.
type Reading struct {
	Temperature  *float64 // °C
	Description  string
	WindSpeedKph *float64 // km/h
}

// ForecastEntry is one forecast day as seen by the rule engine.
type ForecastEntry struct {
	Day         string
	High        float64
	Low         float64
	Description string
}

// Thresholds for the current-reading and forecast rules.
const (
	extremeHeatCurrentC  = 35.0
	freezingCurrentC     = 0.0
	highWindKph          = 50.0
	extremeHeatForecastC = 38.0
	freezingForecastC    = 2.0

	// Only the nearest forecast days are worth alerting on.
	forecastAlertDays = 3
)

// Derive evaluates every rule against the current reading and forecast and
// returns the alerts that fire. Either input may be nil/empty. Output
// order is stable: current-weather alerts first in rule order, then
// forecast alerts by day index.
func Derive(current *Reading, forecast []ForecastEntry) []Alert {
	var out []Alert

	if current != nil {
		out = append(out, deriveCurrent(current)...)
	}

	for i, day := range forecast {
		if i >= forecastAlertDays {
			break
		}
		out = append(out, deriveForecastDay(i, day)...)
	}

	return out
}

func deriveCurrent(r *Reading) []Alert {
	var out []Alert

	if r.Temperature != nil && *r.Temperature > extremeHeatCurrentC {
		out = append(out, Alert{
			ID:       "heat-current",
			Type:     TypeExtremeHeat,
			Message:  fmt.Sprintf("Extreme heat warning: %d°C", common.RoundDegree(*r.Temperature)),
			Severity: SeverityHigh,
		})
	}

	if r.Temperature != nil && *r.Temperature < freezingCurrentC {
		out = append(out, Alert{
			ID:       "freeze-current",
			Type:     TypeFreezing,
			Message:  fmt.Sprintf("Freezing conditions: %d°C", common.RoundDegree(*r.Temperature)),
			Severity: SeverityHigh,
		})
	}

	if common.HasAny(r.Description, "thunderstorm") {
		out = append(out, Alert{
			ID:       "thunder-current",
			Type:     TypeThunderstorm,
			Message:  "Thunderstorm in progress",
			Severity: SeverityHigh,
		})
	}

	if common.HasAll(r.Description, "rain", "heavy") {
		out = append(out, Alert{
			ID:       "rain-current",
			Type:     TypeHeavyRain,
			Message:  "Heavy rainfall detected",
			Severity: SeverityMedium,
		})
	}

	if r.WindSpeedKph != nil && *r.WindSpeedKph > highWindKph {
		out = append(out, Alert{
			ID:       "wind-current",
			Type:     TypeHighWind,
			Message:  fmt.Sprintf("High winds: %d km/h", common.RoundDegree(*r.WindSpeedKph)),
			Severity: SeverityMedium,
		})
	}

	return out
}

func deriveForecastDay(index int, day ForecastEntry) []Alert {
	var out []Alert

	if day.High > extremeHeatForecastC {
		out = append(out, Alert{
			ID:       fmt.Sprintf("heat-forecast-%d", index),
			Type:     TypeExtremeHeat,
			Message:  fmt.Sprintf("Extreme heat forecast for %s: %d°C", day.Day, common.RoundDegree(day.High)),
			Severity: SeverityMedium,
		})
	}

	if day.Low < freezingForecastC {
		out = append(out, Alert{
			ID:       fmt.Sprintf("freeze-forecast-%d", index),
			Type:     TypeFreezing,
			Message:  fmt.Sprintf("Freezing conditions forecast for %s: %d°C", day.Day, common.RoundDegree(day.Low)),
			Severity: SeverityMedium,
		})
	}

	if common.HasAny(day.Description, "thunderstorm") {
		out = append(out, Alert{
			ID:       fmt.Sprintf("thunder-forecast-%d", index),
			Type:     TypeThunderstorm,
			Message:  fmt.Sprintf("Thunderstorm forecast for %s", day.Day),
			Severity: SeverityMedium,
		})
	}

	if common.HasAll(day.Description, "rain", "heavy") {
		out = append(out, Alert{
			ID:       fmt.Sprintf("rain-forecast-%d", index),
			Type:     TypeHeavyRain,
			Message:  fmt.Sprintf("Heavy rain forecast for %s", day.Day),
			Severity: SeverityLow,
		})
	}

	return out
}
