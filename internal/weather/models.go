package weather

import (
	"fmt"
	"time"
)

// Location identifies a place to look up. City is the usual key; Lat/Lon
// are set when the user asked for "my location" or a favorite carries
// coordinates.
type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for indexing this location in caches.
func (l Location) Key() string {
	if l.City != "" {
		return l.City + ":" + l.Country
	}
	if l.Lat != nil && l.Lon != nil {
		return fmt.Sprintf("%.4f:%.4f", *l.Lat, *l.Lon)
	}
	return ""
}

// HasQuery reports whether the location carries enough to query a provider.
func (l Location) HasQuery() bool {
	return l.City != "" || (l.Lat != nil && l.Lon != nil)
}

// CurrentWeather is the normalized present-moment sample for a location.
// WindSpeedKph is always km/h: providers that report other units convert
// at the adapter, so downstream thresholds are calibrated once.
type CurrentWeather struct {
	City         string    `json:"city"`
	Country      string    `json:"country,omitempty"`
	Temperature  float64   `json:"temperature"` // °C
	TempMin      float64   `json:"tempMin"`
	TempMax      float64   `json:"tempMax"`
	Description  string    `json:"description"`
	Condition    string    `json:"condition,omitempty"` // short group, e.g. "Rain"
	Icon         string    `json:"icon,omitempty"`
	Humidity     float64   `json:"humidity"`
	WindSpeedKph float64   `json:"windSpeed"` // km/h
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
	Provider     string    `json:"provider,omitempty"`
}

// ForecastDay is one future day's predicted range. Day is the display
// label ("Mon", "Tue", ...) and doubles as the dedup key in the UI.
type ForecastDay struct {
	Day         string    `json:"day"`
	Date        time.Time `json:"date"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
}

// Forecast is an ordered multi-day forecast, chronological, typically
// length 5.
type Forecast []ForecastDay
