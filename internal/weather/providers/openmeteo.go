package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/FAYAZKLU/WeatherApp/internal/weather"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. Open-Meteo
// needs coordinates; when a lookup only carries a city name the provider
// resolves it through the Google geocoding API (kelvins/geocoder), which
// requires its own key. Current conditions only, no forecast.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	geocode func(loc weather.Location) (lat, lon float64, err error)
}

func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string) *OpenMeteoProvider {
	geocoder.ApiKey = geocoderAPIKey
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuit("openmeteo"),
		geocode: func(loc weather.Location) (float64, float64, error) {
			result, err := geocoder.Geocoding(geocoder.Address{
				City:    loc.City,
				Country: loc.Country,
			})
			if err != nil {
				return 0, 0, err
			}
			return result.Latitude, result.Longitude, nil
		},
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentWeather, error) {
	var lat, lon float64
	switch {
	case loc.Lat != nil && loc.Lon != nil:
		lat, lon = *loc.Lat, *loc.Lon
	case loc.City != "":
		var err error
		lat, lon, err = p.geocode(loc)
		if err != nil {
			return weather.CurrentWeather{}, fmt.Errorf("geocoding %q failed: %w", loc.City, err)
		}
	default:
		return weather.CurrentWeather{}, fmt.Errorf("openmeteo requires a city or coordinates")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CurrentWeather{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"` // km/h, Open-Meteo default
			Time        string  `json:"time"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentWeather{}, fmt.Errorf("malformed openmeteo response: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, payload.CurrentWeather.Time)
	if err != nil {
		// Open-Meteo omits the zone suffix on some endpoints.
		ts, err = time.Parse("2006-01-02T15:04", payload.CurrentWeather.Time)
	}
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	return weather.CurrentWeather{
		City:         loc.City,
		Country:      loc.Country,
		Temperature:  payload.CurrentWeather.Temperature,
		TempMin:      payload.CurrentWeather.Temperature,
		TempMax:      payload.CurrentWeather.Temperature,
		WindSpeedKph: payload.CurrentWeather.WindSpeed,
		Description:  describeWeatherCode(payload.CurrentWeather.WeatherCode),
		Condition:    describeWeatherCode(payload.CurrentWeather.WeatherCode),
		Latitude:     &lat,
		Longitude:    &lon,
		Timestamp:    ts,
		Provider:     p.name,
	}, nil
}

// describeWeatherCode maps Open-Meteo WMO weather codes to the textual
// descriptions the rest of the app matches on (simplified).
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code >= 1 && code <= 3:
		return "partly cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 65:
		return "rain"
	case code == 66 || code == 67:
		return "freezing rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 81:
		return "rain showers"
	case code == 82:
		return "heavy rain showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorm"
	default:
		return "unknown"
	}
}
