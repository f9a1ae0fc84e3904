package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/FAYAZKLU/WeatherApp/internal/weather"
	"github.com/sony/gobreaker"
)

// WeatherAPIProvider implements weather.ForecastProvider for WeatherAPI.com.
// WeatherAPI reports wind in km/h already, so no conversion is needed.
type WeatherAPIProvider struct {
	name        string
	apiKey      string
	currentURL  string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:        "weatherapi",
		apiKey:      apiKey,
		currentURL:  "https://api.weatherapi.com/v1/current.json",
		forecastURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg:     defaultHTTPConfig(client),
		circuit:     newCircuit("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) query(loc weather.Location) url.Values {
	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
	if loc.City != "" {
		q := loc.City
		if loc.Country != "" {
			q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
		}
		values.Set("q", q)
	} else if loc.Lat != nil && loc.Lon != nil {
		values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
	}
	return values
}

func (p *WeatherAPIProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentWeather, error) {
	if p.apiKey == "" {
		return weather.CurrentWeather{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.currentURL, p.query(loc).Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CurrentWeather{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name           string   `json:"name"`
			Country        string   `json:"country"`
			Lat            *float64 `json:"lat"`
			Lon            *float64 `json:"lon"`
			LocaltimeEpoch int64    `json:"localtime_epoch"`
		} `json:"location"`
		Current struct {
			TempC     float64 `json:"temp_c"`
			Humidity  float64 `json:"humidity"`
			WindKph   float64 `json:"wind_kph"`
			Condition struct {
				Text string `json:"text"`
				Icon string `json:"icon"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentWeather{}, fmt.Errorf("malformed weatherapi response: %w", err)
	}

	ts := time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	if payload.Location.LocaltimeEpoch == 0 {
		ts = time.Now().UTC()
	}

	cw := weather.CurrentWeather{
		City:    payload.Location.Name,
		Country: payload.Location.Country,
		// current.json has no daily range; use the spot temperature so the
		// snapshot range degrades to a single value.
		Temperature:  payload.Current.TempC,
		TempMin:      payload.Current.TempC,
		TempMax:      payload.Current.TempC,
		Humidity:     payload.Current.Humidity,
		WindSpeedKph: payload.Current.WindKph,
		Description:  payload.Current.Condition.Text,
		Condition:    payload.Current.Condition.Text,
		Icon:         payload.Current.Condition.Icon,
		Latitude:     payload.Location.Lat,
		Longitude:    payload.Location.Lon,
		Timestamp:    ts,
		Provider:     p.name,
	}
	if cw.City == "" {
		cw.City = loc.City
	}
	return cw, nil
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) (weather.Forecast, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := p.query(loc)
		values.Set("days", fmt.Sprintf("%d", days))
		u := fmt.Sprintf("%s?%s", p.forecastURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC  float64 `json:"maxtemp_c"`
					MinTempC  float64 `json:"mintemp_c"`
					Condition struct {
						Text string `json:"text"`
						Icon string `json:"icon"`
					} `json:"condition"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed weatherapi forecast response: %w", err)
	}
	if len(payload.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("weatherapi forecast response contained no days")
	}

	forecast := make(weather.Forecast, 0, len(payload.Forecast.ForecastDay))
	for _, fd := range payload.Forecast.ForecastDay {
		date, err := time.Parse("2006-01-02", fd.Date)
		if err != nil {
			return nil, fmt.Errorf("malformed weatherapi forecast date %q: %w", fd.Date, err)
		}
		forecast = append(forecast, weather.ForecastDay{
			Day:         date.Format("Mon"),
			Date:        date,
			High:        fd.Day.MaxTempC,
			Low:         fd.Day.MinTempC,
			Description: fd.Day.Condition.Text,
			Icon:        fd.Day.Condition.Icon,
		})
	}
	return forecast, nil
}
