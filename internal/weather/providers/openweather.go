package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/FAYAZKLU/WeatherApp/internal/weather"
	"github.com/sony/gobreaker"
)

// msToKph converts OpenWeatherMap's metric wind speed (m/s) to km/h, the
// unit the rest of the application is calibrated to.
const msToKph = 3.6

// OpenWeatherProvider implements weather.ForecastProvider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name        string
	apiKey      string
	currentURL  string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:        "openweathermap",
		apiKey:      apiKey,
		currentURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg:     defaultHTTPConfig(client),
		circuit:     newCircuit("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) query(loc weather.Location) url.Values {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	if loc.City != "" {
		q := loc.City
		if loc.Country != "" {
			q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
		}
		values.Set("q", q)
	} else if loc.Lat != nil && loc.Lon != nil {
		values.Set("lat", fmt.Sprintf("%f", *loc.Lat))
		values.Set("lon", fmt.Sprintf("%f", *loc.Lon))
	}
	return values
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentWeather, error) {
	if p.apiKey == "" {
		return weather.CurrentWeather{}, fmt.Errorf("openweather api key is not configured")
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
		Dt   int64  `json:"dt"`
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
		Coord struct {
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp     float64 `json:"temp"`
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"` // m/s with units=metric
		} `json:"wind"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentWeather{}, fmt.Errorf("malformed openweather response: %w", err)
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	cw := weather.CurrentWeather{
		City:         payload.Name,
		Country:      payload.Sys.Country,
		Temperature:  payload.Main.Temp,
		TempMin:      payload.Main.TempMin,
		TempMax:      payload.Main.TempMax,
		Humidity:     payload.Main.Humidity,
		WindSpeedKph: payload.Wind.Speed * msToKph,
		Latitude:     payload.Coord.Lat,
		Longitude:    payload.Coord.Lon,
		Timestamp:    ts,
		Provider:     p.name,
	}
	if cw.City == "" {
		cw.City = loc.City
	}
	if len(payload.Weather) > 0 {
		cw.Condition = payload.Weather[0].Main
		cw.Description = payload.Weather[0].Description
		cw.Icon = payload.Weather[0].Icon
	}
	return cw, nil
}

// FetchForecast fetches the 5-day/3-hour forecast and buckets it into
// daily entries: high is the max of the bucket, low the min, and the
// description the most frequent one within the day.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) (weather.Forecast, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.forecastURL, p.query(loc).Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp    float64 `json:"temp"`
				TempMin float64 `json:"temp_min"`
				TempMax float64 `json:"temp_max"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed openweather forecast response: %w", err)
	}
	if len(payload.List) == 0 {
		return nil, fmt.Errorf("openweather forecast response contained no entries")
	}

	type bucket struct {
		date       time.Time
		high, low  float64
		descCounts map[string]int
		icons      map[string]string // description -> icon
	}

	buckets := make(map[string]*bucket)
	for _, item := range payload.List {
		ts := time.Unix(item.Dt, 0).UTC()
		key := ts.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				date:       time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
				high:       item.Main.TempMax,
				low:        item.Main.TempMin,
				descCounts: make(map[string]int),
				icons:      make(map[string]string),
			}
			buckets[key] = b
		}
		if item.Main.TempMax > b.high {
			b.high = item.Main.TempMax
		}
		if item.Main.TempMin < b.low {
			b.low = item.Main.TempMin
		}
		if len(item.Weather) > 0 {
			desc := item.Weather[0].Description
			b.descCounts[desc]++
			b.icons[desc] = item.Weather[0].Icon
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	forecast := make(weather.Forecast, 0, days)
	for _, k := range keys {
		if len(forecast) >= days {
			break
		}
		b := buckets[k]

		// Majority description; ties resolved lexicographically for
		// deterministic output.
		bestDesc := ""
		bestCount := 0
		for desc, count := range b.descCounts {
			if count > bestCount || (count == bestCount && desc < bestDesc) {
				bestCount = count
				bestDesc = desc
			}
		}

		forecast = append(forecast, weather.ForecastDay{
			Day:         b.date.Format("Mon"),
			Date:        b.date,
			High:        b.high,
			Low:         b.low,
			Description: bestDesc,
			Icon:        b.icons[bestDesc],
		})
	}

	return forecast, nil
}
