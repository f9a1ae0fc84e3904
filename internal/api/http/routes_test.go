package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/FAYAZKLU/WeatherApp/internal/alerts"
	"github.com/FAYAZKLU/WeatherApp/internal/favorites"
	"github.com/FAYAZKLU/WeatherApp/internal/snapshot"
	"github.com/FAYAZKLU/WeatherApp/internal/weather"
)

// stubProvider returns canned weather data.
type stubProvider struct {
	cw  weather.CurrentWeather
	fc  weather.Forecast
	err error
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) FetchCurrent(_ context.Context, _ weather.Location) (weather.CurrentWeather, error) {
	return s.cw, s.err
}

func (s stubProvider) FetchForecast(_ context.Context, _ weather.Location, days int) (weather.Forecast, error) {
	if s.err != nil {
		return nil, s.err
	}
	fc := s.fc
	if len(fc) > days {
		fc = fc[:days]
	}
	return fc, nil
}

// memBackend is a trivial in-memory favorites backend.
type memBackend struct {
	records []favorites.Favorite
	nextID  int
}

func (b *memBackend) List(_ context.Context) ([]favorites.Favorite, error) {
	return append([]favorites.Favorite(nil), b.records...), nil
}

func (b *memBackend) Create(_ context.Context, req favorites.CreateRequest) (favorites.Favorite, error) {
	b.nextID++
	f := favorites.Favorite{
		ID:       favorites.ID(fmt.Sprintf("%d", b.nextID)),
		CityName: req.CityName,
		Country:  req.Country,
	}
	b.records = append(b.records, f)
	return f, nil
}

func (b *memBackend) Delete(_ context.Context, id favorites.ID) error {
	kept := b.records[:0]
	for _, f := range b.records {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	b.records = kept
	return nil
}

func newTestApp(t *testing.T, p weather.Provider, backend favorites.Backend) *fiber.App {
	t.Helper()
	app := fiber.New()

	svc := weather.NewService([]weather.Provider{p}, nil)
	store := favorites.NewStore(backend)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("store load failed: %v", err)
	}
	refresher := snapshot.NewRefresher(svc, time.Second)

	RegisterRoutes(app, svc, store, refresher)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

// TestForecastDaysValidation verifies that the forecast endpoint enforces
// the expected 1-7 range for the `days` query parameter.
func TestForecastDaysValidation(t *testing.T) {
	app := newTestApp(t, stubProvider{}, &memBackend{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/forecast?city=Paris&country=FR&days=8", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/weather/forecast?city=Paris&country=FR&days=0", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestWeatherEndpointsRequireLocation(t *testing.T) {
	app := newTestApp(t, stubProvider{}, &memBackend{})

	for _, target := range []string{
		"/api/v1/weather/current",
		"/api/v1/weather/forecast",
		"/api/v1/weather/alerts",
	} {
		resp := doRequest(t, app, http.MethodGet, target, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestCurrentWeatherEndpoint(t *testing.T) {
	p := stubProvider{cw: weather.CurrentWeather{
		City:        "Paris",
		Temperature: 21.5,
		Description: "clear sky",
	}}
	app := newTestApp(t, p, &memBackend{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/current?city=Paris", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var cw weather.CurrentWeather
	if err := json.NewDecoder(resp.Body).Decode(&cw); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cw.City != "Paris" || cw.Temperature != 21.5 {
		t.Fatalf("unexpected body %+v", cw)
	}
}

func TestAlertsEndpointDerivesFromLookups(t *testing.T) {
	p := stubProvider{
		cw: weather.CurrentWeather{
			City:         "Jaipur",
			Temperature:  40,
			Description:  "clear sky",
			WindSpeedKph: 20,
		},
		fc: weather.Forecast{
			{Day: "Mon", High: 39.5, Low: 20, Description: "sunny"},
		},
	}
	app := newTestApp(t, p, &memBackend{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/alerts?city=Jaipur", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Alerts []struct {
			ID       string            `json:"id"`
			Type     alerts.Type       `json:"type"`
			Message  string            `json:"message"`
			Severity alerts.Severity   `json:"severity"`
			Display  alerts.Descriptor `json:"display"`
		} `json:"alerts"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Count != 2 || len(body.Alerts) != 2 {
		t.Fatalf("expected two alerts, got %+v", body)
	}
	if body.Alerts[0].ID != "heat-current" || body.Alerts[0].Message != "Extreme heat warning: 40°C" {
		t.Fatalf("unexpected current alert %+v", body.Alerts[0])
	}
	if body.Alerts[1].ID != "heat-forecast-0" {
		t.Fatalf("unexpected forecast alert %+v", body.Alerts[1])
	}
	if body.Alerts[0].Display.Title != "Extreme Heat Alert" {
		t.Fatalf("descriptor not attached: %+v", body.Alerts[0].Display)
	}
}

func TestAlertsEndpointDegradesOnLookupFailure(t *testing.T) {
	p := stubProvider{err: weather.ErrLookupFailed}
	app := newTestApp(t, p, &memBackend{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/alerts?city=Nowhere", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lookup failure must degrade, not error; got %d", resp.StatusCode)
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Count != 0 {
		t.Fatalf("expected zero alerts, got %d", body.Count)
	}
}

func TestFavoritesCRUD(t *testing.T) {
	backend := &memBackend{records: []favorites.Favorite{{ID: "1", CityName: "Delhi", Country: "IN"}}}
	app := newTestApp(t, stubProvider{}, backend)

	// List the seeded favorite.
	resp := doRequest(t, app, http.MethodGet, "/api/v1/favorites", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	var list []favorites.Favorite
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(list) != 1 || list[0].CityName != "Delhi" {
		t.Fatalf("unexpected list %+v", list)
	}

	// Add one.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/favorites", `{"name": "Mumbai", "countryCode": "IN"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}
	var saved favorites.Favorite
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if saved.ID == "" || saved.CityName != "Mumbai" {
		t.Fatalf("unexpected saved favorite %+v", saved)
	}

	// A candidate without any city name is rejected.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/favorites", `{"country": "IN"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	// Remove the seeded one.
	resp = doRequest(t, app, http.MethodDelete, "/api/v1/favorites/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.StatusCode)
	}

	// Clear the rest.
	resp = doRequest(t, app, http.MethodDelete, "/api/v1/favorites", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/favorites", "")
	list = nil
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list after clear, got %+v", list)
	}
}
