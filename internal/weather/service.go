package weather

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/FAYAZKLU/WeatherApp/internal/common"
)

var (
	// ErrLookupFailed is returned when no provider could supply data for a
	// location. Malformed provider responses count as lookup failures too;
	// callers degrade to a placeholder rather than treating this as fatal.
	ErrLookupFailed = errors.New("weather lookup failed")

	// ErrNoQuery is returned when the location has neither a city name nor
	// coordinates.
	ErrNoQuery = errors.New("location requires a city name or coordinates")
)

// Service answers current-weather and forecast lookups by trying the
// configured providers in order and returning the first success.
type Service struct {
	providers []Provider
	cache     *Cache
}

// NewService creates a Service. The cache may be nil to disable caching.
func NewService(providers []Provider, cache *Cache) *Service {
	return &Service{
		providers: providers,
		cache:     cache,
	}
}

// FetchCurrent returns the current conditions for the location.
func (s *Service) FetchCurrent(ctx context.Context, loc Location) (CurrentWeather, error) {
	if !loc.HasQuery() {
		return CurrentWeather{}, ErrNoQuery
	}
	if len(s.providers) == 0 {
		return CurrentWeather{}, fmt.Errorf("%w: no providers configured", ErrLookupFailed)
	}

	if cw, ok := s.cache.Get(loc); ok {
		return cw, nil
	}

	var lastErr error
	for _, p := range s.providers {
		cw, err := p.FetchCurrent(ctx, loc)
		if err != nil {
			log.Printf("provider %s current fetch failed for %s: %v", p.Name(), loc.Key(), err)
			lastErr = err
			continue
		}
		if !common.IsFinite(cw.Temperature) || !common.IsFinite(cw.WindSpeedKph) {
			// Treat non-finite numerics as a malformed response.
			lastErr = fmt.Errorf("provider %s returned non-finite reading", p.Name())
			continue
		}
		s.cache.Put(loc, cw)
		return cw, nil
	}

	return CurrentWeather{}, fmt.Errorf("%w: %v", ErrLookupFailed, lastErr)
}

// FetchForecast returns up to days entries of daily forecast for the
// location, from the first forecast-capable provider that succeeds.
func (s *Service) FetchForecast(ctx context.Context, loc Location, days int) (Forecast, error) {
	if !loc.HasQuery() {
		return nil, ErrNoQuery
	}
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}

	var lastErr error
	for _, p := range s.providers {
		fp, ok := p.(ForecastProvider)
		if !ok {
			continue
		}
		fc, err := fp.FetchForecast(ctx, loc, days)
		if err != nil {
			log.Printf("provider %s forecast failed for %s: %v", fp.Name(), loc.Key(), err)
			lastErr = err
			continue
		}
		if len(fc) == 0 {
			lastErr = fmt.Errorf("provider %s returned empty forecast", fp.Name())
			continue
		}
		if len(fc) > days {
			fc = fc[:days]
		}
		return fc, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no forecast-capable providers configured")
	}
	return nil, fmt.Errorf("%w: %v", ErrLookupFailed, lastErr)
}
