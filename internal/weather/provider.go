package weather

import "context"

// Provider abstracts a third-party weather source (e.g. OpenWeatherMap,
// WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, loc Location) (CurrentWeather, error)
}

// ForecastProvider is implemented by providers that can also return a
// multi-day forecast.
type ForecastProvider interface {
	Provider
	FetchForecast(ctx context.Context, loc Location, days int) (Forecast, error)
}
