package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

type scriptedProvider struct {
	name  string
	cw    CurrentWeather
	fc    Forecast
	err   error
	calls int
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) FetchCurrent(_ context.Context, _ Location) (CurrentWeather, error) {
	p.calls++
	return p.cw, p.err
}

func (p *scriptedProvider) FetchForecast(_ context.Context, _ Location, days int) (Forecast, error) {
	if p.err != nil {
		return nil, p.err
	}
	fc := p.fc
	if len(fc) > days {
		fc = fc[:days]
	}
	return fc, nil
}

func TestServiceFallsBackToNextProvider(t *testing.T) {
	broken := &scriptedProvider{name: "broken", err: errors.New("boom")}
	working := &scriptedProvider{name: "working", cw: CurrentWeather{City: "Paris", Temperature: 20}}

	svc := NewService([]Provider{broken, working}, nil)

	cw, err := svc.FetchCurrent(context.Background(), Location{City: "Paris"})
	if err != nil {
		t.Fatalf("FetchCurrent failed: %v", err)
	}
	if cw.City != "Paris" {
		t.Fatalf("unexpected reading %+v", cw)
	}
	if broken.calls != 1 || working.calls != 1 {
		t.Fatalf("expected both providers tried once, got %d/%d", broken.calls, working.calls)
	}
}

func TestServiceAllProvidersFailing(t *testing.T) {
	svc := NewService([]Provider{
		&scriptedProvider{name: "a", err: errors.New("boom")},
		&scriptedProvider{name: "b", err: errors.New("boom")},
	}, nil)

	_, err := svc.FetchCurrent(context.Background(), Location{City: "Paris"})
	if !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
}

func TestServiceRejectsNonFiniteReadings(t *testing.T) {
	svc := NewService([]Provider{
		&scriptedProvider{name: "nan", cw: CurrentWeather{Temperature: math.NaN()}},
	}, nil)

	if _, err := svc.FetchCurrent(context.Background(), Location{City: "Paris"}); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("non-finite reading must count as a lookup failure, got %v", err)
	}
}

func TestServiceRequiresQueryableLocation(t *testing.T) {
	svc := NewService([]Provider{&scriptedProvider{name: "a"}}, nil)

	if _, err := svc.FetchCurrent(context.Background(), Location{}); !errors.Is(err, ErrNoQuery) {
		t.Fatalf("expected ErrNoQuery, got %v", err)
	}
	if _, err := svc.FetchForecast(context.Background(), Location{}, 5); !errors.Is(err, ErrNoQuery) {
		t.Fatalf("expected ErrNoQuery, got %v", err)
	}
}

func TestServiceUsesCache(t *testing.T) {
	p := &scriptedProvider{name: "p", cw: CurrentWeather{City: "Paris", Temperature: 20}}
	svc := NewService([]Provider{p}, NewCache(time.Minute))

	loc := Location{City: "Paris", Country: "FR"}
	for i := 0; i < 3; i++ {
		if _, err := svc.FetchCurrent(context.Background(), loc); err != nil {
			t.Fatalf("FetchCurrent failed: %v", err)
		}
	}
	if p.calls != 1 {
		t.Fatalf("expected one provider call thanks to cache, got %d", p.calls)
	}
}

func TestServiceForecastTruncates(t *testing.T) {
	fc := make(Forecast, 7)
	for i := range fc {
		fc[i] = ForecastDay{Day: fmt.Sprintf("d%d", i)}
	}
	svc := NewService([]Provider{&scriptedProvider{name: "p", fc: fc}}, nil)

	got, err := svc.FetchForecast(context.Background(), Location{City: "Paris"}, 5)
	if err != nil {
		t.Fatalf("FetchForecast failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	loc := Location{City: "Paris"}
	c.Put(loc, CurrentWeather{City: "Paris"})

	if _, ok := c.Get(loc); !ok {
		t.Fatalf("expected cache hit")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(loc); ok {
		t.Fatalf("expected expired entry")
	}
}

func TestLocationKey(t *testing.T) {
	lat, lon := 48.8566, 2.3522
	cases := []struct {
		loc  Location
		want string
	}{
		{Location{City: "Paris", Country: "FR"}, "Paris:FR"},
		{Location{Lat: &lat, Lon: &lon}, "48.8566:2.3522"},
		{Location{}, ""},
	}
	for _, tc := range cases {
		if got := tc.loc.Key(); got != tc.want {
			t.Fatalf("Key(%+v) = %q, want %q", tc.loc, got, tc.want)
		}
	}
}
