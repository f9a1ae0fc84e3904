package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// ErrBackend marks a favorites backend request that failed. Callers
// surface it to the UI; it never corrupts local list state.
var ErrBackend = errors.New("favorites backend request failed")

// Backend is the CRUD contract of the remote favorites service. There is
// no bulk-clear endpoint; clear-all is a client-driven loop over deletes.
type Backend interface {
	List(ctx context.Context) ([]Favorite, error)
	Create(ctx context.Context, req CreateRequest) (Favorite, error)
	Delete(ctx context.Context, id ID) error
}

// Client is the HTTP implementation of Backend. Requests go through a
// circuit breaker so a dead backend fails fast instead of tying up the UI.
type Client struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client for the backend at baseURL (the favorites
// collection URL, e.g. "http://localhost:8082/api/favorites").
func NewClient(client *http.Client, baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "favorites-backend",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     30 * time.Second,
		}),
	}
}

// wireFavorite tolerates the field-name variants the backend has used over
// time. toFavorite flattens it with a fixed priority per field.
type wireFavorite struct {
	ID            ID       `json:"id"`
	CityName      string   `json:"cityName"`
	CityNameSnake string   `json:"city_name"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	CountryCode   string   `json:"country_code"`
	Latitude      *float64 `json:"latitude"`
	Lat           *float64 `json:"lat"`
	Longitude     *float64 `json:"longitude"`
	Lon           *float64 `json:"lon"`
	CreatedSnake  string   `json:"created_at"`
	CreatedCamel  string   `json:"createdAt"`
}

// toFavorite picks one value per field: cityName > city_name > city,
// country > country_code, latitude > lat, longitude > lon,
// created_at > createdAt.
func (w wireFavorite) toFavorite() Favorite {
	f := Favorite{
		ID:        w.ID,
		CityName:  firstNonEmpty(w.CityName, w.CityNameSnake, w.City),
		Country:   firstNonEmpty(w.Country, w.CountryCode),
		Latitude:  w.Latitude,
		Longitude: w.Longitude,
		CreatedAt: firstNonEmpty(w.CreatedSnake, w.CreatedCamel),
	}
	if f.Latitude == nil {
		f.Latitude = w.Lat
	}
	if f.Longitude == nil {
		f.Longitude = w.Lon
	}
	return f
}

func (c *Client) List(ctx context.Context) ([]Favorite, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	var wire []wireFavorite
	if err := c.do(req, http.StatusOK, &wire); err != nil {
		return nil, err
	}

	out := make([]Favorite, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toFavorite())
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, createReq CreateRequest) (Favorite, error) {
	body, err := json.Marshal(createReq)
	if err != nil {
		return Favorite{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Favorite{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var wire wireFavorite
	if err := c.do(req, 0, &wire); err != nil {
		return Favorite{}, err
	}

	saved := wire.toFavorite()
	if saved.ID == "" {
		return Favorite{}, fmt.Errorf("%w: create response missing id", ErrBackend)
	}
	// The backend may echo a partial record; keep the submitted fields for
	// anything it left out.
	if saved.CityName == "" {
		saved.CityName = createReq.CityName
	}
	if saved.Country == "" {
		saved.Country = createReq.Country
	}
	if saved.Latitude == nil {
		saved.Latitude = createReq.Latitude
	}
	if saved.Longitude == nil {
		saved.Longitude = createReq.Longitude
	}
	return saved, nil
}

func (c *Client) Delete(ctx context.Context, id ID) error {
	u := c.baseURL + "/" + url.PathEscape(string(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		return c.client.Do(req)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	// Deleting an id the backend no longer knows is a no-op success.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d", ErrBackend, resp.StatusCode)
	}
	return nil
}

// do executes the request through the circuit breaker and decodes the JSON
// body into out. wantStatus 0 accepts any 2xx.
func (c *Client) do(req *http.Request, wantStatus int, out interface{}) error {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		return c.client.Do(req)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if wantStatus != 0 {
		ok = resp.StatusCode == wantStatus
	}
	if !ok {
		return fmt.Errorf("%w: unexpected status %d", ErrBackend, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrBackend, err)
	}
	return nil
}

var _ Backend = (*Client)(nil)
