// Package favorites keeps the user's saved locations in sync with the
// remote favorites backend. The store is the sole writer of the local
// list; mutations are applied locally only after the backend confirms
// them, so no rollback logic exists anywhere.
package favorites

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoCityName is returned when a candidate carries no usable city name.
var ErrNoCityName = errors.New("favorite requires a city name")

// ID is the backend-assigned favorite identifier. It is opaque to the
// client and never generated locally. The backend serializes ids as JSON
// numbers; older deployments used strings, so both forms are accepted.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*id = ID(v)
		return nil
	}
	*id = ID(s)
	return nil
}

// Favorite is one saved location. Records are immutable after creation:
// there is no edit operation, only add, remove and clear.
type Favorite struct {
	ID        ID       `json:"id"`
	CityName  string   `json:"cityName"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// CreateRequest is the body posted to the backend when saving a favorite.
type CreateRequest struct {
	CityName  string   `json:"cityName"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Candidate describes a location to be saved, sourced either from a
// weather lookup result or from a manual search. Callers fill whichever
// fields they have; Normalize picks one value per field in a fixed
// priority order.
type Candidate struct {
	// City name sources, highest priority first.
	CityName string `json:"cityName,omitempty"`
	Name     string `json:"name,omitempty"`
	// Location is the combined "City,CC" form some search inputs produce.
	Location string `json:"location,omitempty"`

	// Country sources, highest priority first.
	CountryCode string `json:"countryCode,omitempty"`
	Country     string `json:"country,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Normalize flattens the candidate into a create request.
//
// City name priority: CityName, Name, then the first comma segment of
// Location. Country priority: CountryCode, Country, then the second comma
// segment of Location. First match wins; a candidate with no city name is
// rejected.
func (c Candidate) Normalize() (CreateRequest, error) {
	locCity, locCountry := splitLocation(c.Location)

	city := firstNonEmpty(c.CityName, c.Name, locCity)
	if city == "" {
		return CreateRequest{}, ErrNoCityName
	}

	return CreateRequest{
		CityName:  city,
		Country:   firstNonEmpty(c.CountryCode, c.Country, locCountry),
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}, nil
}

func splitLocation(s string) (city, country string) {
	if s == "" {
		return "", ""
	}
	parts := strings.SplitN(s, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		country = strings.TrimSpace(parts[1])
	}
	return city, country
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
