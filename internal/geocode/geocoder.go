package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmarkov/weather-requests-api/internal/upstream"
	"github.com/sony/gobreaker"
)

// Result is the single best geocoding match for a search term
type Result struct {
	Name      string
	Latitude  float64
	Longitude float64
	Country   string
}

// Geocoder resolves free-text location names to coordinates.
// A nil Result with a nil error means no match was found.
type Geocoder interface {
	Search(ctx context.Context, name string) (*Result, error)
}

// OpenMeteoGeocoder queries the Open-Meteo geocoding API
type OpenMeteoGeocoder struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoGeocoder creates a geocoder against the given base URL
// (e.g. https://geocoding-api.open-meteo.com)
func NewOpenMeteoGeocoder(baseURL string, client *http.Client) *OpenMeteoGeocoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenMeteoGeocoder{
		baseURL: baseURL,
		client:  client,
		circuit: upstream.NewBreaker("geocoding"),
	}
}

func (g *OpenMeteoGeocoder) Search(ctx context.Context, name string) (*Result, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", name)
		values.Set("count", "1")
		values.Set("format", "json")

		u := fmt.Sprintf("%s/v1/search?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, g.client, g.circuit, upstream.DefaultBackoff, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Country   string  `json:"country"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geocoding response decode failed: %w", err)
	}

	if len(payload.Results) == 0 {
		return nil, nil
	}

	top := payload.Results[0]
	return &Result{
		Name:      top.Name,
		Latitude:  top.Latitude,
		Longitude: top.Longitude,
		Country:   top.Country,
	}, nil
}
