// Package weatherapi fetches human-readable forecast summaries from the
// Open-Meteo forecast API. The system has no historical-weather source;
// forecast data is substituted regardless of the requested date range.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmarkov/weather-requests-api/internal/geocode"
	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/dmarkov/weather-requests-api/internal/observability"
	"github.com/dmarkov/weather-requests-api/internal/upstream"
	"github.com/sony/gobreaker"
)

// MaxForecastDays caps the forecast span the API is asked for
const MaxForecastDays = 7

// Fetcher produces a forecast summary for an already-resolved location
type Fetcher interface {
	Forecast(ctx context.Context, loc model.LocationInfo, days int) (string, error)
}

// Client queries the Open-Meteo forecast API
type Client struct {
	baseURL string
	units   string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a forecast client. units is "metric" or "imperial".
func NewClient(baseURL, units string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if units != "imperial" {
		units = "metric"
	}
	return &Client{
		baseURL: baseURL,
		units:   units,
		client:  httpClient,
		circuit: upstream.NewBreaker("forecast"),
	}
}

type forecastPayload struct {
	Current *struct {
		Temperature         *float64 `json:"temperature_2m"`
		RelativeHumidity    *float64 `json:"relative_humidity_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		IsDay               int      `json:"is_day"`
		Precipitation       *float64 `json:"precipitation"`
		WeatherCode         int      `json:"weather_code"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily *struct {
		Time             []string  `json:"time"`
		WeatherCode      []int     `json:"weather_code"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		PrecipProbMax    []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// Forecast fetches the current weather plus a brief daily forecast and
// renders it as text. days is clamped to 1..7.
func (c *Client) Forecast(ctx context.Context, loc model.LocationInfo, days int) (string, error) {
	lat, lon, ok := geocode.ParseCoordinatePair(loc.Coordinates)
	if !ok {
		return "", fmt.Errorf("invalid coordinates %q for %q", loc.Coordinates, loc.Name)
	}

	if days < 1 {
		days = 1
	}
	if days > MaxForecastDays {
		days = MaxForecastDays
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,weather_code,wind_speed_10m")
		values.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum,precipitation_probability_max")
		values.Set("forecast_days", strconv.Itoa(days))
		values.Set("timezone", "auto")
		if c.units == "imperial" {
			values.Set("temperature_unit", "fahrenheit")
			values.Set("wind_speed_unit", "mph")
			values.Set("precipitation_unit", "inch")
		} else {
			values.Set("temperature_unit", "celsius")
			values.Set("wind_speed_unit", "kmh")
			values.Set("precipitation_unit", "mm")
		}

		u := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, c.client, c.circuit, upstream.DefaultBackoff, buildRequest)
	if err != nil {
		observability.ForecastCallsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("forecast request failed for %s: %w", loc.Name, err)
	}
	defer resp.Body.Close()
	observability.ForecastCallsTotal.WithLabelValues("success").Inc()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("forecast response decode failed for %s: %w", loc.Name, err)
	}

	if payload.Current == nil {
		return "", fmt.Errorf("could not retrieve current weather data for %s", loc.Name)
	}

	return c.render(loc.Name, days, &payload), nil
}

func (c *Client) render(displayName string, days int, p *forecastPayload) string {
	tempSymbol, windSymbol, precipSymbol := "°C", "km/h", "mm"
	if c.units == "imperial" {
		tempSymbol, windSymbol, precipSymbol = "°F", "mph", "in"
	}

	dayText := "Nighttime"
	if p.Current.IsDay == 1 {
		dayText = "Daytime"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current weather in %s (%s):\n", displayName, dayText)
	fmt.Fprintf(&b, "- Temperature: %s%s (Feels like: %s%s)\n",
		formatMeasure(p.Current.Temperature), tempSymbol,
		formatMeasure(p.Current.ApparentTemperature), tempSymbol)
	fmt.Fprintf(&b, "- Humidity: %s%%\n", formatMeasure(p.Current.RelativeHumidity))
	fmt.Fprintf(&b, "- Condition: %s (WMO Code: %d)\n",
		DescribeWMOCode(p.Current.WeatherCode), p.Current.WeatherCode)
	fmt.Fprintf(&b, "- Wind Speed: %s %s\n", formatMeasure(p.Current.WindSpeed), windSymbol)
	fmt.Fprintf(&b, "- Precipitation (last hour): %s%s\n",
		formatMeasure(p.Current.Precipitation), precipSymbol)

	if p.Daily != nil && len(p.Daily.Time) > 0 {
		b.WriteString("\nBrief Forecast:\n")
		n := days
		if len(p.Daily.Time) < n {
			n = len(p.Daily.Time)
		}
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "  %s: %s. High: %s%s, Low: %s%s. Precip: %s%s (Prob: %s%%)\n",
				p.Daily.Time[i],
				DescribeWMOCode(at(p.Daily.WeatherCode, i)),
				formatFloat(p.Daily.TemperatureMax, i), tempSymbol,
				formatFloat(p.Daily.TemperatureMin, i), tempSymbol,
				formatFloat(p.Daily.PrecipitationSum, i), precipSymbol,
				formatFloat(p.Daily.PrecipProbMax, i))
		}
	}

	return strings.TrimSpace(b.String())
}

func formatMeasure(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatFloat(values []float64, i int) string {
	if i >= len(values) {
		return "n/a"
	}
	return strconv.FormatFloat(values[i], 'f', -1, 64)
}

func at(values []int, i int) int {
	if i >= len(values) {
		return -1
	}
	return values[i]
}
