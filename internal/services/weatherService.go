package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"geoportal/internal/metrics"
)

const defaultWeatherBaseURL = "https://api.open-meteo.com/v1/forecast"

var ErrNoCurrentWeather = errors.New("no current weather data")

// UpstreamError reports a non-success status from an external API; the
// handler mirrors the status back to the client.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// weatherCodeDescriptions maps Open-Meteo weather codes to human-readable
// descriptions. Unknown codes render as "Weather code {code}".
var weatherCodeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Fog (rime)",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snowfall",
	73: "Moderate snowfall",
	75: "Heavy snowfall",
	80: "Rain showers",
	81: "Rain showers",
	82: "Heavy rain showers",
	95: "Thunderstorm",
	96: "Thunderstorm (hail)",
	99: "Thunderstorm (heavy hail)",
}

// WeatherReport is the simplified JSON contract returned to the browser.
// Humidity is not provided by the upstream's current-conditions payload and
// is always null.
type WeatherReport struct {
	Name        string   `json:"name"`
	TempC       *float64 `json:"temp_c"`
	Humidity    *float64 `json:"humidity"`
	WindSpeed   *float64 `json:"wind_speed"`
	Description string   `json:"description"`
}

// WeatherService is a stateless pass-through to the Open-Meteo forecast API.
type WeatherService interface {
	Current(ctx context.Context, lat, lon float64) (*WeatherReport, error)
}

type weatherService struct {
	baseURL string
	client  *http.Client
}

func NewWeatherService() WeatherService {
	return &weatherService{
		baseURL: defaultWeatherBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		WindSpeed   *float64 `json:"windspeed"`
		WeatherCode *int     `json:"weathercode"`
	} `json:"current_weather"`
}

func (s *weatherService) Current(ctx context.Context, lat, lon float64) (*WeatherReport, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current_weather", "true")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ProxyRequestsTotal.WithLabelValues("weather", "error").Inc()
		log.Error().Err(err).Msg("Weather API request failed")
		return nil, err
	}
	defer resp.Body.Close()

	metrics.ProxyRequestsTotal.WithLabelValues("weather", strconv.Itoa(resp.StatusCode)).Inc()
	log.Debug().Int("status", resp.StatusCode).Msg("Open-Meteo response")

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var data openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, ErrNoCurrentWeather
	}
	if data.CurrentWeather == nil {
		return nil, ErrNoCurrentWeather
	}

	desc := ""
	if code := data.CurrentWeather.WeatherCode; code != nil {
		var ok bool
		if desc, ok = weatherCodeDescriptions[*code]; !ok {
			desc = fmt.Sprintf("Weather code %d", *code)
		}
	}

	return &WeatherReport{
		Name:        "",
		TempC:       data.CurrentWeather.Temperature,
		Humidity:    nil,
		WindSpeed:   data.CurrentWeather.WindSpeed,
		Description: desc,
	}, nil
}
