package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

// WeatherAdapter collects wind and temperature conditions from Open-Meteo.
// Open-Meteo needs no API key, so the adapter is always configured; any
// transport or parse failure falls back to simulated values.
type WeatherAdapter struct {
	baseURL string
	httpCfg HTTPConfig
	circuit *gobreaker.CircuitBreaker
	log     *zap.SugaredLogger
}

// NewWeatherAdapter creates a WeatherAdapter using the shared HTTP client.
func NewWeatherAdapter(client *http.Client, log *zap.SugaredLogger) *WeatherAdapter {
	return &WeatherAdapter{
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("open-meteo"),
		log:     log,
	}
}

func simulatedWeatherReading() forecast.WeatherReading {
	return forecast.WeatherReading{
		WindSpeed:     12,
		WindDirection: "E",
		Temperature:   15,
		Source:        forecast.SourceSimulated,
	}
}

// Fetch implements forecast.WeatherSource.
func (a *WeatherAdapter) Fetch(ctx context.Context, coords forecast.Coordinates) forecast.WeatherReading {
	reading, err := a.fetch(ctx, coords)
	if err != nil {
		a.log.Warnw("open-meteo fetch failed; using simulated weather",
			"lat", coords.Latitude, "lon", coords.Longitude, "error", err)
		return simulatedWeatherReading()
	}
	return reading
}

func (a *WeatherAdapter) fetch(ctx context.Context, coords forecast.Coordinates) (forecast.WeatherReading, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coords.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coords.Longitude))
		values.Set("current", "temperature_2m,wind_speed_10m,wind_direction_10m")
		values.Set("wind_speed_unit", "kn")

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", a.baseURL, values.Encode()), nil)
	}

	resp, err := doResilientRequest(ctx, a.httpCfg, a.circuit, buildRequest)
	if err != nil {
		return forecast.WeatherReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Temperature   *float64 `json:"temperature_2m"`
			WindSpeed     *float64 `json:"wind_speed_10m"`
			WindDirection *float64 `json:"wind_direction_10m"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return forecast.WeatherReading{}, err
	}

	return forecast.WeatherReading{
		WindSpeed:     floatOr(payload.Current.WindSpeed, 12),
		WindDirection: Cardinal(floatOr(payload.Current.WindDirection, 90)),
		Temperature:   floatOr(payload.Current.Temperature, 15),
		Source:        forecast.SourceOpenMeteo,
	}, nil
}
