package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
	"github.com/Dowline1/SurfSmart-AI/internal/logger"
)

// Placeholder credential values shipped in the example .env. A credential
// equal to its placeholder means the provider is not configured, which is
// not an error.
const (
	stormglassPlaceholder = "your_stormglass_key_here"
	worldtidesPlaceholder = "your_worldtides_key_here"
	geminiPlaceholder     = "your_gemini_key_here"
)

type AppConfig struct {
	StormglassAPIKey string
	WorldTidesAPIKey string
	GeminiAPIKey     string
	GeocoderAPIKey   string

	// GeminiModel selects the generation model.
	GeminiModel string

	// GenAITrace enables verbose tracing of model calls.
	GenAITrace bool

	// ProviderTimeout bounds each outbound data provider call.
	ProviderTimeout time.Duration

	// RefreshInterval controls how often the scheduler re-collects
	// conditions for configured spots.
	RefreshInterval time.Duration

	// Spots the scheduler keeps warm.
	Spots []forecast.Spot

	// SampleImageDir holds local webcam sample snapshots.
	SampleImageDir string

	// In-memory condition history retention.
	StoreMaxHistory int
	StoreMaxAge     time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Infof("no .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.StormglassAPIKey = credential("STORMGLASS_API_KEY", stormglassPlaceholder)
	cfg.WorldTidesAPIKey = credential("WORLDTIDES_API_KEY", worldtidesPlaceholder)
	cfg.GeminiAPIKey = credential("GEMINI_API_KEY", geminiPlaceholder)
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	cfg.GeminiModel = getenvDefault("GEMINI_MODEL", "gemini-1.5-flash")
	cfg.GenAITrace = os.Getenv("GENAI_TRACE") == "true"

	timeoutStr := getenvDefault("PROVIDER_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}
	cfg.ProviderTimeout = timeout

	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.SampleImageDir = getenvDefault("SAMPLE_IMAGE_DIR", "assets/sample_images")
	cfg.Port = getenvDefault("PORT", "8080")

	spots, err := loadSpots()
	if err != nil {
		return nil, err
	}
	cfg.Spots = spots

	return cfg, nil
}

// loadSpots parses SURF_SPOTS, formatted as
// "Name=lat,lon;Name=lat,lon". An unset variable yields the default Irish
// west-coast spots.
func loadSpots() ([]forecast.Spot, error) {
	raw := getenvDefault("SURF_SPOTS",
		"Liscannor Bay, Ireland=52.9372,-9.4078;"+
			"Lahinch, Ireland=52.9335,-9.3441;"+
			"Bundoran, Ireland=54.4781,-8.2783")

	var spots []forecast.Spot
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, coordsStr, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid SURF_SPOTS entry %q: missing '='", entry)
		}

		latStr, lonStr, ok := strings.Cut(coordsStr, ",")
		if !ok {
			return nil, fmt.Errorf("invalid SURF_SPOTS entry %q: coordinates must be lat,lon", entry)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in SURF_SPOTS entry %q: %w", entry, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in SURF_SPOTS entry %q: %w", entry, err)
		}

		spots = append(spots, forecast.Spot{
			Name:   strings.TrimSpace(name),
			Coords: forecast.Coordinates{Latitude: lat, Longitude: lon},
		})
	}

	return spots, nil
}

// credential reads an API key from the environment, treating the known
// placeholder value as absent.
func credential(key, placeholder string) string {
	v := os.Getenv(key)
	if v == placeholder {
		return ""
	}
	return v
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
