package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

var testCoords = forecast.Coordinates{Latitude: 52.9335, Longitude: -9.3441}

func testClient() *http.Client {
	return &http.Client{Timeout: 2 * time.Second}
}

func noRetry(cfg HTTPConfig) HTTPConfig {
	cfg.Backoff.MaxRetries = 0
	return cfg
}

func TestWaveAdapterNoCredentialsIsFullySimulated(t *testing.T) {
	a := NewWaveAdapter(testClient(), "", "", zap.NewNop().Sugar())

	reading := a.Fetch(context.Background(), testCoords)

	assert.Equal(t, forecast.SourceSimulated, reading.Source)
	assert.Equal(t, 1.8, reading.WaveHeight)
	assert.Equal(t, 10, reading.WavePeriod)
	assert.Equal(t, "W", reading.SwellDirection)
	assert.Equal(t, "High Tide", reading.TideStatus)
	assert.Equal(t, 2.1, reading.TideHeight)
	assert.Equal(t, "1 hour", reading.TideRemaining)
}

func TestWaveAdapterLiveWaveSimulatedTide(t *testing.T) {
	// Stormglass answers, WorldTides is down: the wave half must be live
	// while the tide half degrades independently.
	sgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lng"))
		w.Write([]byte(`{"hours":[{"waveHeight":{"sg":2.34},"wavePeriod":{"sg":12.0},"waveDirection":{"sg":180.0}}]}`))
	}))
	defer sgSrv.Close()

	wtSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer wtSrv.Close()

	a := NewWaveAdapter(testClient(), "secret", "secret", zap.NewNop().Sugar())
	a.stormglass.baseURL = sgSrv.URL
	a.stormglass.httpCfg = noRetry(a.stormglass.httpCfg)
	a.worldtides.baseURL = wtSrv.URL
	a.worldtides.httpCfg = noRetry(a.worldtides.httpCfg)

	reading := a.Fetch(context.Background(), testCoords)

	assert.Equal(t, 2.3, reading.WaveHeight)
	assert.Equal(t, 12, reading.WavePeriod)
	assert.Equal(t, "S", reading.SwellDirection)

	// Tide half fell back, and the merged reading's source records the tide
	// half's origin.
	assert.Equal(t, "High Tide", reading.TideStatus)
	assert.Equal(t, 2.1, reading.TideHeight)
	assert.Equal(t, forecast.SourceSimulated, reading.Source)
}

func TestWaveAdapterBothProvidersLive(t *testing.T) {
	sgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hours":[{"waveHeight":{"sg":1.12},"wavePeriod":{"sg":9.0},"waveDirection":{"sg":270.0}}]}`))
	}))
	defer sgSrv.Close()

	wtSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Write([]byte(`{"status":200}`))
	}))
	defer wtSrv.Close()

	a := NewWaveAdapter(testClient(), "secret", "secret", zap.NewNop().Sugar())
	a.stormglass.baseURL = sgSrv.URL
	a.worldtides.baseURL = wtSrv.URL

	reading := a.Fetch(context.Background(), testCoords)

	assert.Equal(t, 1.1, reading.WaveHeight)
	assert.Equal(t, "W", reading.SwellDirection)
	assert.Equal(t, forecast.SourceWorldTides, reading.Source)
}

func TestStormglassOmittedFieldsUseDefaults(t *testing.T) {
	// The API omits fields it has no model data for.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hours":[{"waveHeight":{"sg":0.9}}]}`))
	}))
	defer srv.Close()

	a := NewWaveAdapter(testClient(), "secret", "", zap.NewNop().Sugar())
	a.stormglass.baseURL = srv.URL

	reading := a.Fetch(context.Background(), testCoords)

	assert.Equal(t, 0.9, reading.WaveHeight)
	assert.Equal(t, 10, reading.WavePeriod)
	assert.Equal(t, "W", reading.SwellDirection) // 270° default
}

func TestStormglassEmptyHoursFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hours":[]}`))
	}))
	defer srv.Close()

	a := NewWaveAdapter(testClient(), "secret", "", zap.NewNop().Sugar())
	a.stormglass.baseURL = srv.URL

	reading := a.Fetch(context.Background(), testCoords)

	require.Equal(t, 1.8, reading.WaveHeight)
	require.Equal(t, forecast.SourceSimulated, reading.Source)
}

func TestWorldTidesMalformedBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	a := NewWaveAdapter(testClient(), "", "secret", zap.NewNop().Sugar())
	a.worldtides.baseURL = srv.URL

	reading := a.Fetch(context.Background(), testCoords)

	assert.Equal(t, forecast.SourceSimulated, reading.Source)
	assert.Equal(t, "High Tide", reading.TideStatus)
}
