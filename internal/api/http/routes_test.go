package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
	"github.com/Dowline1/SurfSmart-AI/internal/store"
	"github.com/Dowline1/SurfSmart-AI/internal/webcam"
)

type stubRunner struct {
	result forecast.Result
	gotReq forecast.Request
	called bool
}

func (s *stubRunner) Run(_ context.Context, req forecast.Request) forecast.Result {
	s.called = true
	s.gotReq = req
	return s.result
}

type stubImages struct {
	sample *forecast.Image
	err    error
}

func (s stubImages) Resolve(_ context.Context, _ string, mode webcam.Mode, upload *forecast.Image) (*forecast.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	if mode == webcam.ModeUpload {
		if upload == nil {
			return nil, webcam.ErrNoImage
		}
		return upload, nil
	}
	if s.sample == nil {
		return nil, webcam.ErrNoImage
	}
	return s.sample, nil
}

func (s stubImages) Spots() []string {
	return []string{"Lahinch, Ireland"}
}

func testDeps(runner *stubRunner, images stubImages) Deps {
	return Deps{
		Runner:     runner,
		Images:     images,
		Conditions: store.NewMemoryStore(10, time.Hour),
		Spots: []forecast.Spot{
			{Name: "Lahinch, Ireland", Coords: forecast.Coordinates{Latitude: 52.9335, Longitude: -9.3441}},
		},
	}
}

func newForecastRequest(t *testing.T, fields map[string]string, withImage bool) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		fw, err := w.CreateFormFile("image", "surf.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecast", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestForecastRequiresSkillLevel(t *testing.T) {
	app := fiber.New()
	runner := &stubRunner{}
	RegisterRoutes(app, testDeps(runner, stubImages{}))

	req := newForecastRequest(t, map[string]string{"spot": "Lahinch, Ireland"}, true)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, runner.called)
}

func TestForecastRejectsUnknownSkillLevel(t *testing.T) {
	app := fiber.New()
	runner := &stubRunner{}
	RegisterRoutes(app, testDeps(runner, stubImages{}))

	req := newForecastRequest(t, map[string]string{
		"spot":        "Lahinch, Ireland",
		"skill_level": "kook",
	}, true)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecastRequiresUploadImage(t *testing.T) {
	app := fiber.New()
	runner := &stubRunner{}
	RegisterRoutes(app, testDeps(runner, stubImages{}))

	req := newForecastRequest(t, map[string]string{
		"spot":        "Lahinch, Ireland",
		"skill_level": "beginner",
	}, false)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, runner.called)
}

func TestForecastSampleResolutionFailureSkipsPipeline(t *testing.T) {
	app := fiber.New()
	runner := &stubRunner{}
	RegisterRoutes(app, testDeps(runner, stubImages{}))

	req := newForecastRequest(t, map[string]string{
		"spot":        "Lahinch, Ireland",
		"skill_level": "beginner",
		"image_mode":  "sample",
	}, false)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, runner.called, "pipeline must not run without an image")
}

func TestForecastUnknownSpotWithoutCoordinates(t *testing.T) {
	app := fiber.New()
	runner := &stubRunner{}
	RegisterRoutes(app, testDeps(runner, stubImages{}))

	req := newForecastRequest(t, map[string]string{
		"spot":        "Mavericks, California",
		"skill_level": "advanced",
	}, true)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecastUploadHappyPath(t *testing.T) {
	app := fiber.New()
	runner := &stubRunner{
		result: forecast.Result{
			ID:       "run-1",
			Forecast: "Fun, clean conditions this morning.",
			Wave:     forecast.WaveReading{WaveHeight: 1.8, Source: forecast.SourceSimulated},
		},
	}
	RegisterRoutes(app, testDeps(runner, stubImages{}))

	req := newForecastRequest(t, map[string]string{
		"spot":        "Lahinch, Ireland",
		"skill_level": "beginner",
	}, true)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Forecast string `json:"forecast"`
		WaveData struct {
			WaveHeight float64 `json:"wave_height"`
			Source     string  `json:"source"`
		} `json:"wave_data"`
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Fun, clean conditions this morning.", payload.Forecast)
	assert.Equal(t, 1.8, payload.WaveData.WaveHeight)
	assert.Equal(t, forecast.SourceSimulated, payload.WaveData.Source)
	assert.Empty(t, payload.Error)

	// Coordinates came from the configured spot list.
	require.True(t, runner.called)
	assert.Equal(t, 52.9335, runner.gotReq.Coords.Latitude)
	assert.Equal(t, "beginner", runner.gotReq.SkillLevel)
	require.NotNil(t, runner.gotReq.Image)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, runner.gotReq.Image.Data)
}

func TestForecastExplicitCoordinatesMustBeFinite(t *testing.T) {
	app := fiber.New()
	runner := &stubRunner{}
	RegisterRoutes(app, testDeps(runner, stubImages{}))

	req := newForecastRequest(t, map[string]string{
		"spot":        "Lahinch, Ireland",
		"skill_level": "beginner",
		"lat":         "NaN",
		"lon":         "-9.3441",
	}, true)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConditionsLatest(t *testing.T) {
	app := fiber.New()
	deps := testDeps(&stubRunner{}, stubImages{})
	RegisterRoutes(app, deps)

	// Empty store: 404.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/conditions/latest?spot=Lahinch%2C+Ireland", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	deps.Conditions.(*store.MemoryStore).SaveConditions(forecast.Conditions{
		Spot:      "Lahinch, Ireland",
		FetchedAt: time.Now().UTC(),
		Wave:      forecast.WaveReading{WaveHeight: 2.0, Source: forecast.SourceStormglass},
	})

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/conditions/latest?spot=Lahinch%2C+Ireland", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConditionsHistoryValidation(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, testDeps(&stubRunner{}, stubImages{}))

	// Missing from/to parameters should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/conditions/history?spot=Lahinch%2C+Ireland", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSpotsListing(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, testDeps(&stubRunner{}, stubImages{}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/spots", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Spots   []forecast.Spot `json:"spots"`
		Webcams []string        `json:"webcams"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Len(t, payload.Spots, 1)
	assert.Equal(t, []string{"Lahinch, Ireland"}, payload.Webcams)
}
