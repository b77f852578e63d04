// Package forecast implements the surf forecast pipeline: four data
// collection stages feeding a shared state, a deterministic prompt composer,
// and a final multi-modal synthesis stage.
package forecast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WaveSource supplies wave and tide conditions. Implementations never fail:
// provider errors are contained internally and replaced by simulated
// fallback values.
type WaveSource interface {
	Fetch(ctx context.Context, coords Coordinates) WaveReading
}

// WeatherSource supplies wind and temperature conditions.
type WeatherSource interface {
	Fetch(ctx context.Context, coords Coordinates) WeatherReading
}

// SafetySource supplies alerts and warnings. It also receives the spot name
// since safety feeds are typically looked up by named beach, not coordinates.
type SafetySource interface {
	Fetch(ctx context.Context, coords Coordinates, spot string) SafetyReading
}

// AmenitiesSource supplies nearby amenities.
type AmenitiesSource interface {
	Fetch(ctx context.Context, coords Coordinates) AmenitiesReading
}

// Completer is the multi-modal completion collaborator invoked by the
// synthesis stage with a composed prompt and an image.
type Completer interface {
	Complete(ctx context.Context, prompt string, image *Image) (string, error)
}

// Engine runs the fixed five-stage forecast pipeline. The four collection
// stages have no data dependency on one another and run concurrently; all
// four complete before synthesis reads the accumulated state.
type Engine struct {
	wave      WaveSource
	weather   WeatherSource
	safety    SafetySource
	amenities AmenitiesSource
	completer Completer
	log       *zap.SugaredLogger
}

// NewEngine creates an Engine. All collaborators are injected; the engine
// constructs no clients of its own.
func NewEngine(
	wave WaveSource,
	weather WeatherSource,
	safety SafetySource,
	amenities AmenitiesSource,
	completer Completer,
	log *zap.SugaredLogger,
) *Engine {
	return &Engine{
		wave:      wave,
		weather:   weather,
		safety:    safety,
		amenities: amenities,
		completer: completer,
		log:       log,
	}
}

// collect runs the four collection stages against the state. Each stage
// writes only its own accumulator field, so the fan-out needs no locking.
func (e *Engine) collect(ctx context.Context, st *State) {
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		st.Wave = e.wave.Fetch(ctx, st.Coords)
	}()
	go func() {
		defer wg.Done()
		st.Weather = e.weather.Fetch(ctx, st.Coords)
	}()
	go func() {
		defer wg.Done()
		st.Safety = e.safety.Fetch(ctx, st.Coords, st.Spot)
	}()
	go func() {
		defer wg.Done()
		st.Amenities = e.amenities.Fetch(ctx, st.Coords)
	}()

	wg.Wait()
}

// Collect gathers current conditions for a spot without running synthesis.
// Used by the scheduler to keep the condition history warm.
func (e *Engine) Collect(ctx context.Context, spot string, coords Coordinates) Conditions {
	st := newState(Request{Spot: spot, Coords: coords})
	e.collect(ctx, st)

	return Conditions{
		Spot:      spot,
		Coords:    coords,
		FetchedAt: time.Now().UTC(),
		Wave:      st.Wave,
		Weather:   st.Weather,
		Safety:    st.Safety,
		Amenities: st.Amenities,
	}
}

// Run executes the full pipeline for one request and returns a snapshot of
// the final state. Collaborator failures never surface as an error return:
// collection stages fall back to simulated readings, and a synthesis failure
// is reported through the result's Error field with a placeholder forecast.
func (e *Engine) Run(ctx context.Context, req Request) Result {
	start := time.Now()
	st := newState(req)

	e.collect(ctx, st)

	prompt := ComposePrompt(st)
	st.Forecast, st.Error = Synthesize(ctx, e.completer, prompt, st.Image)

	e.log.Infow("forecast run complete",
		"spot", st.Spot,
		"skill_level", st.SkillLevel,
		"duration", time.Since(start),
		"failed", st.Error != "",
	)

	return Result{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Forecast:    st.Forecast,
		Wave:        st.Wave,
		Weather:     st.Weather,
		Safety:      st.Safety,
		Amenities:   st.Amenities,
		Error:       st.Error,
	}
}
