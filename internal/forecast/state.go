package forecast

import "time"

// Coordinates is a latitude/longitude pair supplied by the caller.
// The core does not range-check values beyond requiring finite numbers.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Spot is a named surf location with known coordinates. The scheduler
// refreshes conditions for configured spots.
type Spot struct {
	Name   string      `json:"name"`
	Coords Coordinates `json:"coordinates"`
}

// Image is an in-memory image blob handed to the synthesis stage.
type Image struct {
	Data []byte
	MIME string
}

// Request carries the caller-supplied inputs for one pipeline run.
// Image must be non-nil; resolving (or refusing to resolve) an image is the
// caller's responsibility.
type Request struct {
	Spot       string
	Coords     Coordinates
	SkillLevel string
	Image      *Image
}

// State is the mutable aggregate threaded through one pipeline run.
// Input fields are set once at initialization. Each accumulator field is
// written exactly once, by its own collection stage, so concurrent
// collectors need no locking. Output fields are written only by the
// synthesis stage.
type State struct {
	// Inputs.
	Spot       string
	Coords     Coordinates
	SkillLevel string
	Image      *Image

	// Accumulators, one per collection stage.
	Wave      WaveReading
	Weather   WeatherReading
	Safety    SafetyReading
	Amenities AmenitiesReading

	// Outputs, written by the synthesis stage.
	Forecast string
	Error    string
}

// Conditions is a snapshot of the four collected readings without the
// synthesis output. The scheduler stores these for configured spots.
type Conditions struct {
	Spot      string           `json:"spot"`
	Coords    Coordinates      `json:"coordinates"`
	FetchedAt time.Time        `json:"fetched_at"`
	Wave      WaveReading      `json:"wave_data"`
	Weather   WeatherReading   `json:"weather_data"`
	Safety    SafetyReading    `json:"safety_data"`
	Amenities AmenitiesReading `json:"amenities_data"`
}

// Result is the caller-facing output of one pipeline run. The reading field
// names are a stable contract with the presentation layer.
type Result struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Forecast    string           `json:"forecast"`
	Wave        WaveReading      `json:"wave_data"`
	Weather     WeatherReading   `json:"weather_data"`
	Safety      SafetyReading    `json:"safety_data"`
	Amenities   AmenitiesReading `json:"amenities_data"`
	Error       string           `json:"error"`
}

func newState(req Request) *State {
	return &State{
		Spot:       req.Spot,
		Coords:     req.Coords,
		SkillLevel: req.SkillLevel,
		Image:      req.Image,
	}
}
