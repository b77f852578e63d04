package sources

import (
	"context"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

// SafetyAdapter has no live provider yet: it always returns a fixed
// simulated reading. A future implementation backed by a lifeguard or
// coastal alert feed (NWS, beaches.ie) drops in behind the same
// forecast.SafetySource contract.
type SafetyAdapter struct{}

// NewSafetyAdapter creates a SafetyAdapter.
func NewSafetyAdapter() *SafetyAdapter {
	return &SafetyAdapter{}
}

// Fetch implements forecast.SafetySource.
func (a *SafetyAdapter) Fetch(_ context.Context, _ forecast.Coordinates, _ string) forecast.SafetyReading {
	return forecast.SafetyReading{
		RipCurrentAlert: true,
		AlertLevel:      "moderate",
		SharkActivity:   false,
		WaterQuality:    "good",
		Warnings: []string{
			"Local Riptide Alert for beginners",
			"Surf School rental shops closed until 12:00 PM",
		},
		Source: forecast.SourceSimulated,
	}
}
