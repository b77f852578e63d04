// Package geo resolves spot names to coordinates for callers that do not
// supply them.
package geo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

// ErrNotConfigured is returned when no geocoding API key is set.
var ErrNotConfigured = errors.New("geocoder is not configured")

// Resolver turns a "Spot, Country" location string into coordinates using
// the Google geocoding API.
type Resolver struct {
	configured bool
}

// NewResolver creates a Resolver. An empty API key produces a resolver that
// always returns ErrNotConfigured. The geocoder library holds its key as a
// package global, so only one Resolver configuration can be active per
// process.
func NewResolver(apiKey string) *Resolver {
	if apiKey == "" {
		return &Resolver{}
	}
	geocoder.ApiKey = apiKey
	return &Resolver{configured: true}
}

// Resolve geocodes a location string like "Lahinch, Ireland".
func (r *Resolver) Resolve(spot string) (forecast.Coordinates, error) {
	if !r.configured {
		return forecast.Coordinates{}, ErrNotConfigured
	}

	addr := geocoder.Address{City: spot}
	if idx := strings.LastIndex(spot, ","); idx != -1 {
		addr.City = strings.TrimSpace(spot[:idx])
		addr.Country = strings.TrimSpace(spot[idx+1:])
	}

	loc, err := geocoder.Geocoding(addr)
	if err != nil {
		return forecast.Coordinates{}, fmt.Errorf("geocode %q: %w", spot, err)
	}

	return forecast.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}
