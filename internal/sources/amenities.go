package sources

import (
	"context"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

// AmenitiesAdapter has no live provider: places lookups are disabled and
// the adapter returns a fixed simulated reading behind the
// forecast.AmenitiesSource contract.
type AmenitiesAdapter struct{}

// NewAmenitiesAdapter creates an AmenitiesAdapter.
func NewAmenitiesAdapter() *AmenitiesAdapter {
	return &AmenitiesAdapter{}
}

// Fetch implements forecast.AmenitiesSource.
func (a *AmenitiesAdapter) Fetch(_ context.Context, _ forecast.Coordinates) forecast.AmenitiesReading {
	return forecast.AmenitiesReading{
		SurfShops: []forecast.SurfShop{
			{Name: "Local Surf Shop", Distance: "0.5km", Status: "open"},
			{Name: "Surf School", Distance: "0.8km", Status: "closed"},
		},
		Parking: forecast.Parking{
			Available: true,
			Type:      "public",
			Cost:      "free",
		},
		Facilities: []string{"showers", "toilets", "changing_rooms"},
		Source:     forecast.SourceSimulated,
	}
}
