package forecast

// Source identifiers recorded on every reading. A reading tagged
// SourceSimulated was produced from static fallback values rather than a
// live provider.
const (
	SourceSimulated  = "simulated"
	SourceStormglass = "stormglass"
	SourceWorldTides = "worldtides"
	SourceOpenMeteo  = "open-meteo"
)

// WaveReading holds wave and tide conditions for a spot. The wave half
// (height, period, direction) and the tide half (status, height, remaining)
// come from independent providers and degrade independently; Source records
// the tide half's origin.
type WaveReading struct {
	WaveHeight     float64 `json:"wave_height"`
	WavePeriod     int     `json:"wave_period"`
	SwellDirection string  `json:"swell_direction"`
	TideStatus     string  `json:"tide_status"`
	TideHeight     float64 `json:"tide_height"`
	TideRemaining  string  `json:"tide_remaining"`
	Source         string  `json:"source"`
}

// WeatherReading holds wind and temperature conditions for a spot.
// Wind speed is in knots, temperature in Celsius.
type WeatherReading struct {
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection string  `json:"wind_direction"`
	Temperature   float64 `json:"temperature"`
	Source        string  `json:"source"`
}

// SafetyReading holds alerts and warnings for a spot.
type SafetyReading struct {
	RipCurrentAlert bool     `json:"rip_current_alert"`
	AlertLevel      string   `json:"alert_level"`
	SharkActivity   bool     `json:"shark_activity"`
	WaterQuality    string   `json:"water_quality"`
	Warnings        []string `json:"warnings"`
	Source          string   `json:"source"`
}

// SurfShop is a nearby shop or school entry in an amenities reading.
type SurfShop struct {
	Name     string `json:"name"`
	Distance string `json:"distance"`
	Status   string `json:"status"`
}

// Parking describes parking availability near a spot.
type Parking struct {
	Available bool   `json:"available"`
	Type      string `json:"type"`
	Cost      string `json:"cost"`
}

// AmenitiesReading holds local amenities around a spot.
type AmenitiesReading struct {
	SurfShops  []SurfShop `json:"surf_shops"`
	Parking    Parking    `json:"parking"`
	Facilities []string   `json:"facilities"`
	Source     string     `json:"source"`
}
