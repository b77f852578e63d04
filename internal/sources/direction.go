package sources

import "math"

var cardinalLabels = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Cardinal quantizes a bearing in degrees into one of 8 compass labels via
// round(degrees/45) mod 8. Half-way values round to the nearest even index;
// 0° and 360° both map to N.
func Cardinal(degrees float64) string {
	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.RoundToEven(deg/45)) % 8
	return cardinalLabels[idx]
}
