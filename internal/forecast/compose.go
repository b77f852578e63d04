package forecast

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are SurfSmart AI, an experienced surf forecaster prioritizing safety. " +
	"Analyze all provided data (numerical, text, and image) to generate a concise forecast."

// ComposePrompt renders the accumulated state into the prompt handed to the
// completion collaborator. Pure and deterministic: identical states always
// yield byte-identical prompts.
func ComposePrompt(st *State) string {
	metrics := fmt.Sprintf(
		"Wave Height: %vm, Period: %ds, Direction: %s. "+
			"Wind: %v knots %s. "+
			"Tide: %s, %s remaining. "+
			"Temperature: %v°C.",
		st.Wave.WaveHeight, st.Wave.WavePeriod, st.Wave.SwellDirection,
		st.Weather.WindSpeed, st.Weather.WindDirection,
		st.Wave.TideStatus, st.Wave.TideRemaining,
		st.Weather.Temperature,
	)

	safetyContext := strings.Join(st.Safety.Warnings, " ")

	amenitiesInfo := fmt.Sprintf("Nearby: %d surf shops. Parking available.", len(st.Amenities.SurfShops))

	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Generate a 3-sentence surf forecast for a %s surfer at %s:\n\n", st.SkillLevel, st.Spot)
	fmt.Fprintf(&sb, "1. Numerical Metrics: %s\n", metrics)
	fmt.Fprintf(&sb, "2. Safety & Context: %s\n", safetyContext)
	fmt.Fprintf(&sb, "3. Local Amenities: %s\n", amenitiesInfo)
	sb.WriteString("4. Visual: Analyze the image for crowd levels and surface conditions.\n\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Start with wave quality assessment\n")
	sb.WriteString("- Include safety warnings if applicable\n")
	sb.WriteString("- Provide skill-specific advice\n")
	sb.WriteString("- Use accessible language")

	return sb.String()
}
