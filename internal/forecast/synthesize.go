package forecast

import (
	"context"
	"fmt"
)

// PlaceholderForecast replaces the forecast text when synthesis fails.
const PlaceholderForecast = "Unable to generate forecast at this time."

// Synthesize invokes the completion collaborator with the composed prompt
// and image. Collaborator failures (bad credentials, quota, transport,
// malformed image) are caught here: the returned errMsg is non-empty and the
// forecast text is a fixed placeholder. Nothing propagates past this
// boundary.
func Synthesize(ctx context.Context, completer Completer, prompt string, image *Image) (text, errMsg string) {
	out, err := completer.Complete(ctx, prompt, image)
	if err != nil {
		return PlaceholderForecast, fmt.Sprintf("Forecast generation failed: %v", err)
	}
	return out, ""
}
