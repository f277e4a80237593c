package completion

import (
	"encoding/json"
	"fmt"
	"strings"

	"tutorboard/pkg/types"
)

// Score bounds the persona asks the model to stay within. Out-of-range values
// are clamped rather than rejected: the reply text is still good, only the
// grade drifted.
const (
	minPoints = 0
	maxPoints = 20
)

// scoredBody is the JSON shape the scored persona demands. Pointer fields
// distinguish "absent" from zero values.
type scoredBody struct {
	Response *string      `json:"response"`
	Points   *json.Number `json:"points"`
}

// Parse interprets raw completion output according to the deployment mode.
// Plain mode returns the text verbatim. Scored mode requires a JSON object
// with non-empty "response" and numeric "points"; anything else is
// ErrMalformedReply and the caller must not award points.
func Parse(raw string, scored bool) (types.Result, error) {
	if !scored {
		return types.Result{Reply: raw}, nil
	}

	var body scoredBody
	if err := json.Unmarshal([]byte(stripFences(raw)), &body); err != nil {
		return types.Result{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	if body.Response == nil || *body.Response == "" {
		return types.Result{}, fmt.Errorf("%w: missing response field", ErrMalformedReply)
	}
	if body.Points == nil {
		return types.Result{}, fmt.Errorf("%w: missing points field", ErrMalformedReply)
	}

	points, err := numberToPoints(*body.Points)
	if err != nil {
		return types.Result{}, err
	}

	return types.Result{
		Reply:  *body.Response,
		Points: clampPoints(points),
		Scored: true,
	}, nil
}

// numberToPoints accepts integer or fractional grades; fractions are
// truncated the way the historical client did.
func numberToPoints(n json.Number) (int, error) {
	if v, err := n.Int64(); err == nil {
		return int(v), nil
	}
	if f, err := n.Float64(); err == nil {
		return int(f), nil
	}
	return 0, fmt.Errorf("%w: points is not numeric", ErrMalformedReply)
}

func clampPoints(points int) int {
	if points < minPoints {
		return minPoints
	}
	if points > maxPoints {
		return maxPoints
	}
	return points
}

// stripFences removes a markdown code fence around the JSON body. Models
// routinely wrap structured output in ```json fences despite instructions.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
