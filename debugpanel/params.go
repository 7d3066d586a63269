package debugpanel

import (
	"errors"
	"fmt"
	"math"

	"portal-scene/core"
	"portal-scene/portal"
)

// ErrInvalidParam is wrapped by every rejected panel edit.
var ErrInvalidParam = errors.New("invalid debug parameter")

// Params is the JSON view of the current debug values.
type Params struct {
	FirefliesSize float32 `json:"firefliesSize"`
	ClearColor    string  `json:"clearColor"`
}

func paramsFrom(p portal.DebugParams) Params {
	return Params{FirefliesSize: p.FirefliesSize, ClearColor: p.ClearColor.Hex()}
}

// ParseFirefliesSize checks the slider range and snaps v to the step.
func ParseFirefliesSize(v float64) (float32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: firefliesSize %v", ErrInvalidParam, v)
	}
	if v < portal.FirefliesSizeMin || v > portal.FirefliesSizeMax {
		return 0, fmt.Errorf("%w: firefliesSize %v not in [%d, %d]",
			ErrInvalidParam, v, portal.FirefliesSizeMin, portal.FirefliesSizeMax)
	}
	return float32(math.Round(v/portal.FirefliesSizeStep) * portal.FirefliesSizeStep), nil
}

// ParseClearColor accepts #rrggbb, rrggbb or #rgb.
func ParseClearColor(s string) (core.Color, error) {
	c, err := core.ParseHex(s)
	if err != nil {
		return core.Color{}, fmt.Errorf("%w: clearColor: %w", ErrInvalidParam, err)
	}
	return c, nil
}
