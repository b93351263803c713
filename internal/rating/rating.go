// Package rating captures interactive ratings and converts source ratings to
// display scores.
package rating

import (
	"math"
	"sync"
)

// Scale is the domain a rating widget accepts.
type Scale struct {
	Min  float64
	Max  float64
	Step float64
}

var (
	// Stars is the discrete 1-10 star scale used by reviews.
	Stars = Scale{Min: 1, Max: 10, Step: 1}
	// Score is the continuous 0-10 scale of the hero rating widget.
	Score = Scale{Min: 0, Max: 10, Step: 0.1}
)

// Clamp snaps v to the scale step and pulls it into [Min, Max]. NaN maps to Min.
func (s Scale) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.Min
	}
	if s.Step > 0 {
		v = math.Round(v/s.Step) * s.Step
		// keep one-decimal steps free of float noise
		v = math.Round(v*1e6) / 1e6
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

func (s Scale) ClampInt(v int) int {
	return int(s.Clamp(float64(v)))
}

type Observer interface {
	OnRate(v float64) error
}

type ObserverFunc func(v float64) error

func (f ObserverFunc) OnRate(v float64) error { return f(v) }

// Input is one interactive rating widget. A zero value means not yet rated.
type Input struct {
	mu       sync.Mutex
	scale    Scale
	current  float64
	observer Observer
}

// NewInput creates a widget showing initial. A non-zero initial value is
// clamped to the scale.
func NewInput(scale Scale, initial float64, observer Observer) *Input {
	if initial != 0 {
		initial = scale.Clamp(initial)
	}
	return &Input{scale: scale, current: initial, observer: observer}
}

// Rate records v after clamping it to the scale. Re-rating with the current
// value is a no-op and does not notify the observer. Observer errors are
// returned to the caller; the new rating is kept regardless.
func (in *Input) Rate(v float64) (float64, error) {
	in.mu.Lock()
	v = in.scale.Clamp(v)
	if v == in.current {
		in.mu.Unlock()
		return v, nil
	}
	in.current = v
	observer := in.observer
	in.mu.Unlock()

	if observer != nil {
		if err := observer.OnRate(v); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (in *Input) Value() float64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.current
}

func (in *Input) Scale() Scale {
	return in.scale
}
