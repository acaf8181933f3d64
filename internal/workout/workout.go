package workout

import (
	"fmt"
	"time"
)

// Kind discriminates the workout variants.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// ParseKind maps a form selector value to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindRunning:
		return KindRunning, true
	case KindCycling:
		return KindCycling, true
	}
	return "", false
}

// Title returns the capitalized kind used in descriptions.
func (k Kind) Title() string {
	switch k {
	case KindRunning:
		return "Running"
	case KindCycling:
		return "Cycling"
	}
	return string(k)
}

// Glyph returns the emoji shown next to a workout of this kind.
func (k Kind) Glyph() string {
	if k == KindRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

// Coords is a (latitude, longitude) pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coords) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// Workout is one recorded session. Fields are set once by the factory or by
// the store decoder and never modified afterwards. Only the fields of the
// active Kind are meaningful: Cadence and Pace for running, ElevationGain and
// Speed for cycling.
type Workout struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Coords      Coords    `json:"coords"`
	Distance    float64   `json:"distance"` // km
	Duration    float64   `json:"duration"` // min
	CreatedAt   time.Time `json:"createdAt"`
	Description string    `json:"description"`

	Cadence float64 `json:"cadence,omitempty"` // steps/min
	Pace    float64 `json:"pace,omitempty"`    // min/km

	ElevationGain float64 `json:"elevationGain,omitempty"` // m
	Speed         float64 `json:"speed,omitempty"`         // km/h
}

// Metric returns the derived metric value and its unit.
func (w Workout) Metric() (float64, string) {
	if w.Kind == KindRunning {
		return w.Pace, "min/km"
	}
	return w.Speed, "km/h"
}

// Describe builds the human-readable title, e.g. "Running on October 14".
func Describe(k Kind, at time.Time) string {
	return fmt.Sprintf("%s on %s %d", k.Title(), at.Month(), at.Day())
}

// NewRunning builds a running workout and computes its pace. Inputs are not
// validated here; use Factory.Create for raw form input.
func NewRunning(id string, coords Coords, distance, duration, cadence float64, at time.Time) Workout {
	return Workout{
		ID:          id,
		Kind:        KindRunning,
		Coords:      coords,
		Distance:    distance,
		Duration:    duration,
		CreatedAt:   at,
		Description: Describe(KindRunning, at),
		Cadence:     cadence,
		Pace:        duration / distance,
	}
}

// NewCycling builds a cycling workout and computes its speed.
func NewCycling(id string, coords Coords, distance, duration, elevationGain float64, at time.Time) Workout {
	return Workout{
		ID:            id,
		Kind:          KindCycling,
		Coords:        coords,
		Distance:      distance,
		Duration:      duration,
		CreatedAt:     at,
		Description:   Describe(KindCycling, at),
		ElevationGain: elevationGain,
		Speed:         distance / (duration / 60),
	}
}
