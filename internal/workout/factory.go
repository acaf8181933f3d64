package workout

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field names reported by ValidationError.
const (
	FieldKind          = "kind"
	FieldCoords        = "coords"
	FieldDistance      = "distance"
	FieldDuration      = "duration"
	FieldCadence       = "cadence"
	FieldElevationGain = "elevationGain"
)

// ValidationError lists the input fields that were rejected.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid workout input: " + strings.Join(e.Fields, ", ")
}

// Factory turns raw form input into workouts.
type Factory struct {
	now   func() time.Time
	newID func() string
}

// NewFactory returns a Factory using the wall clock and random UUIDs.
func NewFactory() *Factory {
	return &Factory{now: time.Now, newID: uuid.NewString}
}

// NewFactoryWith returns a Factory with an injected clock and id source.
func NewFactoryWith(now func() time.Time, newID func() string) *Factory {
	return &Factory{now: now, newID: newID}
}

// Create validates the raw inputs and constructs the workout variant for kind.
// extra is the cadence for running and the elevation gain for cycling. All of
// distance, duration and extra must parse to finite numbers greater than zero.
func (f *Factory) Create(kind Kind, coords Coords, distance, duration, extra string) (Workout, error) {
	var bad []string

	k, ok := ParseKind(string(kind))
	if !ok {
		bad = append(bad, FieldKind)
	}
	if !validCoords(coords) {
		bad = append(bad, FieldCoords)
	}

	dist, ok := parsePositive(distance)
	if !ok {
		bad = append(bad, FieldDistance)
	}
	dur, ok := parsePositive(duration)
	if !ok {
		bad = append(bad, FieldDuration)
	}
	ex, ok := parsePositive(extra)
	if !ok {
		if k == KindCycling {
			bad = append(bad, FieldElevationGain)
		} else {
			bad = append(bad, FieldCadence)
		}
	}

	if len(bad) > 0 {
		return Workout{}, &ValidationError{Fields: bad}
	}

	id, at := f.newID(), f.now()
	if k == KindRunning {
		return NewRunning(id, coords, dist, dur, ex, at), nil
	}
	return NewCycling(id, coords, dist, dur, ex, at), nil
}

func parsePositive(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

func validCoords(c Coords) bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
