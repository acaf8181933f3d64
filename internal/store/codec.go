package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/mapty/internal/workout"
)

// record is the persisted form of one workout. The variant is not tagged:
// a cadence field means running, an elevationGain field means cycling. Kind
// is read when present so later writers may add it.
type record struct {
	ID          string     `json:"id"`
	Date        time.Time  `json:"date"`
	Coords      [2]float64 `json:"coords"`
	Distance    float64    `json:"distance"`
	Duration    float64    `json:"duration"`
	Description string     `json:"description"`
	Kind        string     `json:"kind,omitempty"`

	Cadence *float64 `json:"cadence,omitempty"`
	Pace    *float64 `json:"pace,omitempty"`

	ElevationGain *float64 `json:"elevationGain,omitempty"`
	Speed         *float64 `json:"speed,omitempty"`
}

// Serialize encodes the store as a JSON array in insertion order.
func (s *Store) Serialize() ([]byte, error) {
	recs := make([]record, 0, len(s.workouts))
	for _, w := range s.workouts {
		recs = append(recs, toRecord(w))
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encoding workouts: %w", err)
	}
	return data, nil
}

// Deserialize rebuilds a store from Serialize output. Stored values are kept
// as-is; descriptions and derived metrics are not recomputed.
func Deserialize(data []byte) (*Store, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding workouts: %w", err)
	}

	s := New()
	for i, r := range recs {
		w, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := s.Append(w); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.ID, err)
		}
	}
	return s, nil
}

func toRecord(w workout.Workout) record {
	r := record{
		ID:          w.ID,
		Date:        w.CreatedAt,
		Coords:      [2]float64{w.Coords.Lat, w.Coords.Lng},
		Distance:    w.Distance,
		Duration:    w.Duration,
		Description: w.Description,
	}
	switch w.Kind {
	case workout.KindRunning:
		r.Cadence, r.Pace = ptr(w.Cadence), ptr(w.Pace)
	case workout.KindCycling:
		r.ElevationGain, r.Speed = ptr(w.ElevationGain), ptr(w.Speed)
	}
	return r
}

func fromRecord(r record) (workout.Workout, error) {
	if r.ID == "" {
		return workout.Workout{}, fmt.Errorf("missing id")
	}

	var kind workout.Kind
	switch {
	case r.Cadence != nil && r.ElevationGain != nil:
		return workout.Workout{}, fmt.Errorf("workout %s has both cadence and elevationGain", r.ID)
	case r.Cadence != nil:
		kind = workout.KindRunning
	case r.ElevationGain != nil:
		kind = workout.KindCycling
	default:
		return workout.Workout{}, fmt.Errorf("workout %s has neither cadence nor elevationGain", r.ID)
	}
	if r.Kind != "" && workout.Kind(r.Kind) != kind {
		return workout.Workout{}, fmt.Errorf("workout %s tagged %q but fields imply %q", r.ID, r.Kind, kind)
	}

	w := workout.Workout{
		ID:          r.ID,
		Kind:        kind,
		Coords:      workout.Coords{Lat: r.Coords[0], Lng: r.Coords[1]},
		Distance:    r.Distance,
		Duration:    r.Duration,
		CreatedAt:   r.Date,
		Description: r.Description,
	}
	if kind == workout.KindRunning {
		w.Cadence = *r.Cadence
		w.Pace = deref(r.Pace)
	} else {
		w.ElevationGain = *r.ElevationGain
		w.Speed = deref(r.Speed)
	}
	return w, nil
}

func ptr(v float64) *float64 { return &v }

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
