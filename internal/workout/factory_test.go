package workout

import (
	"errors"
	"slices"
	"testing"
	"time"
)

var fixedTime = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func testFactory() *Factory {
	n := 0
	return NewFactoryWith(
		func() time.Time { return fixedTime },
		func() string {
			n++
			return "w" + string(rune('0'+n))
		},
	)
}

// TestCreateRunning covers the basic running case: 5 km in 30 min at 160 spm
// gives a pace of 6.0 min/km.
func TestCreateRunning(t *testing.T) {
	f := testFactory()
	w, err := f.Create(KindRunning, Coords{Lat: 45.0, Lng: -73.0}, "5", "30", "160")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Kind != KindRunning {
		t.Errorf("kind = %q, want %q", w.Kind, KindRunning)
	}
	if w.Pace != 6.0 {
		t.Errorf("pace = %v, want 6.0", w.Pace)
	}
	if w.Cadence != 160 {
		t.Errorf("cadence = %v, want 160", w.Cadence)
	}
	if w.Description != "Running on October 14" {
		t.Errorf("description = %q, want %q", w.Description, "Running on October 14")
	}
	if w.ID != "w1" {
		t.Errorf("id = %q, want %q", w.ID, "w1")
	}
	if !w.CreatedAt.Equal(fixedTime) {
		t.Errorf("createdAt = %v, want %v", w.CreatedAt, fixedTime)
	}
}

// TestCreateCycling covers the basic cycling case: 20 km in 60 min gives 20 km/h.
func TestCreateCycling(t *testing.T) {
	f := testFactory()
	w, err := f.Create(KindCycling, Coords{Lat: 45.0, Lng: -73.0}, "20", "60", "300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Speed != 20.0 {
		t.Errorf("speed = %v, want 20.0", w.Speed)
	}
	if w.ElevationGain != 300 {
		t.Errorf("elevationGain = %v, want 300", w.ElevationGain)
	}
	if w.Description != "Cycling on October 14" {
		t.Errorf("description = %q, want %q", w.Description, "Cycling on October 14")
	}
	v, unit := w.Metric()
	if v != 20.0 || unit != "km/h" {
		t.Errorf("Metric() = %v %q, want 20 km/h", v, unit)
	}
}

// TestDerivedMetricsExact checks pace and speed are the plain quotients for a
// spread of valid inputs.
func TestDerivedMetricsExact(t *testing.T) {
	cases := []struct {
		distance, duration float64
		raw                [2]string
	}{
		{3.3, 17, [2]string{"3.3", "17"}},
		{42.195, 181.5, [2]string{"42.195", "181.5"}},
		{0.1, 0.7, [2]string{" 0.1 ", "0.7"}},
		{7, 3, [2]string{"7", "3"}},
	}
	f := testFactory()
	for _, tc := range cases {
		r, err := f.Create(KindRunning, Coords{}, tc.raw[0], tc.raw[1], "170")
		if err != nil {
			t.Fatalf("running %v: unexpected error: %v", tc.raw, err)
		}
		if want := tc.duration / tc.distance; r.Pace != want {
			t.Errorf("pace(%v) = %v, want %v", tc.raw, r.Pace, want)
		}
		c, err := f.Create(KindCycling, Coords{}, tc.raw[0], tc.raw[1], "12")
		if err != nil {
			t.Fatalf("cycling %v: unexpected error: %v", tc.raw, err)
		}
		if want := tc.distance / (tc.duration / 60); c.Speed != want {
			t.Errorf("speed(%v) = %v, want %v", tc.raw, c.Speed, want)
		}
	}
}

// TestCreateRejectsInvalid verifies non-finite and non-positive inputs are
// rejected with the offending fields named.
func TestCreateRejectsInvalid(t *testing.T) {
	cases := []struct {
		name                     string
		kind                     Kind
		distance, duration, extr string
		want                     []string
	}{
		{"negative duration", KindRunning, "5", "-5", "160", []string{FieldDuration}},
		{"zero distance", KindRunning, "0", "30", "160", []string{FieldDistance}},
		{"empty cadence", KindRunning, "5", "30", "", []string{FieldCadence}},
		{"not a number", KindRunning, "abc", "30", "160", []string{FieldDistance}},
		{"NaN", KindRunning, "NaN", "30", "160", []string{FieldDistance}},
		{"infinity", KindCycling, "5", "Inf", "10", []string{FieldDuration}},
		{"overflow", KindCycling, "1e400", "30", "10", []string{FieldDistance}},
		{"zero elevation", KindCycling, "20", "60", "0", []string{FieldElevationGain}},
		{"all bad", KindCycling, "", "-1", "x", []string{FieldDistance, FieldDuration, FieldElevationGain}},
		{"unknown kind", Kind("swimming"), "1", "2", "3", []string{FieldKind}},
	}
	f := testFactory()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Create(tc.kind, Coords{Lat: 1, Lng: 1}, tc.distance, tc.duration, tc.extr)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if !slices.Equal(verr.Fields, tc.want) {
				t.Errorf("fields = %v, want %v", verr.Fields, tc.want)
			}
		})
	}
}

// TestCreateRejectsBadCoords verifies out-of-range coordinates are rejected.
func TestCreateRejectsBadCoords(t *testing.T) {
	f := testFactory()
	_, err := f.Create(KindRunning, Coords{Lat: 91, Lng: 0}, "5", "30", "160")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if !slices.Equal(verr.Fields, []string{FieldCoords}) {
		t.Errorf("fields = %v, want [coords]", verr.Fields)
	}
}

// TestCreateUniqueIDs verifies each created workout gets a fresh id from the
// default factory.
func TestCreateUniqueIDs(t *testing.T) {
	f := NewFactory()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		w, err := f.Create(KindRunning, Coords{}, "1", "5", "150")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[w.ID] {
			t.Fatalf("duplicate id %q", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"running", "cycling"} {
		if _, ok := ParseKind(s); !ok {
			t.Errorf("ParseKind(%q): expected ok", s)
		}
	}
	if _, ok := ParseKind("Running"); ok {
		t.Error("ParseKind(\"Running\"): expected not ok")
	}
}

func TestDescribeUsesDayOfMonth(t *testing.T) {
	at := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC) // a Monday
	if got := Describe(KindCycling, at); got != "Cycling on March 3" {
		t.Errorf("Describe = %q, want %q", got, "Cycling on March 3")
	}
}
