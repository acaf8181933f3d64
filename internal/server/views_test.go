package server

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/mapty/internal/app"
	"github.com/claude/mapty/internal/workout"
)

// TestSnapshotIsCopy verifies later updates do not leak into an earlier snapshot.
func TestSnapshotIsCopy(t *testing.T) {
	v := NewView()
	v.AddMarker(workout.Coords{Lat: 1, Lng: 1}, "a", "running-popup")
	snap := v.Snapshot()
	v.AddMarker(workout.Coords{Lat: 2, Lng: 2}, "b", "cycling-popup")
	if len(snap.Map.Markers) != 1 {
		t.Errorf("snapshot markers = %d, want 1", len(snap.Map.Markers))
	}
	if v.Snapshot().Version <= snap.Version {
		t.Error("version should increase on update")
	}
}

func TestEntriesNewestFirst(t *testing.T) {
	v := NewView()
	l := v.List()
	l.AddEntry("1", "<li>1</li>")
	l.AddEntry("2", "<li>2</li>")
	entries := v.Snapshot().Entries
	if len(entries) != 2 || entries[0].ID != "2" {
		t.Errorf("entries = %+v, want newest first", entries)
	}
	l.Clear()
	if len(v.Snapshot().Entries) != 0 {
		t.Error("list Clear should empty entries")
	}
}

// TestFormClearKeepsKind mirrors the page: clearing empties the number
// fields but leaves the selector alone.
func TestFormClearKeepsKind(t *testing.T) {
	v := NewView()
	if err := v.SetValues(app.FormValues{Kind: "cycling", Distance: "3", ElevationGain: "10"}); err != nil {
		t.Fatal(err)
	}
	v.Clear()
	if got := v.Values(); got != (app.FormValues{Kind: "cycling"}) {
		t.Errorf("values = %+v, want only kind", got)
	}
}

func TestAlertsCapped(t *testing.T) {
	v := NewView()
	for i := 0; i < maxAlerts+5; i++ {
		v.Alert("x")
	}
	alerts := v.Snapshot().Alerts
	if len(alerts) != maxAlerts {
		t.Fatalf("alerts = %d, want %d", len(alerts), maxAlerts)
	}
	if alerts[len(alerts)-1].Seq != maxAlerts+5 {
		t.Errorf("last seq = %d, want %d", alerts[len(alerts)-1].Seq, maxAlerts+5)
	}
}

func TestPanSeq(t *testing.T) {
	v := NewView()
	at := workout.Coords{Lat: 3, Lng: 4}
	v.PanTo(at, 13, app.PanOptions{Animate: true, Duration: time.Second})
	v.PanTo(at, 13, app.PanOptions{Animate: true, Duration: time.Second})
	if p := v.Snapshot().Map.Pan; p == nil || p.Seq != 2 {
		t.Errorf("pan = %+v, want seq 2", p)
	}
}

func TestBrowserLocatorFirstReportWins(t *testing.T) {
	b := NewBrowserLocator()
	if err := b.Resolve(workout.Coords{Lat: 1, Lng: 2}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := b.Fail("late"); err != ErrLocationSettled {
		t.Errorf("second report err = %v, want ErrLocationSettled", err)
	}
}

// TestSetKindRejectsUnknown verifies an unknown kind is not counted as a
// change, so the fieldset stays in step with the selector.
func TestSetKindRejectsUnknown(t *testing.T) {
	v := NewView()
	for _, kind := range []string{"bogus", "cycling"} {
		changed, err := v.SetKind(kind)
		if kind == "bogus" {
			if !errors.Is(err, ErrUnknownKind) || changed {
				t.Errorf("SetKind(bogus) = %v, %v, want false, ErrUnknownKind", changed, err)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if changed {
			v.ToggleFieldset()
		}
	}
	form := v.Snapshot().Form
	if form.Values.Kind != "cycling" || !form.ShowElevation {
		t.Errorf("kind=%s showElevation=%v, want cycling with elevation shown", form.Values.Kind, form.ShowElevation)
	}
}

// TestSetValuesSyncsFieldset verifies writing the kind through the form
// values moves the fieldset with it.
func TestSetValuesSyncsFieldset(t *testing.T) {
	v := NewView()
	if err := v.SetValues(app.FormValues{Kind: "cycling"}); err != nil {
		t.Fatal(err)
	}
	if !v.Snapshot().Form.ShowElevation {
		t.Error("elevation row should be shown for cycling values")
	}
	if err := v.SetValues(app.FormValues{Kind: "running"}); err != nil {
		t.Fatal(err)
	}
	if v.Snapshot().Form.ShowElevation {
		t.Error("cadence row should be shown for running values")
	}
	if err := v.SetValues(app.FormValues{Kind: "bogus"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
	if got := v.Values().Kind; got != "running" {
		t.Errorf("kind = %q after rejected values, want running", got)
	}
}

func TestAckAlertsDropsDelivered(t *testing.T) {
	v := NewView()
	v.Alert("a")
	v.Alert("b")
	v.Alert("c")
	v.AckAlerts(2)
	alerts := v.Snapshot().Alerts
	if len(alerts) != 1 || alerts[0].Message != "c" {
		t.Errorf("alerts = %+v, want only c", alerts)
	}
	v.AckAlerts(0)
	if len(v.Snapshot().Alerts) != 1 {
		t.Error("acking an old seq should keep newer alerts")
	}
}
