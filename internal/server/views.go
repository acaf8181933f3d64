package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/claude/mapty/internal/app"
	"github.com/claude/mapty/internal/workout"
)

const maxAlerts = 20

// ErrUnknownKind is returned for a kind selector value that names no workout.
var ErrUnknownKind = errors.New("unknown workout kind")

// Marker is a map marker as the page renders it.
type Marker struct {
	Coords workout.Coords `json:"coords"`
	Popup  string         `json:"popup"`
	Class  string         `json:"class"`
}

// Pan is the most recent pan request. Seq increases on every request so the
// page can tell a repeated pan to the same place from a stale one.
type Pan struct {
	Seq             int            `json:"seq"`
	Center          workout.Coords `json:"center"`
	Zoom            int            `json:"zoom"`
	Animate         bool           `json:"animate"`
	DurationSeconds float64        `json:"durationSeconds"`
}

// MapState is the map widget view model.
type MapState struct {
	Ready   bool           `json:"ready"`
	Center  workout.Coords `json:"center"`
	Zoom    int            `json:"zoom"`
	Markers []Marker       `json:"markers"`
	Pan     *Pan           `json:"pan,omitempty"`
}

// FormState is the workout form view model. ShowElevation selects the
// elevation row over the cadence row.
type FormState struct {
	Visible       bool           `json:"visible"`
	Values        app.FormValues `json:"values"`
	ShowElevation bool           `json:"showElevation"`
}

// Entry is one rendered workout list item.
type Entry struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// Alert is a message the page shows once. Alerts stay in the snapshot until
// the page acknowledges them.
type Alert struct {
	Seq     int    `json:"seq"`
	Message string `json:"message"`
}

// Snapshot is everything the page needs to redraw itself.
type Snapshot struct {
	Version int       `json:"version"`
	Map     MapState  `json:"map"`
	Form    FormState `json:"form"`
	Entries []Entry   `json:"entries"` // newest first
	Alerts  []Alert   `json:"alerts"`
}

// View implements the map, form and notifier capabilities, and through List
// the list capability, as state the page polls. The controller writes it from
// the loop goroutine while HTTP handlers read it, so every method locks.
type View struct {
	mu       sync.Mutex
	version  int
	alertSeq int
	panSeq   int
	mp       MapState
	form     FormState
	entries  []Entry
	alerts   []Alert
}

// NewView returns a view with a hidden running form.
func NewView() *View {
	return &View{form: FormState{Values: app.FormValues{Kind: string(workout.KindRunning)}}}
}

var (
	_ app.Map      = (*View)(nil)
	_ app.Form     = (*View)(nil)
	_ app.List     = listView{}
	_ app.Notifier = (*View)(nil)
)

func (v *View) update(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn()
	v.version++
}

// Snapshot returns a deep copy of the current view state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := Snapshot{
		Version: v.version,
		Map:     v.mp,
		Form:    v.form,
		Entries: append([]Entry{}, v.entries...),
		Alerts:  append([]Alert{}, v.alerts...),
	}
	s.Map.Markers = append([]Marker{}, v.mp.Markers...)
	if v.mp.Pan != nil {
		p := *v.mp.Pan
		s.Map.Pan = &p
	}
	return s
}

func (v *View) SetView(center workout.Coords, zoom int) {
	v.update(func() {
		v.mp.Ready = true
		v.mp.Center = center
		v.mp.Zoom = zoom
	})
}

func (v *View) AddMarker(at workout.Coords, popup, class string) {
	v.update(func() {
		v.mp.Markers = append(v.mp.Markers, Marker{Coords: at, Popup: popup, Class: class})
	})
}

func (v *View) PanTo(center workout.Coords, zoom int, opts app.PanOptions) {
	v.update(func() {
		v.panSeq++
		v.mp.Pan = &Pan{
			Seq:             v.panSeq,
			Center:          center,
			Zoom:            zoom,
			Animate:         opts.Animate,
			DurationSeconds: opts.Duration.Seconds(),
		}
	})
}

func (v *View) ClearMarkers() {
	v.update(func() {
		v.mp.Markers = nil
		v.mp.Pan = nil
	})
}

func (v *View) Values() app.FormValues {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.Values
}

// SetValues records what the user typed into the form. Values with an
// unknown kind are rejected. The visible fieldset follows the kind.
func (v *View) SetValues(values app.FormValues) error {
	kind, ok := workout.ParseKind(values.Kind)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKind, values.Kind)
	}
	v.update(func() {
		v.form.Values = values
		v.form.ShowElevation = kind == workout.KindCycling
	})
	return nil
}

// SetKind updates the kind selector and reports whether it changed. The
// caller toggles the fieldset on a change.
func (v *View) SetKind(kind string) (bool, error) {
	if _, ok := workout.ParseKind(kind); !ok {
		return false, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	changed := false
	v.update(func() {
		changed = v.form.Values.Kind != kind
		v.form.Values.Kind = kind
	})
	return changed, nil
}

func (v *View) Show() { v.update(func() { v.form.Visible = true }) }
func (v *View) Hide() { v.update(func() { v.form.Visible = false }) }

func (v *View) Clear() {
	v.update(func() {
		v.form.Values = app.FormValues{Kind: v.form.Values.Kind}
	})
}

func (v *View) ToggleFieldset() {
	v.update(func() { v.form.ShowElevation = !v.form.ShowElevation })
}

// List returns the list capability backed by v.
func (v *View) List() app.List {
	return listView{v}
}

// listView exists because the form and the list both have a Clear method.
type listView struct{ v *View }

func (l listView) AddEntry(id, html string) {
	l.v.update(func() {
		l.v.entries = append([]Entry{{ID: id, HTML: html}}, l.v.entries...)
	})
}

func (l listView) Clear() {
	l.v.update(func() { l.v.entries = nil })
}

func (v *View) Alert(msg string) {
	v.update(func() {
		v.alertSeq++
		v.alerts = append(v.alerts, Alert{Seq: v.alertSeq, Message: msg})
		if len(v.alerts) > maxAlerts {
			v.alerts = v.alerts[len(v.alerts)-maxAlerts:]
		}
	})
}

// AckAlerts drops every alert up to and including seq.
func (v *View) AckAlerts(seq int) {
	v.update(func() {
		i := 0
		for i < len(v.alerts) && v.alerts[i].Seq <= seq {
			i++
		}
		v.alerts = append([]Alert(nil), v.alerts[i:]...)
	})
}
