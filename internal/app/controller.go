// Package app implements the interaction state machine that connects user
// input, the workout store, persistence and the map and list render targets.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/mapty/internal/metrics"
	"github.com/claude/mapty/internal/store"
	"github.com/claude/mapty/internal/workout"
)

// DefaultZoom is the map zoom used for the initial view and for panning.
const DefaultZoom = 13

const (
	msgLocationFailed = "Couldn't get your location"
	msgInvalidInput   = "Inputs have to be positive numbers!"
)

var (
	// ErrLocationUnavailable means the position could not be determined.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrMapUnavailable is returned for map clicks before the map is initialized.
	ErrMapUnavailable = errors.New("map not initialized")
	// ErrNoPendingLocation is returned when a form is submitted without a
	// clicked location.
	ErrNoPendingLocation = errors.New("no location selected")
)

// State is the controller's interaction state.
type State int

const (
	StateAwaitingLocation State = iota
	StateReady
	StateFormOpen
	StateLocationUnavailable
)

func (s State) String() string {
	switch s {
	case StateAwaitingLocation:
		return "awaiting_location"
	case StateReady:
		return "ready"
	case StateFormOpen:
		return "form_open"
	case StateLocationUnavailable:
		return "location_unavailable"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Deps are the capabilities the controller drives.
type Deps struct {
	Map         Map
	Form        Form
	List        List
	Persistence Persistence
	Notifier    Notifier
	Factory     *workout.Factory
	Log         *slog.Logger
	Zoom        int
}

// Controller owns the session state. It is not safe for concurrent use; run
// it behind a Loop.
type Controller struct {
	mp       Map
	form     Form
	list     List
	persist  Persistence
	notifier Notifier
	factory  *workout.Factory
	log      *slog.Logger
	zoom     int

	state   State
	pending *workout.Coords
	store   *store.Store
}

// New creates a controller in StateAwaitingLocation with an empty store.
func New(d Deps) *Controller {
	zoom := d.Zoom
	if zoom == 0 {
		zoom = DefaultZoom
	}
	factory := d.Factory
	if factory == nil {
		factory = workout.NewFactory()
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		mp:       d.Map,
		form:     d.Form,
		list:     d.List,
		persist:  d.Persistence,
		notifier: d.Notifier,
		factory:  factory,
		log:      log,
		zoom:     zoom,
		state:    StateAwaitingLocation,
		store:    store.New(),
	}
}

// State returns the current interaction state.
func (c *Controller) State() State {
	return c.state
}

// PendingCoords returns the clicked location while the form is open.
func (c *Controller) PendingCoords() (workout.Coords, bool) {
	if c.pending == nil {
		return workout.Coords{}, false
	}
	return *c.pending, true
}

func (c *Controller) mapReady() bool {
	return c.state == StateReady || c.state == StateFormOpen
}

// Restore loads previously saved workouts and renders their list entries.
// Missing or unreadable data leaves the store empty.
func (c *Controller) Restore(ctx context.Context) {
	data, err := c.persist.Load(ctx)
	if err != nil {
		c.log.Warn("loading saved workouts failed", "error", err)
		return
	}
	if data == nil {
		return
	}
	s, err := store.Deserialize(data)
	if err != nil {
		c.log.Warn("ignoring unreadable saved workouts", "error", err)
		return
	}
	c.store = s
	for w := range c.store.All() {
		c.list.AddEntry(w.ID, RenderEntry(w))
	}
	metrics.SetStoredWorkouts(c.store.Len())
	c.log.Info("restored workouts", "count", c.store.Len())
}

// LocationResolved handles the outcome of the position request. On success
// the map is centered and every stored workout gets a marker.
func (c *Controller) LocationResolved(coords workout.Coords, err error) {
	if err != nil {
		c.log.Warn("location unavailable", "error", err)
		c.state = StateLocationUnavailable
		c.notifier.Alert(msgLocationFailed)
		return
	}
	if c.mapReady() {
		return
	}

	c.mp.SetView(coords, c.zoom)
	for w := range c.store.All() {
		c.mp.AddMarker(w.Coords, Popup(w), MarkerClass(w))
	}
	c.state = StateReady
	c.log.Info("map ready", "center", coords.String())
}

// MapClicked opens the form for a workout at coords.
func (c *Controller) MapClicked(coords workout.Coords) error {
	if !c.mapReady() {
		return ErrMapUnavailable
	}
	c.pending = &coords
	c.form.Show()
	c.state = StateFormOpen
	return nil
}

// KindChanged swaps the visible cadence and elevation fields.
func (c *Controller) KindChanged() {
	c.form.ToggleFieldset()
}

// Submit validates the form and records the workout. A validation failure
// alerts the user and leaves the form open with its values.
func (c *Controller) Submit(ctx context.Context) (workout.Workout, error) {
	if c.state != StateFormOpen || c.pending == nil {
		return workout.Workout{}, ErrNoPendingLocation
	}

	v := c.form.Values()
	kind := workout.Kind(v.Kind)
	extra := v.Cadence
	if kind == workout.KindCycling {
		extra = v.ElevationGain
	}

	w, err := c.factory.Create(kind, *c.pending, v.Distance, v.Duration, extra)
	if err != nil {
		var verr *workout.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordValidationFailure()
			c.notifier.Alert(msgInvalidInput)
		}
		return workout.Workout{}, err
	}

	if err := c.store.Append(w); err != nil {
		c.log.Error("append workout", "id", w.ID, "error", err)
		return workout.Workout{}, fmt.Errorf("adding workout %s: %w", w.ID, err)
	}

	c.mp.AddMarker(w.Coords, Popup(w), MarkerClass(w))
	c.list.AddEntry(w.ID, RenderEntry(w))
	c.save(ctx)

	c.form.Clear()
	c.form.Hide()
	c.pending = nil
	c.state = StateReady

	metrics.RecordWorkoutCreated(string(w.Kind))
	metrics.SetStoredWorkouts(c.store.Len())
	c.log.Info("workout created", "id", w.ID, "kind", w.Kind, "coords", w.Coords.String())
	return w, nil
}

// EntrySelected pans the map to the workout behind a list entry. Empty or
// unknown ids are ignored.
func (c *Controller) EntrySelected(id string) {
	if id == "" || !c.mapReady() {
		return
	}
	w, err := c.store.FindByID(id)
	if err != nil {
		c.log.Debug("selected entry not in store", "id", id)
		return
	}
	c.mp.PanTo(w.Coords, c.zoom, PanOptions{Animate: true, Duration: time.Second})
}

// Reset discards every workout, including saved data, and clears both
// render targets. The map view itself is kept. If the saved data cannot be
// cleared nothing else changes.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.persist.Clear(ctx); err != nil {
		return fmt.Errorf("clearing saved workouts: %w", err)
	}
	c.store.Reset()
	c.list.Clear()
	if c.mapReady() {
		c.mp.ClearMarkers()
	}
	c.form.Clear()
	c.form.Hide()
	c.pending = nil
	if c.state == StateFormOpen {
		c.state = StateReady
	}
	metrics.SetStoredWorkouts(0)
	c.log.Info("workouts reset")
	return nil
}

// Workouts returns a copy of the stored workouts in creation order.
func (c *Controller) Workouts() []workout.Workout {
	out := make([]workout.Workout, 0, c.store.Len())
	for w := range c.store.All() {
		out = append(out, w)
	}
	return out
}

// Workout returns one stored workout.
func (c *Controller) Workout(id string) (workout.Workout, error) {
	return c.store.FindByID(id)
}

func (c *Controller) save(ctx context.Context) {
	data, err := c.store.Serialize()
	if err != nil {
		c.log.Error("serializing workouts", "error", err)
		return
	}
	if err := c.persist.Save(ctx, data); err != nil {
		c.log.Error("saving workouts", "error", err)
	}
}
