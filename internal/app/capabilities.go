package app

import (
	"context"
	"time"

	"github.com/claude/mapty/internal/workout"
)

// PanOptions controls map movement when a list entry is selected.
type PanOptions struct {
	Animate  bool
	Duration time.Duration
}

// Map is the interactive map widget. Clicks are delivered to the controller
// through Controller.MapClicked by whatever owns the widget.
type Map interface {
	SetView(center workout.Coords, zoom int)
	AddMarker(at workout.Coords, popup, class string)
	PanTo(center workout.Coords, zoom int, opts PanOptions)
	ClearMarkers()
}

// FormValues are the raw field contents of the workout form.
type FormValues struct {
	Kind          string `json:"kind"`
	Distance      string `json:"distance"`
	Duration      string `json:"duration"`
	Cadence       string `json:"cadence"`
	ElevationGain string `json:"elevationGain"`
}

// Form is the workout entry form.
type Form interface {
	Values() FormValues
	Show()
	Hide()
	Clear()
	ToggleFieldset()
}

// List is the workout list render target.
type List interface {
	AddEntry(id, html string)
	Clear()
}

// Locator resolves the user's current position. It may block until the user
// answers a permission prompt.
type Locator interface {
	CurrentPosition(ctx context.Context) (workout.Coords, error)
}

// Persistence stores the serialized workout list. Load returns nil data and
// no error when nothing has been saved.
type Persistence interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(msg string)
}
