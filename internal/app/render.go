package app

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/claude/mapty/internal/workout"
)

var entryTmpl = template.Must(template.New("entry").Parse(
	`<li class="workout workout--{{.Kind}}" data-id="{{.ID}}">
  <h2 class="workout__title">{{.Description}}</h2>
  <div class="workout__details">
    <span class="workout__icon">{{.Glyph}}</span>
    <span class="workout__value">{{.Distance}}</span>
    <span class="workout__unit">km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⏱</span>
    <span class="workout__value">{{.Duration}}</span>
    <span class="workout__unit">min</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value">{{.Metric}}</span>
    <span class="workout__unit">{{.MetricUnit}}</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">{{.ExtraIcon}}</span>
    <span class="workout__value">{{.Extra}}</span>
    <span class="workout__unit">{{.ExtraUnit}}</span>
  </div>
</li>`))

type entryData struct {
	ID, Kind, Description, Glyph string
	Distance, Duration           string
	Metric, MetricUnit           string
	Extra, ExtraIcon, ExtraUnit  string
}

// RenderEntry renders the list entry for w. The output depends only on w, so
// restored and freshly created workouts look the same.
func RenderEntry(w workout.Workout) string {
	d := entryData{
		ID:          w.ID,
		Kind:        string(w.Kind),
		Description: w.Description,
		Glyph:       w.Kind.Glyph(),
		Distance:    num(w.Distance),
		Duration:    num(w.Duration),
	}
	switch w.Kind {
	case workout.KindRunning:
		d.Metric, d.MetricUnit = strconv.FormatFloat(w.Pace, 'f', 1, 64), "min/km"
		d.Extra, d.ExtraIcon, d.ExtraUnit = num(w.Cadence), "🦶🏼", "spm"
	case workout.KindCycling:
		d.Metric, d.MetricUnit = strconv.FormatFloat(w.Speed, 'f', 1, 64), "km/h"
		d.Extra, d.ExtraIcon, d.ExtraUnit = num(w.ElevationGain), "⛰", "m"
	}

	var buf bytes.Buffer
	// entryData has only string fields, so Execute cannot fail.
	_ = entryTmpl.Execute(&buf, d)
	return buf.String()
}

// Popup returns the marker popup text for w.
func Popup(w workout.Workout) string {
	return w.Kind.Glyph() + " " + w.Description
}

// MarkerClass returns the popup CSS class for w.
func MarkerClass(w workout.Workout) string {
	return string(w.Kind) + "-popup"
}

// num formats like a browser prints a number: shortest exact form, no
// trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
