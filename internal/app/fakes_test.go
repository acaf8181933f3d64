package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/claude/mapty/internal/workout"
)

type marker struct {
	at           workout.Coords
	popup, class string
}

type pan struct {
	center workout.Coords
	zoom   int
	opts   PanOptions
}

type fakeMap struct {
	center  workout.Coords
	zoom    int
	markers []marker
	pans    []pan
}

func (m *fakeMap) SetView(c workout.Coords, zoom int) { m.center, m.zoom = c, zoom }
func (m *fakeMap) AddMarker(at workout.Coords, popup, class string) {
	m.markers = append(m.markers, marker{at, popup, class})
}
func (m *fakeMap) PanTo(c workout.Coords, zoom int, opts PanOptions) {
	m.pans = append(m.pans, pan{c, zoom, opts})
}
func (m *fakeMap) ClearMarkers() { m.markers = nil }

type fakeForm struct {
	values  FormValues
	visible bool
	toggles int
}

func (f *fakeForm) Values() FormValues { return f.values }
func (f *fakeForm) Show()              { f.visible = true }
func (f *fakeForm) Hide()              { f.visible = false }
func (f *fakeForm) Clear()             { f.values = FormValues{Kind: f.values.Kind} }
func (f *fakeForm) ToggleFieldset()    { f.toggles++ }

type fakeList struct {
	ids     []string
	entries []string
}

func (l *fakeList) AddEntry(id, html string) {
	l.ids = append(l.ids, id)
	l.entries = append(l.entries, html)
}
func (l *fakeList) Clear() { l.ids, l.entries = nil, nil }

type memPersistence struct {
	data    []byte
	saves   int
	loadErr  error
	saveErr  error
	clearErr error
}

func (p *memPersistence) Load(context.Context) ([]byte, error) { return p.data, p.loadErr }
func (p *memPersistence) Save(_ context.Context, data []byte) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.data = append([]byte(nil), data...)
	p.saves++
	return nil
}
func (p *memPersistence) Clear(context.Context) error {
	if p.clearErr != nil {
		return p.clearErr
	}
	p.data = nil
	return nil
}

type fakeNotifier struct{ alerts []string }

func (n *fakeNotifier) Alert(msg string) { n.alerts = append(n.alerts, msg) }

type fakeLocator struct {
	coords workout.Coords
	err    error
	wait   chan struct{}
}

func (l *fakeLocator) CurrentPosition(ctx context.Context) (workout.Coords, error) {
	if l.wait != nil {
		select {
		case <-l.wait:
		case <-ctx.Done():
			return workout.Coords{}, ctx.Err()
		}
	}
	return l.coords, l.err
}

type harness struct {
	c       *Controller
	mp      *fakeMap
	form    *fakeForm
	list    *fakeList
	persist *memPersistence
	alerts  *fakeNotifier
}

func newHarness(persist *memPersistence) *harness {
	if persist == nil {
		persist = &memPersistence{}
	}
	h := &harness{
		mp:      &fakeMap{},
		form:    &fakeForm{values: FormValues{Kind: "running"}},
		list:    &fakeList{},
		persist: persist,
		alerts:  &fakeNotifier{},
	}
	h.c = New(Deps{
		Map:         h.mp,
		Form:        h.form,
		List:        h.list,
		Persistence: h.persist,
		Notifier:    h.alerts,
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return h
}
