package server

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/claude/mapty/internal/app"
	"github.com/claude/mapty/internal/workout"
)

// ErrLocationSettled is returned when the page reports a position after one
// has already been accepted.
var ErrLocationSettled = errors.New("location already reported")

type locationResult struct {
	coords workout.Coords
	err    error
}

// BrowserLocator resolves the current position from the page's geolocation
// callback. The first report wins.
type BrowserLocator struct {
	settled atomic.Bool
	results chan locationResult
}

// NewBrowserLocator returns a locator waiting for its first report.
func NewBrowserLocator() *BrowserLocator {
	return &BrowserLocator{results: make(chan locationResult, 1)}
}

var _ app.Locator = (*BrowserLocator)(nil)

// CurrentPosition blocks until the page reports or ctx is done.
func (b *BrowserLocator) CurrentPosition(ctx context.Context) (workout.Coords, error) {
	select {
	case r := <-b.results:
		return r.coords, r.err
	case <-ctx.Done():
		return workout.Coords{}, ctx.Err()
	}
}

// Resolve reports a position.
func (b *BrowserLocator) Resolve(coords workout.Coords) error {
	return b.report(locationResult{coords: coords})
}

// Fail reports that the browser could not determine a position.
func (b *BrowserLocator) Fail(reason string) error {
	return b.report(locationResult{err: fmt.Errorf("%w: %s", app.ErrLocationUnavailable, reason)})
}

func (b *BrowserLocator) report(r locationResult) error {
	if !b.settled.CompareAndSwap(false, true) {
		return ErrLocationSettled
	}
	b.results <- r
	return nil
}
