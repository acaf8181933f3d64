package app

import (
	"context"
	"errors"
	"log/slog"
)

// ErrLoopStopped is returned by Do once Run has returned.
var ErrLoopStopped = errors.New("controller loop stopped")

// Loop runs a Controller on a single goroutine. Every event, whether from
// HTTP handlers, MCP tools or the location request, is executed there in
// arrival order, so the controller needs no locking.
type Loop struct {
	c       *Controller
	locator Locator
	events  chan func()
	stopped chan struct{}
	log     *slog.Logger
}

// NewLoop wraps c. locator is queried once when Run starts.
func NewLoop(c *Controller, locator Locator, log *slog.Logger) *Loop {
	return &Loop{
		c:       c,
		locator: locator,
		events:  make(chan func()),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Run restores saved workouts, starts the location request and processes
// events until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	l.c.Restore(ctx)

	go func() {
		coords, err := l.locator.CurrentPosition(ctx)
		if ctx.Err() != nil {
			return
		}
		l.Do(ctx, func(c *Controller) error {
			c.LocationResolved(coords, err)
			return nil
		})
	}()

	l.log.Info("controller loop started")
	for {
		select {
		case <-ctx.Done():
			l.log.Info("controller loop stopped")
			return ctx.Err()
		case fn := <-l.events:
			fn()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func(c *Controller) error) error {
	done := make(chan error, 1)
	event := func() { done <- fn(l.c) }

	select {
	case l.events <- event:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrLoopStopped
	}
	// Once accepted the event always completes.
	return <-done
}

// Call is Do for functions that return a value.
func Call[T any](ctx context.Context, l *Loop, fn func(c *Controller) (T, error)) (T, error) {
	var out T
	err := l.Do(ctx, func(c *Controller) error {
		var err error
		out, err = fn(c)
		return err
	})
	return out, err
}
