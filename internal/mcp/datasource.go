package mcp

import (
	"context"

	"github.com/claude/mapty/internal/app"
	"github.com/claude/mapty/internal/workout"
)

// DataSource abstracts where MCP tools read workouts from. LoopSource (in
// process) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Workouts(ctx context.Context) ([]workout.Workout, error)
	Workout(ctx context.Context, id string) (workout.Workout, error)
}

// LoopSource reads workouts through the controller loop.
type LoopSource struct {
	Loop *app.Loop
}

// Compile-time check: LoopSource satisfies DataSource.
var _ DataSource = LoopSource{}

func (s LoopSource) Workouts(ctx context.Context) ([]workout.Workout, error) {
	return app.Call(ctx, s.Loop, func(c *app.Controller) ([]workout.Workout, error) {
		return c.Workouts(), nil
	})
}

func (s LoopSource) Workout(ctx context.Context, id string) (workout.Workout, error) {
	return app.Call(ctx, s.Loop, func(c *app.Controller) (workout.Workout, error) {
		return c.Workout(id)
	})
}
