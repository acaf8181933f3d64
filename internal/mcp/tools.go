package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/mapty/internal/store"
	"github.com/claude/mapty/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// timeRange parses optional start/end bounds. An empty start means no lower
// bound and an empty end means now.
func timeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// filterWorkouts keeps workouts created in [start, end] whose kind matches.
// An empty kind matches both.
func filterWorkouts(all []workout.Workout, kind workout.Kind, start, end time.Time) []workout.Workout {
	out := make([]workout.Workout, 0, len(all))
	for _, w := range all {
		if kind != "" && w.Kind != kind {
			continue
		}
		if w.CreatedAt.Before(start) || w.CreatedAt.After(end) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// KindSummary aggregates workouts of one kind.
type KindSummary struct {
	Count         int     `json:"count"`
	DistanceKm    float64 `json:"distance_km"`
	DurationMin   float64 `json:"duration_min"`
	AvgPace       float64 `json:"avg_pace_min_per_km,omitempty"`
	AvgSpeed      float64 `json:"avg_speed_km_per_h,omitempty"`
	ElevationGain float64 `json:"elevation_gain_m,omitempty"`
}

// summarize totals workouts per kind. Averages are over total distance and
// duration, not the mean of per-workout values.
func summarize(workouts []workout.Workout) map[workout.Kind]*KindSummary {
	out := map[workout.Kind]*KindSummary{}
	for _, w := range workouts {
		s, ok := out[w.Kind]
		if !ok {
			s = &KindSummary{}
			out[w.Kind] = s
		}
		s.Count++
		s.DistanceKm += w.Distance
		s.DurationMin += w.Duration
		s.ElevationGain += w.ElevationGain
	}
	for kind, s := range out {
		switch kind {
		case workout.KindRunning:
			s.AvgPace = s.DurationMin / s.DistanceKm
		case workout.KindCycling:
			s.AvgSpeed = s.DistanceKm / (s.DurationMin / 60)
		}
	}
	return out
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List recorded workouts with optional kind and date filters. Returns id, kind, coordinates, distance (km), duration (min), description, and pace or speed."),
	mcp.WithString("kind", mcp.Description("Filter by workout kind"), mcp.Enum("running", "cycling")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to the first workout.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Return at most this many of the newest matches. 0 means all.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Fetch one workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolWorkoutSummary = mcp.NewTool("workout_summary",
	mcp.WithDescription("Per-kind totals: count, distance, duration, elevation gain, plus average pace (running) or speed (cycling)."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to the first workout.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	var kind workout.Kind
	if k := req.GetString("kind", ""); k != "" {
		var ok bool
		if kind, ok = workout.ParseKind(k); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q", k)), nil
		}
	}

	limit := req.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	all, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	workouts := filterWorkouts(all, kind, start, end)
	if limit > 0 && len(workouts) > limit {
		workouts = workouts[len(workouts)-limit:]
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	w, err := h.ds.Workout(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("workout %q not found", id)), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) workoutSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	all, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp workout_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summarize(filterWorkouts(all, "", start, end)))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
