package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/mapty/internal/app"
	"github.com/claude/mapty/internal/store"
	"github.com/claude/mapty/internal/workout"
	"github.com/go-chi/chi/v5"
)

type locationRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

type pointRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type ackRequest struct {
	Seq int `json:"seq"`
}

type kindRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Snapshot())
}

func (s *Server) handleAckAlerts(w http.ResponseWriter, r *http.Request) {
	var req ackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.view.AckAlerts(req.Seq)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	var err error
	switch {
	case req.Error != "":
		err = s.locator.Fail(req.Error)
	case req.Lat != nil && req.Lng != nil:
		err = s.locator.Resolve(workout.Coords{Lat: *req.Lat, Lng: *req.Lng})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng, or error, required"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng required"})
		return
	}
	coords := workout.Coords{Lat: *req.Lat, Lng: *req.Lng}

	err := s.loop.Do(r.Context(), func(c *app.Controller) error {
		return c.MapClicked(coords)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleKindChange(w http.ResponseWriter, r *http.Request) {
	var req kindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	err := s.loop.Do(r.Context(), func(c *app.Controller) error {
		changed, err := s.view.SetKind(req.Kind)
		if err != nil {
			return err
		}
		if changed {
			c.KindChanged()
		}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var values app.FormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// Saving must not be cut short by the client going away.
	ctx := context.WithoutCancel(r.Context())
	created, err := app.Call(r.Context(), s.loop, func(c *app.Controller) (workout.Workout, error) {
		if err := s.view.SetValues(values); err != nil {
			return workout.Workout{}, err
		}
		return c.Submit(ctx)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := app.Call(r.Context(), s.loop, func(c *app.Controller) ([]workout.Workout, error) {
		return c.Workouts(), nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wk, err := app.Call(r.Context(), s.loop, func(c *app.Controller) (workout.Workout, error) {
		return c.Workout(id)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleSelectWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.loop.Do(r.Context(), func(c *app.Controller) error {
		c.EntrySelected(id)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	err := s.loop.Do(r.Context(), func(c *app.Controller) error {
		return c.Reset(ctx)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("workouts reset via API")
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps controller errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *workout.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "fields": verr.Fields})
	case errors.Is(err, ErrUnknownKind):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
	case errors.Is(err, app.ErrMapUnavailable), errors.Is(err, app.ErrNoPendingLocation):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, app.ErrLoopStopped):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
