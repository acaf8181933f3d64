// Package store holds the session's workouts in creation order and converts
// them to and from the persisted layout.
package store

import (
	"errors"
	"iter"

	"github.com/claude/mapty/internal/workout"
)

var (
	// ErrDuplicateID is returned by Append when the id is already present.
	ErrDuplicateID = errors.New("duplicate workout id")
	// ErrNotFound is returned by FindByID for unknown ids.
	ErrNotFound = errors.New("workout not found")
)

// Store is an ordered collection of workouts. It is not safe for concurrent
// use; the controller owns it exclusively.
type Store struct {
	workouts []workout.Workout
	index    map[string]int
}

// New returns an empty store.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Append adds w at the end.
func (s *Store) Append(w workout.Workout) error {
	if _, ok := s.index[w.ID]; ok {
		return ErrDuplicateID
	}
	s.index[w.ID] = len(s.workouts)
	s.workouts = append(s.workouts, w)
	return nil
}

// All yields the workouts in insertion order. The sequence can be ranged over
// any number of times.
func (s *Store) All() iter.Seq[workout.Workout] {
	return func(yield func(workout.Workout) bool) {
		for _, w := range s.workouts {
			if !yield(w) {
				return
			}
		}
	}
}

// Len returns the number of workouts.
func (s *Store) Len() int {
	return len(s.workouts)
}

// FindByID returns the workout with the given id.
func (s *Store) FindByID(id string) (workout.Workout, error) {
	i, ok := s.index[id]
	if !ok {
		return workout.Workout{}, ErrNotFound
	}
	return s.workouts[i], nil
}

// Reset removes every workout. Purging persisted data is the caller's job.
func (s *Store) Reset() {
	s.workouts = nil
	s.index = make(map[string]int)
}

// Merge appends the workouts of src whose ids s does not already hold, in
// src order. It returns how many were added and how many were skipped.
func (s *Store) Merge(src *Store) (added, skipped int) {
	for w := range src.All() {
		if err := s.Append(w); err != nil {
			skipped++
			continue
		}
		added++
	}
	return added, skipped
}
