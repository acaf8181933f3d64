package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "created_total",
		Help:      "Workouts created from the form, by kind.",
	}, []string{"kind"})
	validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "validation_failures_total",
		Help:      "Form submissions rejected by input validation.",
	})
	storedWorkouts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "stored",
		Help:      "Workouts currently held in the session store.",
	})
)

func init() {
	prometheus.MustRegister(workoutsCreated, validationFailures, storedWorkouts)
}

// RecordWorkoutCreated counts a created workout of the given kind.
func RecordWorkoutCreated(kind string) {
	workoutsCreated.WithLabelValues(kind).Inc()
}

// RecordValidationFailure counts a rejected form submission.
func RecordValidationFailure() {
	validationFailures.Inc()
}

// SetStoredWorkouts sets the store size gauge.
func SetStoredWorkouts(n int) {
	storedWorkouts.Set(float64(n))
}
