package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	usersCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "users",
		Name:      "created_total",
		Help:      "Number of users created since process start.",
	})
	exercisesLoggedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "exercises",
		Name:      "logged_total",
		Help:      "Number of exercises logged since process start.",
	})
	exercisePersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_tracker",
		Subsystem: "persistence",
		Name:      "last_exercise_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise written to the store.",
	})
	logResultSizeHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "exercise_tracker",
		Subsystem: "logs",
		Name:      "query_result_size",
		Help:      "Entries returned per log query, post-limit.",
		Buckets:   []float64{0, 1, 5, 10, 50, 100, 500},
	})
)

func init() {
	prometheus.MustRegister(usersCreatedCounter, exercisesLoggedCounter, exercisePersistGauge, logResultSizeHistogram)
}

// RecordUserCreated increments the user creation counter.
func RecordUserCreated() {
	usersCreatedCounter.Inc()
}

// RecordExercisePersisted updates the persistence watermark gauge and the
// logged-exercise counter.
func RecordExercisePersisted(ts time.Time) {
	exercisesLoggedCounter.Inc()
	if ts.IsZero() {
		return
	}
	exercisePersistGauge.Set(float64(ts.Unix()))
}

// RecordLogQueryResultSize observes how many entries a log query returned.
func RecordLogQueryResultSize(count int) {
	logResultSizeHistogram.Observe(float64(count))
}
