package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "guessgame"

var activeSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of sessions currently held by the session manager",
	},
)

var completedSessions = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completed_sessions_total",
		Help:      "Play-throughs that reached the results view",
	},
)

var votesCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Applied description votes by direction",
	},
	[]string{"direction"},
)

var descriptionChanges = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "description_changes_total",
		Help:      "Descriptions added, removed or rejected",
	},
	[]string{"change"},
)

var timerExpirations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timer_expirations_total",
		Help:      "Countdowns that reached zero, by expiry policy",
	},
	[]string{"policy"},
)

var archiveFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archive_failures_total",
		Help:      "Completed results that could not be written to storage",
	},
)

func SessionStarted() {
	activeSessions.Inc()
}

func SessionStopped() {
	activeSessions.Dec()
}

func SessionCompleted() {
	completedSessions.Inc()
}

func RecordVote(direction string) {
	votesCounter.WithLabelValues(direction).Inc()
}

func RecordDescriptionAdded() {
	descriptionChanges.WithLabelValues("added").Inc()
}

func RecordDescriptionRemoved() {
	descriptionChanges.WithLabelValues("removed").Inc()
}

func RecordDescriptionRejected() {
	descriptionChanges.WithLabelValues("rejected").Inc()
}

func RecordTimerExpired(policy string) {
	timerExpirations.WithLabelValues(policy).Inc()
}

func RecordArchiveFailure() {
	archiveFailures.Inc()
}
