package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels completed triages and loads.
	OutcomeSuccess = "success"
	// OutcomeFailure labels transport or application failures.
	OutcomeFailure = "failure"
	// OutcomeStale labels responses discarded because the attempt was abandoned.
	OutcomeStale = "stale"
	// OutcomeRejected labels submissions refused before dispatch.
	OutcomeRejected = "rejected"

	// CapabilityRecognition and CapabilitySynthesis label speech events.
	CapabilityRecognition = "recognition"
	CapabilitySynthesis   = "synthesis"
)

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindmate",
			Name:      "submissions_total",
			Help:      "Case submissions handled by the workflow controller, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	submissionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mindmate",
			Name:      "submission_seconds",
			Help:      "Analyzer round-trip latency for case submissions in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 13, 20, 30},
		},
	)

	caseLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindmate",
			Name:      "case_loads_total",
			Help:      "Dashboard case-list loads, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	speechEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindmate",
			Name:      "speech_events_total",
			Help:      "Speech capture and playback sessions, partitioned by capability and outcome.",
		},
		[]string{"capability", "outcome"},
	)
)

// Register attaches mindmate collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		submissionsTotal,
		submissionDurationSeconds,
		caseLoadsTotal,
		speechEventsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveSubmission records a submission outcome. Durations are only observed
// for attempts that reached the analyzer.
func ObserveSubmission(duration time.Duration, outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeRejected {
		return
	}
	if duration < 0 {
		duration = 0
	}
	submissionDurationSeconds.Observe(duration.Seconds())
}

// ObserveCaseLoad records a dashboard load outcome.
func ObserveCaseLoad(outcome string) {
	label := outcome
	if label != OutcomeFailure {
		label = OutcomeSuccess
	}
	caseLoadsTotal.WithLabelValues(label).Inc()
}

// ObserveSpeech records a speech capture or playback outcome.
func ObserveSpeech(capability, outcome string) {
	speechEventsTotal.WithLabelValues(capability, outcome).Inc()
}
