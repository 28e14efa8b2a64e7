package workflow

import (
	"errors"

	"github.com/mindmate/triage-client/internal/models"
)

// Phase is the submission lifecycle state. Exactly one phase is current.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailure    Phase = "failure"
)

// Status is the result surface of the controller. Severity, Message and
// ClassKey are set only in PhaseSuccess; Reason only in PhaseFailure.
type Status struct {
	Phase    Phase
	Severity models.Severity
	Message  string
	ClassKey string
	Reason   string
}

var (
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrNotIdle            = errors.New("controller is showing a result; start a new submission first")
	ErrInvalidInput       = errors.New("invalid submission")
	ErrStaleResponse      = errors.New("response arrived for an abandoned submission")
	ErrNoResult           = errors.New("no result to read aloud")
	ErrAlreadyListening   = errors.New("voice capture already in progress")
)

// ClassKey derives the presentation class for a severity, e.g. "severity-high".
func ClassKey(s models.Severity) string {
	return s.ClassKey()
}
