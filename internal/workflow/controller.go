package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mindmate/triage-client/internal/i18n"
	"github.com/mindmate/triage-client/internal/metrics"
	"github.com/mindmate/triage-client/internal/models"
	"github.com/mindmate/triage-client/internal/repo"
	"github.com/mindmate/triage-client/internal/speech"
	"github.com/mindmate/triage-client/internal/utils"
)

// SpeechRate is the fixed playback rate for results, slower than normal speech.
const SpeechRate = 0.9

const latencyLogEvery = 20

// Analyzer submits one case for triage.
type Analyzer interface {
	SubmitCase(ctx context.Context, input models.SubmissionInput) (models.AnalysisResult, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecognizer enables voice capture.
func WithRecognizer(r speech.Recognizer) Option {
	return func(c *Controller) { c.recognizer = r }
}

// WithSpeaker enables reading results aloud.
func WithSpeaker(s speech.Speaker) Option {
	return func(c *Controller) { c.speaker = s }
}

// WithValidator replaces the input validator.
func WithValidator(v *validator.Validate) Option {
	return func(c *Controller) {
		if v != nil {
			c.validate = v
		}
	}
}

// WithLanguage sets the initial UI language.
func WithLanguage(lang models.Language) Option {
	return func(c *Controller) { c.initial = lang }
}

// Controller drives one case at a time through Idle, Submitting and
// Success/Failure, and owns the voice capture and playback sessions.
type Controller struct {
	analyzer   Analyzer
	catalog    *i18n.Catalog
	logger     *slog.Logger
	validate   *validator.Validate
	recognizer speech.Recognizer
	speaker    speech.Speaker
	initial    models.Language

	mu       sync.Mutex
	table    i18n.Table
	status   Status
	form     models.SubmissionInput
	attempt  uint64
	voice    voicePhase
	playback *Playback
	latency  *utils.LatencyTracker
	observed int
}

// New builds a Controller in PhaseIdle. A nil catalog uses the embedded pack.
func New(analyzer Analyzer, catalog *i18n.Catalog, opts ...Option) *Controller {
	if catalog == nil {
		catalog = i18n.Default()
	}
	c := &Controller{
		analyzer: analyzer,
		catalog:  catalog,
		logger:   slog.Default(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		initial:  catalog.Base(),
		status:   Status{Phase: PhaseIdle},
		latency:  utils.NewLatencyTracker(200),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.table, _ = catalog.Lookup(c.initial)
	return c
}

// Submit validates input and sends it to the analyzer. It is accepted only in
// PhaseIdle; a second call while a submission is in flight is refused with
// ErrSubmissionInFlight, never queued. Invalid input leaves the controller idle.
func (c *Controller) Submit(ctx context.Context, input models.SubmissionInput) (Status, error) {
	c.mu.Lock()
	switch c.status.Phase {
	case PhaseIdle:
	case PhaseSubmitting:
		status := c.status
		c.mu.Unlock()
		metrics.ObserveSubmission(0, metrics.OutcomeRejected)
		return status, ErrSubmissionInFlight
	default:
		status := c.status
		c.mu.Unlock()
		metrics.ObserveSubmission(0, metrics.OutcomeRejected)
		return status, ErrNotIdle
	}

	if input.Language == "" {
		input.Language = c.table.Language
	}
	if err := c.validate.Struct(input); err != nil {
		status := c.status
		c.mu.Unlock()
		metrics.ObserveSubmission(0, metrics.OutcomeRejected)
		return status, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	c.attempt++
	attempt := c.attempt
	c.form = input
	c.status = Status{Phase: PhaseSubmitting}
	table := c.table
	c.mu.Unlock()

	c.logger.Info("submitting case",
		slog.Uint64("attempt", attempt),
		slog.String("language", string(input.Language)),
		slog.Int("symptoms_len", len(input.Symptoms)),
	)

	settled := false
	defer func() {
		if settled {
			return
		}
		// The analyzer call panicked; never leave the controller stuck submitting.
		c.mu.Lock()
		if c.attempt == attempt && c.status.Phase == PhaseSubmitting {
			c.status = Status{Phase: PhaseFailure, Reason: table.Text(i18n.KeyTransportFailure)}
		}
		c.mu.Unlock()
	}()

	start := time.Now()
	result, err := c.analyzer.SubmitCase(ctx, input)
	elapsed := time.Since(start)
	settled = true

	c.mu.Lock()
	defer c.mu.Unlock()

	if attempt != c.attempt || c.status.Phase != PhaseSubmitting {
		metrics.ObserveSubmission(elapsed, metrics.OutcomeStale)
		c.logger.Debug("discarding stale analyzer response", slog.Uint64("attempt", attempt))
		return c.status, ErrStaleResponse
	}
	c.observeLatency(elapsed)

	if err != nil {
		c.status = Status{Phase: PhaseFailure, Reason: failureReason(err, table)}
		metrics.ObserveSubmission(elapsed, metrics.OutcomeFailure)
		c.logger.Warn("submission failed", slog.Uint64("attempt", attempt), slog.Any("error", err))
		return c.status, err
	}

	c.status = Status{
		Phase:    PhaseSuccess,
		Severity: result.Severity,
		Message:  result.Message,
		ClassKey: ClassKey(result.Severity),
	}
	metrics.ObserveSubmission(elapsed, metrics.OutcomeSuccess)
	c.logger.Info("submission completed",
		slog.Uint64("attempt", attempt),
		slog.String("severity", string(result.Severity)),
		slog.Duration("elapsed", elapsed),
	)
	return c.status, nil
}

// Reset starts a new submission from Success or Failure: input and result are
// cleared and any playback is cancelled. Called while submitting, it abandons
// the attempt and the late response is discarded. In Idle it only stops playback.
func (c *Controller) Reset() {
	c.mu.Lock()
	playback := c.playback
	c.playback = nil
	if c.status.Phase != PhaseIdle {
		if c.status.Phase == PhaseSubmitting {
			c.attempt++
		}
		c.status = Status{Phase: PhaseIdle}
		c.form = models.SubmissionInput{}
	}
	c.mu.Unlock()

	if playback != nil {
		playback.Stop()
	}
}

// SetLanguage switches every static string to lang and retargets voice capture.
// Unknown languages fall back to the base table without error.
func (c *Controller) SetLanguage(lang models.Language) i18n.Table {
	table, ok := c.catalog.Lookup(lang)
	if !ok {
		c.logger.Debug("language not in catalog, using base", slog.String("language", string(lang)))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = table
	if c.status.Phase == PhaseIdle {
		c.form.Language = table.Language
	}
	return table
}

// Table returns the active localization table.
func (c *Controller) Table() i18n.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table
}

// SetForm replaces the pending input. Ignored outside PhaseIdle.
func (c *Controller) SetForm(input models.SubmissionInput) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.Phase != PhaseIdle {
		return false
	}
	c.form = input
	return true
}

// Snapshot is everything a presentation adapter needs to draw the form and result.
type Snapshot struct {
	Status        Status
	Form          models.SubmissionInput
	Language      models.Language
	Locale        string
	Labels        map[string]string
	SubmitLabel   string
	SubmitEnabled bool
	Listening     bool
	Speaking      bool
	CanListen     bool
	CanSpeak      bool
	Latency       utils.LatencySummary
}

// Snapshot returns a consistent copy of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	submitLabel := c.table.Text(i18n.KeySubmit)
	if c.status.Phase == PhaseSubmitting {
		submitLabel = c.table.Text(i18n.KeyAnalyzing)
	}
	return Snapshot{
		Status:        c.status,
		Form:          c.form,
		Language:      c.table.Language,
		Locale:        c.table.Locale,
		Labels:        c.table.Strings(),
		SubmitLabel:   submitLabel,
		SubmitEnabled: c.status.Phase == PhaseIdle,
		Listening:     c.voice == voiceListening,
		Speaking:      c.playback.active(),
		CanListen:     c.recognizer != nil,
		CanSpeak:      c.speaker != nil,
		Latency:       c.latency.Summary(),
	}
}

func (c *Controller) observeLatency(d time.Duration) {
	c.latency.Observe(d)
	c.observed++
	if c.observed%latencyLogEvery == 0 {
		c.logger.Info("submission latency", slog.Int("samples", c.observed), slog.Duration("p95", c.latency.Percentile(95)))
	}
}

func failureReason(err error, table i18n.Table) string {
	var appErr *repo.ApplicationError
	if errors.As(err, &appErr) {
		if appErr.Message != "" {
			return appErr.Message
		}
		return table.Text(i18n.KeyUnknownAppError)
	}
	var transportErr *repo.TransportError
	if errors.As(err, &transportErr) && transportErr.Reason != "" {
		return transportErr.Reason
	}
	return table.Text(i18n.KeyTransportFailure)
}
