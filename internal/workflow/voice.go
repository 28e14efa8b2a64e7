package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mindmate/triage-client/internal/i18n"
	"github.com/mindmate/triage-client/internal/metrics"
	"github.com/mindmate/triage-client/internal/speech"
)

type voicePhase int

const (
	voiceIdle voicePhase = iota
	voiceListening
)

// BeginVoiceCapture runs one single-shot capture in the current UI language.
// A recognized utterance replaces the pending symptoms verbatim. Listening ends
// on speech end or on error; errors are returned as is and not retried.
func (c *Controller) BeginVoiceCapture(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.recognizer == nil {
		c.mu.Unlock()
		return "", speech.ErrUnavailable
	}
	if c.voice == voiceListening {
		c.mu.Unlock()
		return "", ErrAlreadyListening
	}
	if c.status.Phase != PhaseIdle {
		c.mu.Unlock()
		return "", ErrNotIdle
	}
	c.voice = voiceListening
	recognizer := c.recognizer
	locale := c.table.Tag()
	c.mu.Unlock()

	transcript, err := recognizer.Recognize(ctx, locale)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.voice = voiceIdle

	if err != nil {
		metrics.ObserveSpeech(metrics.CapabilityRecognition, metrics.OutcomeFailure)
		c.logger.Warn("voice capture failed", slog.String("locale", locale.String()), slog.Any("error", err))
		return "", err
	}
	metrics.ObserveSpeech(metrics.CapabilityRecognition, metrics.OutcomeSuccess)
	if c.status.Phase == PhaseIdle {
		c.form.Symptoms = transcript
	}
	return transcript, nil
}

// SpeakResult reads the current result aloud in the UI language. If playback
// is already running it is stopped instead and (nil, nil) is returned.
func (c *Controller) SpeakResult(ctx context.Context) (*Playback, error) {
	c.mu.Lock()
	if c.playback.active() {
		current := c.playback
		c.playback = nil
		c.mu.Unlock()
		current.Stop()
		return nil, nil
	}
	if c.speaker == nil {
		c.mu.Unlock()
		return nil, speech.ErrUnavailable
	}
	if c.status.Phase != PhaseSuccess {
		c.mu.Unlock()
		return nil, ErrNoResult
	}

	utterance := speech.Utterance{
		Text:     ResultText(c.table, c.status),
		Language: c.table.Language,
		Locale:   c.table.Tag(),
		Rate:     SpeechRate,
	}
	playCtx, cancel := context.WithCancel(ctx)
	playback := newPlayback(cancel)
	c.playback = playback
	speaker := c.speaker
	c.mu.Unlock()

	go func() {
		err := speaker.Speak(playCtx, utterance)
		playback.finish(err)

		c.mu.Lock()
		if c.playback == playback {
			c.playback = nil
		}
		c.mu.Unlock()

		switch {
		case err == nil:
			metrics.ObserveSpeech(metrics.CapabilitySynthesis, metrics.OutcomeSuccess)
		case errors.Is(err, context.Canceled):
		default:
			metrics.ObserveSpeech(metrics.CapabilitySynthesis, metrics.OutcomeFailure)
			c.logger.Warn("playback failed", slog.Any("error", err))
		}
	}()
	return playback, nil
}

// ResultText is the spoken form of a result: localized severity label and
// level followed by the message.
func ResultText(table i18n.Table, status Status) string {
	return table.Text(i18n.KeySeverityLabel) + ": " + table.SeverityName(status.Severity) + ". " + status.Message
}

// Playback is one running read-aloud session.
type Playback struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

func newPlayback(cancel context.CancelFunc) *Playback {
	return &Playback{cancel: cancel, done: make(chan struct{})}
}

// Done is closed when playback ends.
func (p *Playback) Done() <-chan struct{} { return p.done }

// Err returns the playback outcome once Done is closed. A stopped playback
// reports context.Canceled.
func (p *Playback) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Stop cancels playback and waits for it to end.
func (p *Playback) Stop() {
	p.cancel()
	<-p.done
}

func (p *Playback) finish(err error) {
	p.once.Do(func() {
		p.err = err
		p.cancel()
		close(p.done)
	})
}

func (p *Playback) active() bool {
	if p == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}
