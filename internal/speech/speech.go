package speech

import (
	"context"
	"errors"

	"golang.org/x/text/language"

	"github.com/mindmate/triage-client/internal/models"
)

var (
	// ErrUnavailable reports that the capability is not configured in this environment.
	ErrUnavailable = errors.New("speech capability unavailable")
	// ErrNoSpeech reports a capture that ended without a recognized utterance.
	ErrNoSpeech = errors.New("no speech recognized")
)

// Recognizer turns one spoken utterance into text. Capture is single-shot: the
// call returns once speech ends or recognition fails.
type Recognizer interface {
	Recognize(ctx context.Context, locale language.Tag) (string, error)
}

// Utterance is one piece of text to be read aloud.
type Utterance struct {
	Text     string
	Language models.Language
	Locale   language.Tag
	Rate     float64
}

// Speaker reads an utterance aloud and blocks until playback ends. Cancelling
// ctx stops playback.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
}

// Synthesizer renders an utterance to encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, u Utterance) ([]byte, error)
}

// Player plays encoded audio until it ends or ctx is cancelled.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// SynthesizedSpeaker pairs a synthesizer with a player.
type SynthesizedSpeaker struct {
	Synthesizer Synthesizer
	Player      Player
}

// Speak implements Speaker.
func (s *SynthesizedSpeaker) Speak(ctx context.Context, u Utterance) error {
	if s == nil || s.Synthesizer == nil || s.Player == nil {
		return ErrUnavailable
	}
	audio, err := s.Synthesizer.Synthesize(ctx, u)
	if err != nil {
		return err
	}
	return s.Player.Play(ctx, audio)
}

// BaseCode returns the ISO 639-1 code for a locale, e.g. "es" for es-ES.
func BaseCode(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
