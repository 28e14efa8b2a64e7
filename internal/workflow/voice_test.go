package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mindmate/triage-client/internal/models"
	"github.com/mindmate/triage-client/internal/speech"
)

type fakeRecognizer struct {
	mu      sync.Mutex
	text    string
	err     error
	locales []language.Tag
	started chan struct{}
	release chan struct{}
}

func (f *fakeRecognizer) Recognize(_ context.Context, locale language.Tag) (string, error) {
	f.mu.Lock()
	f.locales = append(f.locales, locale)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.text, f.err
}

type fakeSpeaker struct {
	mu         sync.Mutex
	utterances []speech.Utterance
	started    chan struct{}
	finish     chan struct{}
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{started: make(chan struct{}, 4), finish: make(chan struct{})}
}

func (f *fakeSpeaker) Speak(ctx context.Context, u speech.Utterance) error {
	f.mu.Lock()
	f.utterances = append(f.utterances, u)
	f.mu.Unlock()
	f.started <- struct{}{}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.finish:
		return nil
	}
}

func waitDone(t *testing.T, p *Playback) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not finish")
	}
}

func TestVoiceCaptureReplacesSymptoms(t *testing.T) {
	rec := &fakeRecognizer{text: "j'ai mal à la tête"}
	ctrl := New(&fakeAnalyzer{}, nil, WithRecognizer(rec))
	ctrl.SetForm(models.SubmissionInput{Name: "Luc", Age: 40, Symptoms: "old text"})
	ctrl.SetLanguage(models.LanguageFrench)

	text, err := ctrl.BeginVoiceCapture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "j'ai mal à la tête", text)

	snap := ctrl.Snapshot()
	assert.Equal(t, "j'ai mal à la tête", snap.Form.Symptoms)
	assert.Equal(t, "Luc", snap.Form.Name)
	assert.False(t, snap.Listening)
	require.Len(t, rec.locales, 1)
	assert.Equal(t, "fr-FR", rec.locales[0].String())
}

func TestVoiceCaptureSingleEntry(t *testing.T) {
	rec := &fakeRecognizer{text: "cough", started: make(chan struct{}, 1), release: make(chan struct{})}
	ctrl := New(&fakeAnalyzer{}, nil, WithRecognizer(rec))

	errs := make(chan error, 1)
	go func() {
		_, err := ctrl.BeginVoiceCapture(context.Background())
		errs <- err
	}()
	<-rec.started

	assert.True(t, ctrl.Snapshot().Listening)
	_, err := ctrl.BeginVoiceCapture(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyListening)

	close(rec.release)
	require.NoError(t, <-errs)
	assert.False(t, ctrl.Snapshot().Listening)
}

func TestVoiceCaptureErrorClearsListening(t *testing.T) {
	rec := &fakeRecognizer{err: speech.ErrNoSpeech}
	ctrl := New(&fakeAnalyzer{}, nil, WithRecognizer(rec))
	ctrl.SetForm(models.SubmissionInput{Symptoms: "keep me"})

	_, err := ctrl.BeginVoiceCapture(context.Background())
	assert.ErrorIs(t, err, speech.ErrNoSpeech)

	snap := ctrl.Snapshot()
	assert.False(t, snap.Listening)
	assert.Equal(t, "keep me", snap.Form.Symptoms)
}

func TestCapabilitiesUnavailable(t *testing.T) {
	ctrl := New(&fakeAnalyzer{result: highResult()}, nil)
	snap := ctrl.Snapshot()
	assert.False(t, snap.CanListen)
	assert.False(t, snap.CanSpeak)

	_, err := ctrl.BeginVoiceCapture(context.Background())
	assert.ErrorIs(t, err, speech.ErrUnavailable)

	_, err = ctrl.Submit(context.Background(), validInput())
	require.NoError(t, err)
	_, err = ctrl.SpeakResult(context.Background())
	assert.ErrorIs(t, err, speech.ErrUnavailable)
}

func TestSpeakResultRequiresSuccess(t *testing.T) {
	ctrl := New(&fakeAnalyzer{}, nil, WithSpeaker(newFakeSpeaker()))
	_, err := ctrl.SpeakResult(context.Background())
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestSpeakResultText(t *testing.T) {
	speaker := newFakeSpeaker()
	ctrl := New(&fakeAnalyzer{result: highResult()}, nil, WithSpeaker(speaker))
	_, err := ctrl.Submit(context.Background(), validInput())
	require.NoError(t, err)

	playback, err := ctrl.SpeakResult(context.Background())
	require.NoError(t, err)
	require.NotNil(t, playback)
	<-speaker.started
	assert.True(t, ctrl.Snapshot().Speaking)

	close(speaker.finish)
	waitDone(t, playback)
	assert.NoError(t, playback.Err())

	require.Len(t, speaker.utterances, 1)
	u := speaker.utterances[0]
	assert.Equal(t, "Severity: High. Seek care today.", u.Text)
	assert.Equal(t, SpeechRate, u.Rate)
	assert.Equal(t, "en-US", u.Locale.String())
}

func TestSpeakResultLocalized(t *testing.T) {
	speaker := newFakeSpeaker()
	close(speaker.finish)
	ctrl := New(&fakeAnalyzer{result: highResult()}, nil, WithSpeaker(speaker), WithLanguage(models.LanguageSpanish))
	_, err := ctrl.Submit(context.Background(), validInput())
	require.NoError(t, err)

	playback, err := ctrl.SpeakResult(context.Background())
	require.NoError(t, err)
	waitDone(t, playback)

	assert.Equal(t, "Gravedad: Alta. Seek care today.", speaker.utterances[0].Text)
	assert.Equal(t, models.LanguageSpanish, speaker.utterances[0].Language)
}

func TestSpeakResultTogglesToStop(t *testing.T) {
	speaker := newFakeSpeaker()
	ctrl := New(&fakeAnalyzer{result: highResult()}, nil, WithSpeaker(speaker))
	_, err := ctrl.Submit(context.Background(), validInput())
	require.NoError(t, err)

	first, err := ctrl.SpeakResult(context.Background())
	require.NoError(t, err)
	<-speaker.started

	second, err := ctrl.SpeakResult(context.Background())
	require.NoError(t, err)
	assert.Nil(t, second)

	waitDone(t, first)
	assert.True(t, errors.Is(first.Err(), context.Canceled))
	assert.False(t, ctrl.Snapshot().Speaking)
	assert.Len(t, speaker.utterances, 1)
}

func TestResetCancelsPlayback(t *testing.T) {
	speaker := newFakeSpeaker()
	ctrl := New(&fakeAnalyzer{result: highResult()}, nil, WithSpeaker(speaker))
	_, err := ctrl.Submit(context.Background(), validInput())
	require.NoError(t, err)

	playback, err := ctrl.SpeakResult(context.Background())
	require.NoError(t, err)
	<-speaker.started

	ctrl.Reset()
	waitDone(t, playback)
	assert.ErrorIs(t, playback.Err(), context.Canceled)

	snap := ctrl.Snapshot()
	assert.False(t, snap.Speaking)
	assert.Equal(t, PhaseIdle, snap.Status.Phase)
}
