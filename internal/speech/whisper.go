package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
)

// AudioSource yields one recorded utterance for transcription.
type AudioSource interface {
	Capture(ctx context.Context) (io.ReadCloser, string, error)
}

// FileSource reads the utterance from Path. When Record is set, the command is
// run first with Path appended as its last argument, e.g.
// ["arecord", "-q", "-d", "8", "-f", "cd"].
type FileSource struct {
	Path   string
	Record []string
}

// Capture implements AudioSource.
func (s FileSource) Capture(ctx context.Context) (io.ReadCloser, string, error) {
	if s.Path == "" {
		return nil, "", ErrUnavailable
	}
	if len(s.Record) > 0 {
		args := append(append([]string{}, s.Record[1:]...), s.Path)
		cmd := exec.CommandContext(ctx, s.Record[0], args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, "", fmt.Errorf("record audio: %w: %s", err, strings.TrimSpace(string(out)))
		}
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	return f, filepath.Base(s.Path), nil
}

// WhisperConfig configures the OpenAI transcription endpoint.
type WhisperConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// WhisperRecognizer transcribes captured audio with OpenAI Whisper.
type WhisperRecognizer struct {
	client *openai.Client
	model  string
	source AudioSource
}

// NewWhisperRecognizer returns ErrUnavailable when no API key or audio source is configured.
func NewWhisperRecognizer(cfg WhisperConfig, source AudioSource) (*WhisperRecognizer, error) {
	if cfg.APIKey == "" || source == nil {
		return nil, ErrUnavailable
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperRecognizer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		source: source,
	}, nil
}

// Recognize implements Recognizer. Only the best transcript is returned.
func (w *WhisperRecognizer) Recognize(ctx context.Context, locale language.Tag) (string, error) {
	audio, name, err := w.source.Capture(ctx)
	if err != nil {
		return "", err
	}
	defer audio.Close()

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: name,
		Reader:   audio,
		Language: BaseCode(locale),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
