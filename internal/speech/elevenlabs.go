package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mindmate/triage-client/internal/models"
)

const (
	defaultElevenLabsURL   = "https://api.elevenlabs.io"
	defaultElevenLabsModel = "eleven_multilingual_v2"
)

// ElevenLabsConfig configures the text-to-speech endpoint. Voices maps a UI
// language to a voice ID; languages without an entry use DefaultVoice.
type ElevenLabsConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	DefaultVoice string
	Voices       map[models.Language]string
	Timeout      time.Duration
}

// ElevenLabsSynthesizer renders utterances through the ElevenLabs REST API.
type ElevenLabsSynthesizer struct {
	apiKey       string
	baseURL      string
	model        string
	defaultVoice string
	voices       map[models.Language]string
	httpClient   *http.Client
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	LanguageCode  string        `json:"language_code,omitempty"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// NewElevenLabsSynthesizer returns ErrUnavailable without an API key or voice.
func NewElevenLabsSynthesizer(cfg ElevenLabsConfig) (*ElevenLabsSynthesizer, error) {
	if cfg.APIKey == "" || (cfg.DefaultVoice == "" && len(cfg.Voices) == 0) {
		return nil, ErrUnavailable
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultElevenLabsURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultElevenLabsModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	voices := make(map[models.Language]string, len(cfg.Voices))
	for lang, id := range cfg.Voices {
		if parsed, ok := models.ParseLanguage(string(lang)); ok {
			lang = parsed
		}
		voices[lang] = id
	}
	return &ElevenLabsSynthesizer{
		apiKey:       cfg.APIKey,
		baseURL:      base,
		model:        model,
		defaultVoice: cfg.DefaultVoice,
		voices:       voices,
		httpClient:   &http.Client{Timeout: timeout},
	}, nil
}

// VoiceFor resolves the voice used for a language.
func (s *ElevenLabsSynthesizer) VoiceFor(lang models.Language) string {
	if id, ok := s.voices[lang]; ok && id != "" {
		return id
	}
	return s.defaultVoice
}

// Synthesize implements Synthesizer and returns MPEG audio.
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, u Utterance) ([]byte, error) {
	voice := s.VoiceFor(u.Language)
	if voice == "" {
		return nil, ErrUnavailable
	}

	payload, err := json.Marshal(synthesisRequest{
		Text:         u.Text,
		ModelID:      s.model,
		LanguageCode: BaseCode(u.Locale),
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.8,
			Speed:           u.Rate,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	endpoint := s.baseURL + "/v1/text-to-speech/" + url.PathEscape(voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("synthesize: elevenlabs returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}
