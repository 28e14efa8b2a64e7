package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mindmate/triage-client/internal/cache"
	"github.com/mindmate/triage-client/internal/config"
	"github.com/mindmate/triage-client/internal/i18n"
	"github.com/mindmate/triage-client/internal/metrics"
	"github.com/mindmate/triage-client/internal/models"
	"github.com/mindmate/triage-client/internal/repo"
	"github.com/mindmate/triage-client/internal/speech"
	"github.com/mindmate/triage-client/internal/utils"
	"github.com/mindmate/triage-client/internal/workflow"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	catalog    *i18n.Catalog
	language   models.Language
	cache      cache.Provider
	analyzer   *repo.AnalyzerClient
	recognizer speech.Recognizer
	speaker    speech.Speaker
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, utils.NewAppError("bootstrap", "could not load configuration", err)
	}
	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		cfg.UI.Language = lang
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON, cfg.Logging.File)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, utils.NewAppError("bootstrap", "could not register metrics", err)
	}

	catalog := i18n.Default()
	if cfg.UI.LocalesPath != "" {
		catalog, err = i18n.Load(cfg.UI.LocalesPath)
		if err != nil {
			return nil, utils.NewAppError("bootstrap", "could not load locale pack", err)
		}
	}
	language, _ := models.ParseLanguage(cfg.UI.Language)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		catalog:  catalog,
		language: language,
		cache:    newCacheProvider(ctx, cfg.Cache, logger),
	}
	a.analyzer = repo.NewAnalyzerClient(
		cfg.Analyzer.BaseURL,
		cfg.Analyzer.SubmitPath,
		cfg.Analyzer.CasesPath,
		cfg.Analyzer.Timeout,
		a.cache,
		cfg.Cache.CasesTTL,
	)
	a.recognizer = newRecognizer(cfg.Speech.Recognition, logger)
	a.speaker = newSpeaker(cfg.Speech.Synthesis, logger)

	logger.Debug("client ready",
		slog.String("analyzer", cfg.Analyzer.BaseURL),
		slog.String("language", string(language)),
		slog.Bool("voice_input", a.recognizer != nil),
		slog.Bool("voice_output", a.speaker != nil),
	)
	return a, nil
}

func (a *app) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("cache close", slog.Any("error", err))
	}
}

func (a *app) controller() *workflow.Controller {
	opts := []workflow.Option{
		workflow.WithLogger(a.logger),
		workflow.WithLanguage(a.language),
	}
	if a.recognizer != nil {
		opts = append(opts, workflow.WithRecognizer(a.recognizer))
	}
	if a.speaker != nil {
		opts = append(opts, workflow.WithSpeaker(a.speaker))
	}
	return workflow.New(a.analyzer, a.catalog, opts...)
}

func newCacheProvider(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) cache.Provider {
	if !cfg.Enabled {
		return cache.NoopProvider{}
	}
	if cfg.Addr == "" {
		return cache.NewMemoryProvider()
	}
	provider, err := cache.NewRedisProvider(ctx, cache.RedisConfig{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
		TLS:          cfg.TLS,
	})
	if err != nil {
		logger.Warn("redis cache unavailable, using in-process cache", slog.Any("error", err))
		return cache.NewMemoryProvider()
	}
	return provider
}

func newRecognizer(cfg config.RecognitionConfig, logger *slog.Logger) speech.Recognizer {
	if !cfg.Enabled {
		return nil
	}
	rec, err := speech.NewWhisperRecognizer(
		speech.WhisperConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model},
		speech.FileSource{Path: cfg.AudioPath, Record: cfg.RecordCommand},
	)
	if err != nil {
		logger.Warn("speech recognition disabled", slog.Any("error", err))
		return nil
	}
	return rec
}

func newSpeaker(cfg config.SynthesisConfig, logger *slog.Logger) speech.Speaker {
	if !cfg.Enabled {
		return nil
	}
	voices := make(map[models.Language]string, len(cfg.Voices))
	for lang, voice := range cfg.Voices {
		voices[models.Language(lang)] = voice
	}
	synth, err := speech.NewElevenLabsSynthesizer(speech.ElevenLabsConfig{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		Model:        cfg.Model,
		DefaultVoice: cfg.DefaultVoice,
		Voices:       voices,
		Timeout:      cfg.Timeout,
	})
	if err != nil {
		logger.Warn("speech synthesis disabled", slog.Any("error", err))
		return nil
	}
	path := cfg.OutputPath
	if path == "" {
		path = filepath.Join(os.TempDir(), "mindmate-result.mp3")
	}
	return &speech.SynthesizedSpeaker{
		Synthesizer: synth,
		Player:      speech.FilePlayer{Path: path, Command: cfg.PlayCommand},
	}
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}
