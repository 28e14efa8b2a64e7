package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config captures everything the mindmate client needs at start-up.
type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Logging  LoggingConfig  `yaml:"logging"`
	UI       UIConfig       `yaml:"ui"`
	Speech   SpeechConfig   `yaml:"speech"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// AnalyzerConfig configures access to the triage analyzer service.
type AnalyzerConfig struct {
	BaseURL    string        `yaml:"baseURL"`
	SubmitPath string        `yaml:"submitPath"`
	CasesPath  string        `yaml:"casesPath"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file"`
}

// UIConfig selects the initial language and an optional locale override pack.
type UIConfig struct {
	Language    string `yaml:"language"`
	LocalesPath string `yaml:"localesPath"`
}

// SpeechConfig groups the optional speech capabilities.
type SpeechConfig struct {
	Recognition RecognitionConfig `yaml:"recognition"`
	Synthesis   SynthesisConfig   `yaml:"synthesis"`
}

// RecognitionConfig configures Whisper speech-to-text. RecordCommand, when set,
// records into AudioPath before each transcription.
type RecognitionConfig struct {
	Enabled       bool     `yaml:"enabled"`
	APIKey        string   `yaml:"apiKey"`
	BaseURL       string   `yaml:"baseURL"`
	Model         string   `yaml:"model"`
	AudioPath     string   `yaml:"audioPath"`
	RecordCommand []string `yaml:"recordCommand"`
}

// SynthesisConfig configures ElevenLabs text-to-speech.
type SynthesisConfig struct {
	Enabled      bool              `yaml:"enabled"`
	APIKey       string            `yaml:"apiKey"`
	BaseURL      string            `yaml:"baseURL"`
	Model        string            `yaml:"model"`
	DefaultVoice string            `yaml:"defaultVoice"`
	Voices       map[string]string `yaml:"voices"`
	OutputPath   string            `yaml:"outputPath"`
	PlayCommand  []string          `yaml:"playCommand"`
	Timeout      time.Duration     `yaml:"timeout"`
}

// CacheConfig controls Redis/Valkey caching of the case list.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	MaxRetries   int           `yaml:"maxRetries"`
	TLS          bool          `yaml:"tls"`
	CasesTTL     time.Duration `yaml:"casesTTL"`
}

// MetricsConfig controls the Prometheus endpoint served by the console.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Load initialises Config from a YAML file, an optional .env file and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("MINDMATE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Analyzer: AnalyzerConfig{
			BaseURL:    "http://127.0.0.1:5000",
			SubmitPath: "/analyze",
			CasesPath:  "/logs",
			Timeout:    30 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
		UI:      UIConfig{Language: "English"},
		Speech: SpeechConfig{
			Recognition: RecognitionConfig{Model: "whisper-1"},
			Synthesis: SynthesisConfig{
				Model:   "eleven_multilingual_v2",
				Timeout: 30 * time.Second,
			},
		},
		Cache: CacheConfig{
			CasesTTL:     30 * time.Second,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			MaxRetries:   2,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MINDMATE_ANALYZER_URL"); v != "" {
		cfg.Analyzer.BaseURL = v
	}
	if v := os.Getenv("MINDMATE_ANALYZER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Analyzer.Timeout = d
		}
	}
	if v := os.Getenv("MINDMATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MINDMATE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("MINDMATE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("MINDMATE_LANGUAGE"); v != "" {
		cfg.UI.Language = v
	}
	if v := os.Getenv("MINDMATE_LOCALES_PATH"); v != "" {
		cfg.UI.LocalesPath = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Speech.Recognition.APIKey = v
	}
	if v := os.Getenv("MINDMATE_STT_ENABLED"); v != "" {
		cfg.Speech.Recognition.Enabled = parseBool(v)
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.Speech.Synthesis.APIKey = v
	}
	if v := os.Getenv("MINDMATE_TTS_ENABLED"); v != "" {
		cfg.Speech.Synthesis.Enabled = parseBool(v)
	}
	if v := os.Getenv("MINDMATE_TTS_VOICE"); v != "" {
		cfg.Speech.Synthesis.DefaultVoice = v
	}
	if v := os.Getenv("MINDMATE_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("MINDMATE_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("MINDMATE_CACHE_USERNAME"); v != "" {
		cfg.Cache.Username = v
	}
	if v := os.Getenv("MINDMATE_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("MINDMATE_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("MINDMATE_CACHE_TLS"); parseBool(v) {
		cfg.Cache.TLS = true
	}
	if v := os.Getenv("MINDMATE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.CasesTTL = d
		}
	}
	if v := os.Getenv("MINDMATE_METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}
}

func parseBool(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}
