package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	InboxDir   string `yaml:"inbox_dir"`
	ArchiveDir string `yaml:"archive_dir"`
	FailedDir  string `yaml:"failed_dir"`

	OCRBinary    string `yaml:"ocr_binary"`
	OCRLanguages string `yaml:"ocr_languages"`
	RepairBinary string `yaml:"repair_binary"`

	OllamaURL         string `yaml:"ollama_url"`
	LLMModel          string `yaml:"llm_model"`
	LLMTimeoutSeconds int    `yaml:"llm_timeout_seconds"`
	MaxPromptChars    int    `yaml:"max_prompt_chars"`

	MinTextChars int      `yaml:"min_text_chars"`
	Categories   []string `yaml:"categories"`

	InterFilePauseMillis int    `yaml:"inter_file_pause_ms"`
	MetricsPort          string `yaml:"metrics_port"`
}

func defaults() Config {
	return Config{
		LogLevel: "info",
		LogFile:  "./pdf_processing.log",

		InboxDir:   "./Inbox",
		ArchiveDir: "./Processed",
		FailedDir:  "./Failed",

		OCRBinary:    "ocrmypdf",
		OCRLanguages: "deu+eng",
		RepairBinary: "gs",

		OllamaURL:         "http://localhost:11434",
		LLMModel:          "mistral-small3.1:latest",
		LLMTimeoutSeconds: 60,
		MaxPromptChars:    4000,

		MinTextChars: 50,
		Categories: []string{
			"Ausbildung", "Bank", "Steuer", "Rechnung", "Versicherung",
			"Gesundheit", "Vertrag", "Gehalt", "Behörde", "Sonstiges",
		},

		InterFilePauseMillis: 500,
		MetricsPort:          "",
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order. The surface is fixed at startup and
// never re-read.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.LogLevel = mustEnv("ARCHIVIST_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = mustEnv("ARCHIVIST_LOG_FILE", cfg.LogFile)
	cfg.InboxDir = mustEnv("ARCHIVIST_INBOX_DIR", cfg.InboxDir)
	cfg.ArchiveDir = mustEnv("ARCHIVIST_ARCHIVE_DIR", cfg.ArchiveDir)
	cfg.FailedDir = mustEnv("ARCHIVIST_FAILED_DIR", cfg.FailedDir)
	cfg.OCRBinary = mustEnv("ARCHIVIST_OCR_BINARY", cfg.OCRBinary)
	cfg.OCRLanguages = mustEnv("ARCHIVIST_OCR_LANGUAGES", cfg.OCRLanguages)
	cfg.RepairBinary = mustEnv("ARCHIVIST_REPAIR_BINARY", cfg.RepairBinary)
	cfg.OllamaURL = mustEnv("ARCHIVIST_OLLAMA_URL", cfg.OllamaURL)
	cfg.LLMModel = mustEnv("ARCHIVIST_LLM_MODEL", cfg.LLMModel)
	cfg.LLMTimeoutSeconds = mustEnvInt("ARCHIVIST_LLM_TIMEOUT_SECONDS", cfg.LLMTimeoutSeconds)
	cfg.MaxPromptChars = mustEnvInt("ARCHIVIST_MAX_PROMPT_CHARS", cfg.MaxPromptChars)
	cfg.MinTextChars = mustEnvInt("ARCHIVIST_MIN_TEXT_CHARS", cfg.MinTextChars)
	cfg.Categories = mustEnvList("ARCHIVIST_CATEGORIES", cfg.Categories)
	cfg.InterFilePauseMillis = mustEnvInt("ARCHIVIST_INTER_FILE_PAUSE_MS", cfg.InterFilePauseMillis)
	cfg.MetricsPort = mustEnv("ARCHIVIST_METRICS_PORT", cfg.MetricsPort)

	return cfg, nil
}

func (c Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

func (c Config) InterFilePause() time.Duration {
	return time.Duration(c.InterFilePauseMillis) * time.Millisecond
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
