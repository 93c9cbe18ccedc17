package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth; empty disables the API key check.
	APIKey string

	// Batch processing
	Workers    int
	DocTimeout time.Duration
	QueueSize  int
	JobTTL     time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Text reconstruction
	PatternsFile string
	MaxErrorLen  int

	// PDF
	PDFFallback bool

	// Optional SQLite store for served batches
	SQLitePath string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadEnvFile loads variables from path (or ".env" when empty) without
// overriding the ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Port: envOr("JURISTEXT_PORT", "8090"),

		APIKey: os.Getenv("JURISTEXT_API_KEY"),

		Workers:    envInt("JURISTEXT_WORKERS", 1),
		DocTimeout: envDuration("JURISTEXT_DOC_TIMEOUT", 2*time.Minute),
		QueueSize:  envInt("JURISTEXT_QUEUE_SIZE", 100),
		JobTTL:     envDuration("JURISTEXT_JOB_TTL", 1*time.Hour),

		MaxUploadBytes: envInt64("JURISTEXT_MAX_UPLOAD_BYTES", 52428800), // 50MB

		PatternsFile: os.Getenv("JURISTEXT_PATTERNS"),
		MaxErrorLen:  envInt("JURISTEXT_MAX_ERROR_LEN", 50),

		PDFFallback: envBool("JURISTEXT_PDF_FALLBACK", true),
		SQLitePath:  os.Getenv("JURISTEXT_SQLITE"),

		LogLevel:  envOr("JURISTEXT_LOG_LEVEL", "info"),
		LogFormat: envOr("JURISTEXT_LOG_FORMAT", "json"),
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxErrorLen <= 0 {
		cfg.MaxErrorLen = 50
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("JURISTEXT_PORT must be numeric, got %q", c.Port)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("JURISTEXT_LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.PatternsFile != "" {
		if _, err := os.Stat(c.PatternsFile); err != nil {
			return fmt.Errorf("JURISTEXT_PATTERNS: %w", err)
		}
	}
	return nil
}

// Logger builds the process logger from LogLevel and LogFormat.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
