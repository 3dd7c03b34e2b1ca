// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// SessionRoot is the directory that holds per-session temp dirs.
	// Defaults to the OS temp directory.
	SessionRoot string
	// SessionTTL is how long an idle session dir survives before the
	// janitor removes it.
	SessionTTL time.Duration
	// SweepInterval is how often the janitor scans the session root.
	SweepInterval time.Duration

	// MaxUploadBytes caps the multipart request body.
	MaxUploadBytes int64
	// MaxTextChars caps the source text; longer input is truncated.
	MaxTextChars int

	// RequestTimeout bounds a single generate request end to end.
	RequestTimeout time.Duration

	// RedisAddr, when set, moves PDF conversion jobs onto a Redis list so
	// a separate worker process can consume them. Empty means the in-process
	// memory queue.
	RedisAddr     string
	RedisPassword string
	QueueName     string

	// ConvertAPISecret enables the hosted PDF conversion backend.
	ConvertAPISecret string
	// ConvertAPIURL overrides the conversion endpoint, mainly for tests.
	ConvertAPIURL string
	// SofficePath is the LibreOffice binary for local conversion.
	SofficePath string
	// ConvertTimeout bounds a single PDF conversion.
	ConvertTimeout time.Duration

	// AllowedOrigins is the CORS origin allowlist.
	AllowedOrigins []string

	// WebDir is the directory of static front-end assets.
	WebDir string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := Config{
		Addr:             getEnv("ADDR", ":8000"),
		SessionRoot:      getEnv("SESSION_ROOT", os.TempDir()),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		QueueName:        getEnv("QUEUE_NAME", "pptgen:convert"),
		ConvertAPISecret: os.Getenv("CONVERTAPI_SECRET"),
		ConvertAPIURL:    getEnv("CONVERTAPI_URL", "https://v2.convertapi.com"),
		SofficePath:      getEnv("SOFFICE_PATH", "soffice"),
		WebDir:           getEnv("WEB_DIR", "web"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 120*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ConvertTimeout, err = getDuration("CONVERT_TIMEOUT", 2*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 50<<20); err != nil {
		return Config{}, err
	}
	maxText, err := getInt64("MAX_TEXT_CHARS", 60000)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxTextChars = int(maxText)

	cfg.AllowedOrigins = splitCSV(getEnv("ALLOWED_ORIGINS", "*"))

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
