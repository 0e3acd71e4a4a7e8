// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = "8080"
	defaultRatesEndpoint    = "http://localhost:8080/api/exchange/rates"
	defaultKoreaEximBaseURL = "https://www.koreaexim.go.kr"
	defaultKoreaEximTimeout = 5 * time.Second
	defaultCORSOrigin       = "http://localhost:3000"
	defaultRateLimit        = "60-M"
	defaultShutdownTimeout  = 10 * time.Second
	defaultServiceName      = "quickrate"
)

// Telemetry exporters accepted by OTEL_EXPORTER.
const (
	ExporterNone     = "none"
	ExporterStdout   = "stdout"
	ExporterOTLPHTTP = "otlp-http"
	ExporterOTLPGRPC = "otlp-grpc"
)

var supportedExporters = []string{ExporterNone, ExporterStdout, ExporterOTLPHTTP, ExporterOTLPGRPC}

// Config holds all configuration for the application.
type Config struct {
	Port               string
	RatesEndpoint      string
	KoreaEximBaseURL   string
	KoreaEximAPIKey    string
	KoreaEximTimeout   time.Duration
	CORSAllowedOrigins []string
	RateLimit          string
	ShutdownTimeout    time.Duration
	TelegramBotToken   string
	LogLevel           string
	LogFormat          string
	LogHashSalt        string
	OtelExporter       string
	OtelServiceName    string

	// malformed lists set variables that could not be parsed.
	malformed []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             envOr("PORT", defaultPort),
		RatesEndpoint:    envOr("RATES_ENDPOINT", defaultRatesEndpoint),
		KoreaEximBaseURL: strings.TrimRight(envOr("KOREAEXIM_BASE_URL", defaultKoreaEximBaseURL), "/"),
		KoreaEximAPIKey:  os.Getenv("KOREAEXIM_API_KEY"),
		RateLimit:        envOr("RATE_LIMIT", defaultRateLimit),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		LogFormat:        envOr("LOG_FORMAT", "console"),
		LogHashSalt:      os.Getenv("LOG_HASH_SALT"),
		OtelExporter:     strings.ToLower(envOr("OTEL_EXPORTER", ExporterNone)),
		OtelServiceName:  envOr("OTEL_SERVICE_NAME", defaultServiceName),
	}

	cfg.KoreaEximTimeout = cfg.durationOr("KOREAEXIM_TIMEOUT", defaultKoreaEximTimeout)
	cfg.ShutdownTimeout = cfg.durationOr("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	cfg.CORSAllowedOrigins = splitList(envOr("CORS_ALLOWED_ORIGINS", defaultCORSOrigin))

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// BotEnabled reports whether the Telegram surface should start.
func (c *Config) BotEnabled() bool {
	return c.TelegramBotToken != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	for _, key := range c.malformed {
		errs = append(errs, key+" must be a positive duration such as 5s or 1m")
	}

	if c.KoreaEximAPIKey == "" {
		errs = append(errs, "KOREAEXIM_API_KEY is required")
	}

	if !isAbsoluteURL(c.RatesEndpoint) {
		errs = append(errs, "RATES_ENDPOINT must be an absolute http(s) URL")
	}

	if !isAbsoluteURL(c.KoreaEximBaseURL) {
		errs = append(errs, "KOREAEXIM_BASE_URL must be an absolute http(s) URL")
	}

	if !slices.Contains(supportedExporters, c.OtelExporter) {
		errs = append(errs, fmt.Sprintf("OTEL_EXPORTER must be one of %s", strings.Join(supportedExporters, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// durationOr parses key as a duration. Unset keys yield fallback; malformed
// or non-positive values are recorded for validate.
func (c *Config) durationOr(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		c.malformed = append(c.malformed, key)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
