package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/labstack/gommon/bytes"
)

// VisionConfig configures the generative vision model used by the coral endpoint.
type VisionConfig struct {
	APIKey      string        `env:"GEMINI_API_KEY"`
	Model       string        `env:"VISION_MODEL"       envDefault:"gemini-2.5-flash"`
	Temperature float32       `env:"VISION_TEMPERATURE" envDefault:"0.7"`
	Timeout     time.Duration `env:"VISION_TIMEOUT"     envDefault:"60s"`
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL        string        `env:"DATABASE_URL"`
	MongoDatabase      string        `env:"MONGO_DATABASE"       envDefault:"matsyaark"`
	Port               string        `env:"PORT"                 envDefault:"3000"`
	UploadDir          string        `env:"UPLOAD_DIR"`
	MaxUploadSize      string        `env:"MAX_UPLOAD_SIZE"      envDefault:"10M"`
	MaxContactBodySize string        `env:"MAX_CONTACT_BODY_SIZE" envDefault:"100K"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	PhoneRegion        string        `env:"PHONE_REGION"         envDefault:"IN"`
	InferenceBaseURL   string        `env:"FISH_INFERENCE_URL"`
	InferenceTimeout   time.Duration `env:"INFERENCE_TIMEOUT"    envDefault:"5s"`
	InferenceIDToken   bool          `env:"INFERENCE_ID_TOKEN"   envDefault:"false"`
	LogLevel           string        `env:"LOG_LEVEL"            envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT"           envDefault:"json"`
	Vision             VisionConfig
}

// ErrMissingDatabaseURL is returned when no storage connection string is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(os.TempDir(), "matsyaark-uploads")
	}
	cfg.CORSAllowedOrigins = trimOrigins(cfg.CORSAllowedOrigins)
	cfg.PhoneRegion = strings.ToUpper(strings.TrimSpace(cfg.PhoneRegion))

	if !validSize(cfg.MaxUploadSize) {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE value: %q", cfg.MaxUploadSize)
	}
	if !validSize(cfg.MaxContactBodySize) {
		return nil, fmt.Errorf("invalid MAX_CONTACT_BODY_SIZE value: %q", cfg.MaxContactBodySize)
	}
	if cfg.InferenceBaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.InferenceBaseURL); err != nil {
			return nil, fmt.Errorf("invalid FISH_INFERENCE_URL value: %w", err)
		}
	}
	if cfg.Vision.Temperature < 0 || cfg.Vision.Temperature > 2 {
		return nil, fmt.Errorf("invalid VISION_TEMPERATURE value: %v", cfg.Vision.Temperature)
	}
	if cfg.Vision.Timeout <= 0 {
		return nil, fmt.Errorf("invalid VISION_TIMEOUT value: %s", cfg.Vision.Timeout)
	}

	return cfg, nil
}

func trimOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// validSize reports whether s is a positive size such as "100K" or "10M".
func validSize(s string) bool {
	n, err := bytes.Parse(s)
	return err == nil && n > 0
}
