package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"decision-analyzer/internal/ai"
)

// RateLimit configures the per-client token bucket.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Config is the service configuration.
type Config struct {
	Port           string    `yaml:"port"`
	DBPath         string    `yaml:"db_path"`
	SilentDB       bool      `yaml:"silent_db"`
	AllowedOrigins []string  `yaml:"allowed_origins"`
	DefaultLocale  string    `yaml:"default_locale"`
	CatalogPath    string    `yaml:"catalog_path"`
	RateLimit      RateLimit `yaml:"rate_limit"`
	AI             ai.Config `yaml:"ai"`
	DisableAI      bool      `yaml:"disable_ai"`
	LogLevel       string    `yaml:"log_level"`
	LogFormat      string    `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:   "2000",
		DBPath: "data/decisions.db",
		AllowedOrigins: []string{
			"http://localhost:1000",
			"http://127.0.0.1:1000",
		},
		DefaultLocale: "en",
		RateLimit:     RateLimit{RPS: 20, Burst: 40},
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and finally the environment. A missing file is not an error when
// path is empty.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("load .env file")
	}

	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db path required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// ConfigureLogging applies the log level and format to the global logger.
func (c Config) ConfigureLogging() {
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("DECISION_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}
	if v := strings.TrimSpace(os.Getenv("DEFAULT_LOCALE")); v != "" {
		cfg.DefaultLocale = v
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_PATH")); v != "" {
		cfg.CatalogPath = v
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.RPS = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AI.Temperature = f
		}
	}
	if v := os.Getenv("OPENAI_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AI.MaxTokens = n
		}
	}
	if v := os.Getenv("OPENAI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AI.Timeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("DISABLE_AI")); v != "" {
		cfg.DisableAI = strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("SILENT_DB")); v != "" {
		cfg.SilentDB = strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
}
