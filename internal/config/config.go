package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Engine selects which cipher engines back the symmetric algorithms.
type Engine string

const (
	EngineDemo   Engine = "demo"
	EngineNative Engine = "native"
)

// Config is the runtime configuration resolved from defaults, an optional
// .env file and the process environment.
type Config struct {
	HTTPPort      string
	DatabaseURL   string
	LogLevel      string
	SessionSecret string
	SessionTTL    time.Duration
	CipherEngine  Engine
	CataloguePath string
	DelayScale    float64
}

func Default() Config {
	return Config{
		HTTPPort:     "8080",
		LogLevel:     "info",
		SessionTTL:   2 * time.Hour,
		CipherEngine: EngineDemo,
		DelayScale:   1,
	}
}

// Load reads .env when present, applies environment overrides and validates
// the result. Variables already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	cfg := Default()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := env("HTTP_PORT"); v != "" {
		cfg.HTTPPort = v
	}
	cfg.DatabaseURL = env("DATABASE_URL")
	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.SessionSecret = env("SESSION_SECRET")
	if v := env("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	if v := env("CIPHER_ENGINE"); v != "" {
		cfg.CipherEngine = Engine(strings.ToLower(v))
	}
	cfg.CataloguePath = env("CATALOGUE_PATH")
	if v := env("DELAY_SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DELAY_SCALE: %w", err)
		}
		cfg.DelayScale = f
	}
	return nil
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is empty"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if c.CipherEngine != EngineDemo && c.CipherEngine != EngineNative {
		errs = append(errs, fmt.Errorf("CIPHER_ENGINE must be %q or %q, got %q", EngineDemo, EngineNative, c.CipherEngine))
	}
	if c.DelayScale < 0 {
		errs = append(errs, fmt.Errorf("DELAY_SCALE must not be negative, got %v", c.DelayScale))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string { return ":" + c.HTTPPort }
