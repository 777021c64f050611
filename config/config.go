package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"demandforecast/forecast"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration. It is loaded once in main and passed down
// explicitly.
type Config struct {
	Port        int
	DatabaseURL string
	JWTSecret   string

	HolidayRegions   string
	HolidayCacheSize int

	FitWorkers     int
	FitTimeout     time.Duration
	MaxHorizonDays int

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
	LogFile   string

	// ModelFile is an optional YAML file whose "model" section overrides Model.
	ModelFile string
	Model     forecast.Config
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:             3000,
		HolidayRegions:   "IN,US",
		HolidayCacheSize: 16,
		FitWorkers:       runtime.NumCPU(),
		FitTimeout:       10 * time.Second,
		MaxHorizonDays:   365,
		LogLevel:         "info",
		LogFormat:        "json",
		Model:            forecast.DefaultConfig(),
	}
}

// Load reads .env (if present), the process environment and the optional model file.
func Load() (*Config, bool, error) {
	// A missing .env file is normal in deployed environments.
	envLoaded := godotenv.Load() == nil
	cfg, err := FromEnv(os.Getenv)
	return cfg, envLoaded, err
}

// FromEnv builds a Config from getenv, applies the model file and validates the result.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()
	p := envParser{getenv: getenv}

	cfg.Port = p.getInt("PORT", cfg.Port)
	cfg.DatabaseURL = p.getString("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = p.getString("JWT_SECRET", cfg.JWTSecret)
	cfg.HolidayRegions = p.getString("HOLIDAY_REGIONS", cfg.HolidayRegions)
	cfg.HolidayCacheSize = p.getInt("HOLIDAY_CACHE_SIZE", cfg.HolidayCacheSize)
	cfg.FitWorkers = p.getInt("FIT_WORKERS", cfg.FitWorkers)
	cfg.FitTimeout = p.getDuration("FIT_TIMEOUT", cfg.FitTimeout)
	cfg.MaxHorizonDays = p.getInt("MAX_HORIZON_DAYS", cfg.MaxHorizonDays)
	cfg.RateLimitRPS = p.getFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = p.getInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.LogLevel = p.getString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = p.getString("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = p.getString("LOG_FILE", cfg.LogFile)
	cfg.ModelFile = p.getString("FORECAST_CONFIG", cfg.ModelFile)
	if p.err != nil {
		return nil, p.err
	}

	if cfg.ModelFile != "" {
		if err := cfg.applyModelFile(cfg.ModelFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

type modelFile struct {
	Model forecast.Config `yaml:"model"`
}

func (c *Config) applyModelFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model config '%s': %w", path, err)
	}
	mf := modelFile{Model: c.Model}
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("failed to parse model config from YAML: %w", err)
	}
	c.Model = mf.Model
	return nil
}

// Validate performs basic configuration validation.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d", c.Port)
	}
	if strings.TrimSpace(c.HolidayRegions) == "" {
		return errors.New("at least one holiday region must be configured")
	}
	if c.HolidayCacheSize < 0 {
		return errors.New("holiday cache size cannot be negative")
	}
	if c.FitWorkers <= 0 {
		return errors.New("fit workers must be greater than 0")
	}
	if c.FitTimeout <= 0 {
		return errors.New("fit timeout must be greater than 0")
	}
	if c.MaxHorizonDays <= 0 {
		return errors.New("max horizon days must be greater than 0")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limit settings cannot be negative")
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return nil
}

// envParser records the first malformed variable and keeps defaults for the rest.
type envParser struct {
	getenv func(string) string
	err    error
}

func (p *envParser) getString(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *envParser) getInt(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *envParser) getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *envParser) getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *envParser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, value, err)
	}
}
