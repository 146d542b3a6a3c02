package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all engine configuration. Values come from a YAML file
// (config.yaml) or environment variables; environment variables override
// YAML. Backend credentials live in source configs supplied by the
// contract store, never here.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// ContractPath is an optional YAML contract to load at startup.
	ContractPath string `yaml:"contract_path" env:"CONTRACT_PATH" env-default:""`

	Engine EngineConfig `yaml:"engine"`

	Lineage LineageConfig `yaml:"lineage"`
}

// EngineConfig bounds query execution.
type EngineConfig struct {
	// MaxFanOut caps how many plans execute concurrently in one run.
	MaxFanOut int `yaml:"max_fan_out" env:"ENGINE_MAX_FAN_OUT" env-default:"4"`

	// PlanTimeoutSeconds bounds each connector call. A timed-out plan is a
	// partial failure, not a request failure.
	PlanTimeoutSeconds int `yaml:"plan_timeout_seconds" env:"ENGINE_PLAN_TIMEOUT_SECONDS" env-default:"30"`

	// SampleSize is how many rows discovery pulls per endpoint.
	SampleSize int `yaml:"sample_size" env:"ENGINE_SAMPLE_SIZE" env-default:"25"`
}

// PlanTimeout returns the per-plan timeout as a duration.
func (c *EngineConfig) PlanTimeout() time.Duration {
	return time.Duration(c.PlanTimeoutSeconds) * time.Second
}

// LineageConfig tunes the background lineage emitter.
type LineageConfig struct {
	QueueSize          int `yaml:"queue_size" env:"LINEAGE_QUEUE_SIZE" env-default:"64"`
	EmitTimeoutSeconds int `yaml:"emit_timeout_seconds" env:"LINEAGE_EMIT_TIMEOUT_SECONDS" env-default:"10"`
}

// EmitTimeout returns the emit timeout as a duration.
func (c *LineageConfig) EmitTimeout() time.Duration {
	return time.Duration(c.EmitTimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml (if present) and the
// environment.
func Load(version string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read environment config: %w", err)
		}
	}

	cfg.Version = version
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.MaxFanOut <= 0 {
		return fmt.Errorf("engine.max_fan_out must be positive, got %d", c.Engine.MaxFanOut)
	}
	if c.Engine.PlanTimeoutSeconds <= 0 {
		return fmt.Errorf("engine.plan_timeout_seconds must be positive, got %d", c.Engine.PlanTimeoutSeconds)
	}
	if c.Engine.SampleSize <= 0 {
		return fmt.Errorf("engine.sample_size must be positive, got %d", c.Engine.SampleSize)
	}
	return nil
}
