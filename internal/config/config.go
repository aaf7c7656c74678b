// Package config gathers the engine's tunables. Each domain package owns
// its defaults; an optional YAML file overrides them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kadence-learn/kadence/internal/elo"
	"github.com/kadence-learn/kadence/internal/retention"
	"github.com/kadence-learn/kadence/internal/thompson"
)

// Config is the full engine configuration.
type Config struct {
	Elo        elo.Config       `yaml:"elo"`
	Retention  retention.Config `yaml:"retention"`
	Thompson   thompson.Config  `yaml:"thompson"`
	PriorMu    float64          `yaml:"prior_mu"`
	PriorSigma float64          `yaml:"prior_sigma"`
}

// Default returns the engine defaults.
func Default() Config {
	return Config{
		Elo:        elo.DefaultConfig(),
		Retention:  retention.DefaultConfig(),
		Thompson:   thompson.DefaultConfig(),
		PriorMu:    0.0,
		PriorSigma: 1.0,
	}
}

// Load returns the defaults overridden by the YAML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Elo.Validate(); err != nil {
		return fmt.Errorf("elo: %w", err)
	}
	if err := c.Retention.Validate(); err != nil {
		return fmt.Errorf("retention: %w", err)
	}
	if c.PriorSigma <= 0 {
		return fmt.Errorf("prior_sigma must be > 0, got %v", c.PriorSigma)
	}
	return nil
}
