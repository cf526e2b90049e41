package source

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config is the top-level source configuration (sources.yaml).
type Config struct {
	Defaults DefaultConfig           `yaml:"defaults"`
	Sources  map[string]SourceConfig `yaml:"sources"`
}

// DefaultConfig holds global source defaults.
type DefaultConfig struct {
	Weight           float64 `yaml:"weight"`
	RatePerSecond    float64 `yaml:"rate_per_second"`
	Burst            int     `yaml:"burst"`
	BreakerFailures  int     `yaml:"breaker_failures"`
	BreakerResetSecs int     `yaml:"breaker_reset_secs"`
}

// SourceConfig overrides settings for one source.
type SourceConfig struct {
	Enabled *bool   `yaml:"enabled,omitempty"`
	Weight  float64 `yaml:"weight,omitempty"`
}

// DefaultSourceConfig returns the built-in source configuration used when no
// sources.yaml exists.
func DefaultSourceConfig() *Config {
	enabled := true
	return &Config{
		Defaults: DefaultConfig{
			Weight:           0.5,
			RatePerSecond:    2,
			Burst:            1,
			BreakerFailures:  5,
			BreakerResetSecs: 30,
		},
		Sources: map[string]SourceConfig{
			"wikipedia": {Enabled: &enabled, Weight: 0.9},
			"websearch": {Enabled: &enabled, Weight: 0.6},
		},
	}
}

// LoadConfig reads source config from a YAML file. A missing file yields the
// built-in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSourceConfig(), nil
		}
		return nil, eris.Wrapf(err, "source: read config %s", path)
	}

	// The YAML has a top-level "sources" key.
	var wrapper struct {
		Sources Config `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "source: parse config")
	}

	cfg := &wrapper.Sources
	defaults := DefaultSourceConfig().Defaults
	if cfg.Defaults.Weight == 0 {
		cfg.Defaults.Weight = defaults.Weight
	}
	if cfg.Defaults.RatePerSecond == 0 {
		cfg.Defaults.RatePerSecond = defaults.RatePerSecond
	}
	if cfg.Defaults.Burst == 0 {
		cfg.Defaults.Burst = defaults.Burst
	}
	if cfg.Defaults.BreakerFailures == 0 {
		cfg.Defaults.BreakerFailures = defaults.BreakerFailures
	}
	if cfg.Defaults.BreakerResetSecs == 0 {
		cfg.Defaults.BreakerResetSecs = defaults.BreakerResetSecs
	}
	return cfg, nil
}

// WeightFor returns the reliability weight for a source, falling back to the
// default weight.
func (c *Config) WeightFor(name string) float64 {
	if sc, ok := c.Sources[name]; ok && sc.Weight > 0 {
		return sc.Weight
	}
	return c.Defaults.Weight
}

// EnabledFor reports whether a source is enabled. Unknown sources default on.
func (c *Config) EnabledFor(name string) bool {
	if sc, ok := c.Sources[name]; ok && sc.Enabled != nil {
		return *sc.Enabled
	}
	return true
}
