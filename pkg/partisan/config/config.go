// Package config loads the YAML settings shared by the polarization CLIs.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/partisan/pkg/partisan/measure"
	"github.com/cognicore/partisan/pkg/partisan/pipeline"
	"github.com/cognicore/partisan/pkg/partisan/topics"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Sources names the outlets on each side of the comparison.
type Sources struct {
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
}

// Config is the on-disk run configuration.
type Config struct {
	Measure      string  `yaml:"measure"`
	Leaveout     bool    `yaml:"leaveout"`
	DefaultScore float64 `yaml:"default_score"`
	MinDocs      int     `yaml:"min_docs"`
	MaxDocs      int     `yaml:"max_docs"`
	Seed         int64   `yaml:"seed"`

	Method  string   `yaml:"method"`
	Sources Sources  `yaml:"sources"`
	Topics  []int    `yaml:"topics"` // empty ranks every assigned topic
	Months  []string `yaml:"months"`

	CalibrationSeeds []int64 `yaml:"calibration_seeds"`
}

// Default returns the configuration used when a key is absent.
func Default() Config {
	opts := pipeline.DefaultOptions()
	return Config{
		Measure:      opts.Measure.String(),
		Leaveout:     opts.Leaveout,
		DefaultScore: opts.DefaultScore,
		MinDocs:      opts.MinDocs,
		MaxDocs:      opts.MaxDocs,
		Seed:         opts.Seed,
		Method:       topics.LeaveOut.String(),
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if _, err := measure.Parse(c.Measure); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := topics.ParseMethod(c.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.MinDocs < 0 {
		return fmt.Errorf("%w: min_docs must not be negative, got %d", ErrInvalid, c.MinDocs)
	}
	if c.MaxDocs > 0 && c.MaxDocs < c.MinDocs {
		return fmt.Errorf("%w: max_docs %d below min_docs %d", ErrInvalid, c.MaxDocs, c.MinDocs)
	}
	if len(c.Sources.Left) > 0 || len(c.Sources.Right) > 0 {
		if len(c.Sources.Left) == 0 || len(c.Sources.Right) == 0 {
			return fmt.Errorf("%w: sources need both left and right", ErrInvalid)
		}
		right := make(map[string]struct{}, len(c.Sources.Right))
		for _, s := range c.Sources.Right {
			right[s] = struct{}{}
		}
		for _, s := range c.Sources.Left {
			if _, ok := right[s]; ok {
				return fmt.Errorf("%w: source %q on both sides", ErrInvalid, s)
			}
		}
	}
	return nil
}

// Options converts the estimator settings. The config must be valid.
func (c *Config) Options() pipeline.Options {
	m, err := measure.Parse(c.Measure)
	if err != nil {
		panic(err)
	}
	return pipeline.Options{
		Measure:      m,
		Leaveout:     c.Leaveout,
		DefaultScore: c.DefaultScore,
		MinDocs:      c.MinDocs,
		MaxDocs:      c.MaxDocs,
		Seed:         c.Seed,
	}
}

// RankMethod returns the parsed topic method. The config must be valid.
func (c *Config) RankMethod() topics.Method {
	m, err := topics.ParseMethod(c.Method)
	if err != nil {
		panic(err)
	}
	return m
}
