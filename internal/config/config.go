package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eigerco/numericoverflow/internal/harness"
	"github.com/eigerco/numericoverflow/internal/report"
	"github.com/eigerco/numericoverflow/pkg/log"
)

var ErrInvalidConfig = errors.New("invalid config")

// DefaultSteps matches the five increments of MAX/5 the overflow exercise is
// built around.
const DefaultSteps = 5

type Log struct {
	Level string `yaml:"level"`
	Type  string `yaml:"type"`
}

// Config is the on-disk form of a harness run. Empty Domains selects all of
// them.
type Config struct {
	Steps   uint64   `yaml:"steps"`
	Domains []string `yaml:"domains"`
	Format  string   `yaml:"format"`
	Log     Log      `yaml:"log"`
}

func Default() Config {
	return Config{
		Steps:  DefaultSteps,
		Format: string(report.FormatText),
		Log: Log{
			Level: "info",
			Type:  "console",
		},
	}
}

// Load reads a YAML file on top of Default, so a file only needs the keys it
// overrides.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Steps == 0 {
		return fmt.Errorf("%w: steps must be at least 1", ErrInvalidConfig)
	}
	if _, err := harness.Select(c.Domains); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := log.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	if _, err := log.ParseLoggerType(c.Log.Type); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogOptions converts the log section for log.Init. Validate must have passed.
func (c Config) LogOptions() log.Options {
	level, _ := log.ParseLogLevel(c.Log.Level)
	typ, _ := log.ParseLoggerType(c.Log.Type)
	return log.Options{LogLevel: level, Type: typ}
}
