package meta

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"scopemeasure/internal/log"
	"scopemeasure/internal/pipeline"
)

// ApplicationConfig is a top-level block for application-level meta configuration.
type ApplicationConfig struct {
	SentryDSN string `yaml:"sentry_dsn"`
}

// LoggingConfig is a top-level block for logging configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Scope measurements are only visible at debug.
	Level string `yaml:"level"`
	// Format is one of console (default) or json.
	Format string `yaml:"format"`
}

// MetricsConfig is a top-level block for metrics configuration.
type MetricsConfig struct {
	Statsd *struct {
		Address    string  `yaml:"addr"`
		SampleRate float32 `yaml:"sample_rate"`
	} `yaml:"statsd"`
}

// StepConfig describes a single pipeline step.
type StepConfig struct {
	Name string `yaml:"name"`
	Run  string `yaml:"run"`
}

// PipelineConfig is a top-level block for the measured pipeline.
type PipelineConfig struct {
	Name          string        `yaml:"name"`
	FailurePolicy string        `yaml:"failure_policy"`
	Timeout       time.Duration `yaml:"timeout"`
	Steps         []StepConfig  `yaml:"steps"`
}

// Config describes all application configuration options.
type Config struct {
	Application *ApplicationConfig `yaml:"application"`
	Logging     *LoggingConfig     `yaml:"logging"`
	Metrics     *MetricsConfig     `yaml:"metrics"`
	Pipeline    *PipelineConfig    `yaml:"pipeline"`
}

// Logging formats understood by the application.
const (
	ConsoleFormat = "console"
	JSONFormat    = "json"
)

// DefaultConfig returns the configuration used when no configuration file is supplied.
func DefaultConfig() *Config {
	return &Config{
		Application: &ApplicationConfig{},
		Logging:     &LoggingConfig{Level: "error", Format: ConsoleFormat},
		Pipeline:    &PipelineConfig{Name: "pipeline"},
	}
}

// ParseConfig parses a Config struct instance from a file specified as a path on disk.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: error reading config: err=%v", err)
	}

	return Parse(data)
}

// Parse parses and validates a Config from serialized YAML. Omitted blocks are filled in from
// DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: error parsing config: err=%v", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Steps parses the configured pipeline steps.
func (c *Config) Steps() ([]pipeline.Step, error) {
	steps := make([]pipeline.Step, 0, len(c.Pipeline.Steps))

	for idx, stepConfig := range c.Pipeline.Steps {
		step, err := pipeline.ParseStep(stepConfig.Name, stepConfig.Run)
		if err != nil {
			return nil, fmt.Errorf("config: invalid step: idx=%d err=%v", idx, err)
		}

		steps = append(steps, step)
	}

	return steps, nil
}

// validate the contents of the configuration. Returns an error if validation failed; nil otherwise.
func (c *Config) validate() error {
	/* Application */

	if c.Application == nil {
		c.Application = &ApplicationConfig{}
	}

	/* Logging */

	if c.Logging == nil {
		c.Logging = DefaultConfig().Logging
	}

	if c.Logging.Level != "" {
		if _, ok := log.ParseLevel(c.Logging.Level); !ok {
			return fmt.Errorf("config: unknown logging level: level=%s", c.Logging.Level)
		}
	}

	switch c.Logging.Format {
	case "":
		c.Logging.Format = ConsoleFormat
	case ConsoleFormat, JSONFormat:
	default:
		return fmt.Errorf("config: unknown logging format: format=%s", c.Logging.Format)
	}

	/* Metrics */

	// Users can omit the metrics block entirely to disable metrics reporting.
	if c.Metrics != nil && c.Metrics.Statsd != nil {
		if c.Metrics.Statsd.Address == "" {
			return fmt.Errorf("config: missing metrics statsd address")
		}

		if c.Metrics.Statsd.SampleRate < 0 || c.Metrics.Statsd.SampleRate > 1 {
			return fmt.Errorf("config: statsd sample rate must be in range [0.0, 1.0]")
		}
	}

	/* Pipeline */

	if c.Pipeline == nil {
		c.Pipeline = DefaultConfig().Pipeline
	}

	// Validate the failure policy, only if provided (empty signifies default).
	if c.Pipeline.FailurePolicy != "" {
		if _, ok := pipeline.ParseFailurePolicy(c.Pipeline.FailurePolicy); !ok {
			return fmt.Errorf(
				"config: unknown failure policy: policy=%s",
				c.Pipeline.FailurePolicy,
			)
		}
	}

	if c.Pipeline.Timeout < 0 {
		return fmt.Errorf("config: pipeline timeout must not be negative")
	}

	for idx, step := range c.Pipeline.Steps {
		if step.Run == "" {
			return fmt.Errorf("config: missing step run command: idx=%d", idx)
		}
	}

	return nil
}
