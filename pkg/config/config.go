package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/varspace/varspace-go/pkg/errors"
)

// Defaults holds the library-wide defaults applied when a parameter is
// constructed without explicit hyper-parameters.
type Defaults struct {
	// Sigma is the default mutation standard deviation for data parameters.
	Sigma float64 `yaml:"sigma" validate:"gt=0"`

	// Recombination is the default recombination policy tag.
	Recombination string `yaml:"recombination" validate:"required"`

	// Distribution is the default distribution tag for data parameters.
	Distribution string `yaml:"distribution" validate:"required,oneof=linear log"`

	// SoftmaxTemperature scales categorical sampling weights.
	SoftmaxTemperature float64 `yaml:"softmax_temperature" validate:"gt=0"`

	// Seed seeds the random source of trees built from these defaults.
	// Zero means seed from the clock.
	Seed int64 `yaml:"seed" validate:"min=0"`

	// BatchWorkers bounds the worker pool used for batch data conversion.
	BatchWorkers int `yaml:"batch_workers" validate:"min=1"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty" validate:"omitempty"`
}

// LoggingConfig holds configuration for the structured logger.
type LoggingConfig struct {
	// Log level (DEBUG, INFO, WARN, ERROR, FATAL)
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`

	// Whether to log to stderr instead of stdout
	UseStderr bool `yaml:"use_stderr"`
}

// Load reads and validates defaults from a YAML file.
func Load(path string) (*Defaults, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "reading defaults file")
	}
	return Parse(raw)
}

// Parse decodes and validates defaults from YAML bytes. Fields omitted in
// the input keep their Default() values.
func Parse(raw []byte) (*Defaults, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "parsing defaults")
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
