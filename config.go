package sweep

import (
	"fmt"
	"os"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

// ResolutionConfig is the serializable form of a Resolution policy.
type ResolutionConfig struct {
	Mode  string  `yaml:"mode" validate:"oneof=count angle length"`
	Value float64 `yaml:"value" validate:"gt=0"`
}

// Config carries the tunable turtle defaults a host loads at startup.
type Config struct {
	Resolution         ResolutionConfig `yaml:"resolution"`
	Joint              string           `yaml:"joint" validate:"oneof=miter round"`
	IntersectThreshold float64          `yaml:"intersect_threshold" validate:"gte=0,lte=1"`
	Color              [3]byte          `yaml:"color,flow"`
}

// DefaultConfig mirrors NewTurtle's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Resolution:         ResolutionConfig{Mode: "count", Value: 16},
		Joint:              "miter",
		IntersectThreshold: 1,
		Color:              [3]byte{200, 200, 200},
	}
}

// LoadConfig reads and validates a yaml config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as yaml.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NewTurtle builds a turtle initialized from the config.
func (c *Config) NewTurtle() *Turtle {
	t := NewTurtle()
	switch c.Resolution.Mode {
	case "angle":
		t.Resolution = Resolution{Mode: ResolutionAngle, Value: c.Resolution.Value}
	case "length":
		t.Resolution = Resolution{Mode: ResolutionLength, Value: c.Resolution.Value}
	default:
		t.Resolution = Resolution{Mode: ResolutionCount, Value: c.Resolution.Value}
	}
	if c.Joint == "round" {
		t.Joint = JointRound
	}
	t.IntersectThreshold = c.IntersectThreshold
	t.Material = &BaseMaterial{Color: c.Color}
	return t
}
