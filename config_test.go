package sweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = ResolutionConfig{Mode: "angle", Value: 7.5}
	cfg.Joint = "round"
	cfg.IntersectThreshold = 0.6
	cfg.Color = [3]byte{10, 20, 30}

	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("joint: round\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "round", cfg.Joint)
	assert.Equal(t, "count", cfg.Resolution.Mode)
	assert.InDelta(t, 1, cfg.IntersectThreshold, 0)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad resolution mode", func(c *Config) { c.Resolution.Mode = "steps" }},
		{"zero resolution value", func(c *Config) { c.Resolution.Value = 0 }},
		{"bad joint", func(c *Config) { c.Joint = "bevel" }},
		{"threshold above one", func(c *Config) { c.IntersectThreshold = 1.5 }},
		{"negative threshold", func(c *Config) { c.IntersectThreshold = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigNewTurtle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = ResolutionConfig{Mode: "length", Value: 0.25}
	cfg.Joint = "round"
	cfg.IntersectThreshold = 0.4
	cfg.Color = [3]byte{1, 2, 3}

	turtle := cfg.NewTurtle()
	assert.Equal(t, Resolution{Mode: ResolutionLength, Value: 0.25}, turtle.Resolution)
	assert.Equal(t, JointRound, turtle.Joint)
	assert.InDelta(t, 0.4, turtle.IntersectThreshold, 0)
	assert.Equal(t, [3]byte{1, 2, 3}, turtle.Material.GetColor())
}
