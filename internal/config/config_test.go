package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 300000, cfg.Budget.TriangleCeiling)
	assert.Equal(t, 100, cfg.Budget.DrawCallCeiling)
	assert.Equal(t, "warning", cfg.Budget.OverBudgetSeverity)
	assert.Equal(t, 4096, cfg.Texture.HardLimit)
	assert.Equal(t, 2048, cfg.Texture.RecommendedLimit)
	assert.Equal(t, 4, cfg.Metrics.ExtractionWorkers)
	assert.Equal(t, "SM_", cfg.Naming.Prefixes["mesh"])
	assert.Equal(t, "collapse", cfg.LOD.Strategy)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "scenelint.yaml")

	yamlContent := `
budget:
  triangle_ceiling: 150000
  draw_call_ceiling: 64
  over_budget_severity: error
texture:
  hard_limit: 2048
  recommended_limit: 1024
metrics:
  extraction_workers: 2
lod:
  strategy: planar
  planar_angle_deg: 10
  ratios:
    - level: 1
      ratio: 0.6
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 150000, cfg.Budget.TriangleCeiling)
	assert.Equal(t, 64, cfg.Budget.DrawCallCeiling)
	assert.Equal(t, "error", cfg.Budget.OverBudgetSeverity)
	assert.Equal(t, 2048, cfg.Texture.HardLimit)
	assert.Equal(t, 2, cfg.Metrics.ExtractionWorkers)
	assert.Equal(t, "planar", cfg.LOD.Strategy)
	assert.Equal(t, float32(10), cfg.LOD.PlanarAngleDeg)
	require.Len(t, cfg.LOD.Ratios, 1)
	assert.Equal(t, float32(0.6), cfg.LOD.Ratios[0].Ratio)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep defaults.
	assert.Equal(t, "SM_", cfg.Naming.Prefixes["mesh"])
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("budget:\n  triangle_ceiling: many\n"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero triangle ceiling", func(c *Config) { c.Budget.TriangleCeiling = 0 }},
		{"bad severity", func(c *Config) { c.Budget.OverBudgetSeverity = "fatal" }},
		{"recommended above hard", func(c *Config) { c.Texture.RecommendedLimit = 8192 }},
		{"ratio above one", func(c *Config) { c.LOD.Ratios[0].Ratio = 1.5 }},
		{"levels not increasing", func(c *Config) {
			c.LOD.Ratios = []LODRatio{{Level: 2, Ratio: 0.5}, {Level: 2, Ratio: 0.25}}
		}},
		{"unknown strategy", func(c *Config) { c.LOD.Strategy = "magic" }},
		{"unknown fix category", func(c *Config) {
			c.Remedy.EnabledCategories = []string{"delete-everything"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Budget.TriangleCeiling = 123456

	path := filepath.Join(t.TempDir(), "sub", "scenelint.yaml")
	require.NoError(t, cfg.SaveTo(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 123456, back.Budget.TriangleCeiling)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Budget.TriangleCeiling, cfg.Budget.TriangleCeiling)
}

func TestHelperAccessors(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	set := cfg.EnabledCategories()
	assert.True(t, set["transform-normalization"])
	assert.False(t, set["naming-normalization"], "naming fixes are opt-in")

	specs := cfg.LODSpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, 1, specs[0].Level)
	assert.Equal(t, float32(0.5), specs[0].Ratio)
}
