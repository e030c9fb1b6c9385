// Package config handles pipeline configuration loading and
// validation.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Faultbox/scenelint/internal/lod"
	"github.com/Faultbox/scenelint/internal/remedy"
)

// Config holds all pipeline settings.
type Config struct {
	Budget  BudgetConfig  `yaml:"budget" validate:"required"`
	Texture TextureConfig `yaml:"texture"`
	Metrics MetricsConfig `yaml:"metrics"`
	Naming  NamingConfig  `yaml:"naming"`
	Remedy  RemedyConfig  `yaml:"remedy"`
	LOD     LODConfig     `yaml:"lod"`
	Logging LoggingConfig `yaml:"logging"`
}

// BudgetConfig holds the hardware ceilings. OverBudgetSeverity decides
// explicitly whether a pure triangle-budget overrun reports as a
// warning or blocks export as an error.
type BudgetConfig struct {
	TriangleCeiling    int    `yaml:"triangle_ceiling" validate:"gt=0"`
	DrawCallCeiling    int    `yaml:"draw_call_ceiling" validate:"gt=0"`
	OverBudgetSeverity string `yaml:"over_budget_severity" validate:"oneof=warning error"`
	TopOffenders       int    `yaml:"top_offenders" validate:"gte=0"`
}

// TextureConfig holds the texture-size ceilings in pixels.
type TextureConfig struct {
	HardLimit        int `yaml:"hard_limit" validate:"gt=0"`
	RecommendedLimit int `yaml:"recommended_limit" validate:"gt=0"`
}

// MetricsConfig tunes the validation metrics pass. ExtractionWorkers
// caps the goroutines fanning out per-object topology extraction.
type MetricsConfig struct {
	ExtractionWorkers int `yaml:"extraction_workers" validate:"gte=0"`
}

// NamingConfig maps asset categories (object kind names plus
// "material") to their mandated name prefixes.
type NamingConfig struct {
	Prefixes map[string]string `yaml:"prefixes"`
}

// RemedyConfig lists the auto-fix categories a run may apply.
type RemedyConfig struct {
	EnabledCategories []string `yaml:"enabled_categories"`
}

// LODRatio is one requested LOD level in the generation schedule.
type LODRatio struct {
	Level int     `yaml:"level" validate:"gt=0"`
	Ratio float32 `yaml:"ratio" validate:"gt=0,lte=1"`
}

// LODConfig holds the decimation settings.
type LODConfig struct {
	Ratios         []LODRatio `yaml:"ratios" validate:"dive"`
	Strategy       string     `yaml:"strategy" validate:"oneof=collapse planar"`
	PlanarAngleDeg float32    `yaml:"planar_angle_deg" validate:"gt=0,lt=180"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values for a typical
// real-time asset budget.
func Default() *Config {
	return &Config{
		Budget: BudgetConfig{
			TriangleCeiling:    300000,
			DrawCallCeiling:    100,
			OverBudgetSeverity: "warning",
			TopOffenders:       5,
		},
		Texture: TextureConfig{
			HardLimit:        4096,
			RecommendedLimit: 2048,
		},
		Metrics: MetricsConfig{
			ExtractionWorkers: 4,
		},
		Naming: NamingConfig{
			Prefixes: map[string]string{
				"mesh":     "SM_",
				"material": "M_",
				"light":    "LT_",
				"armature": "RIG_",
			},
		},
		Remedy: RemedyConfig{
			EnabledCategories: []string{
				string(remedy.CategoryTransform),
				string(remedy.CategoryEmptySlots),
				string(remedy.CategoryLoose),
			},
		},
		LOD: LODConfig{
			Ratios: []LODRatio{
				{Level: 1, Ratio: 0.5},
				{Level: 2, Ratio: 0.25},
			},
			Strategy:       "collapse",
			PlanarAngleDeg: lod.DefaultPlanarAngleDeg,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints and the cross-field invariants the
// struct tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Texture.RecommendedLimit > c.Texture.HardLimit {
		return fmt.Errorf("config: texture recommended_limit %d exceeds hard_limit %d",
			c.Texture.RecommendedLimit, c.Texture.HardLimit)
	}
	prev := 0
	for _, r := range c.LOD.Ratios {
		if r.Level <= prev {
			return fmt.Errorf("config: lod ratio levels must be strictly increasing, got %d after %d",
				r.Level, prev)
		}
		prev = r.Level
	}
	if _, err := remedy.NewCategorySet(c.Remedy.EnabledCategories); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := lod.ParseStrategy(c.LOD.Strategy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EnabledCategories returns the parsed auto-fix category set. Call
// Validate first; unknown names fail there.
func (c *Config) EnabledCategories() remedy.CategorySet {
	set, _ := remedy.NewCategorySet(c.Remedy.EnabledCategories)
	return set
}

// LODSpecs returns the ratio schedule as generator level specs.
func (c *Config) LODSpecs() []lod.LevelSpec {
	specs := make([]lod.LevelSpec, len(c.LOD.Ratios))
	for i, r := range c.LOD.Ratios {
		specs[i] = lod.LevelSpec{Level: r.Level, Ratio: r.Ratio}
	}
	return specs
}

// Strategy returns the parsed decimation strategy.
func (c *Config) Strategy() lod.Strategy {
	s, _ := lod.ParseStrategy(c.LOD.Strategy)
	return s
}
