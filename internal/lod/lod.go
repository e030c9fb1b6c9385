// Package lod generates chains of progressively simplified mesh
// variants. Two strategies are available: general edge-collapse
// decimation and planar dissolve for flat architectural surfaces where
// collapse would distort the silhouette. The source object is never
// mutated; every level is a new, independently owned object created
// through the scene source.
package lod

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenelint/pkg/scene"
)

// ErrDegenerateInput signals a source with zero triangles; no derived
// objects are produced in that case.
var ErrDegenerateInput = errors.New("source has no triangles")

// DefaultPlanarAngleDeg is the dihedral-angle threshold below which the
// planar strategy dissolves adjacent faces.
const DefaultPlanarAngleDeg = 5.0

// Strategy selects the simplification algorithm.
type Strategy int

const (
	StrategyCollapse Strategy = iota
	StrategyPlanar
)

// String returns the lowercase strategy name.
func (s Strategy) String() string {
	if s == StrategyPlanar {
		return "planar"
	}
	return "collapse"
}

// ParseStrategy converts a strategy name from configuration.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "collapse":
		return StrategyCollapse, nil
	case "planar":
		return StrategyPlanar, nil
	}
	return StrategyCollapse, fmt.Errorf("unknown decimation strategy %q", s)
}

// LevelSpec is one requested LOD level with its triangle-retention
// ratio.
type LevelSpec struct {
	Level int
	Ratio float32
}

// Level is one generated entry in a chain. Object names the derived
// scene object; for level 0 it is the unmodified source itself.
// ActualRatio records what the heuristic actually achieved, which may
// deviate from the requested ratio.
type Level struct {
	Level       int     `yaml:"level" json:"level"`
	Object      string  `yaml:"object" json:"object"`
	Ratio       float32 `yaml:"ratio" json:"ratio"`
	ActualRatio float32 `yaml:"actual_ratio" json:"actual_ratio"`
	Triangles   int     `yaml:"triangles" json:"triangles"`
}

// Chain is the ordered LOD sequence anchored to one source object.
type Chain struct {
	Source string  `yaml:"source" json:"source"`
	Levels []Level `yaml:"levels" json:"levels"`
}

// Generator creates LOD chains through a scene source.
type Generator struct {
	src            scene.Source
	strategy       Strategy
	planarAngleDeg float32
	log            *zap.Logger
}

// NewGenerator creates a generator. A non-positive angle threshold
// falls back to the default; logger may be nil.
func NewGenerator(src scene.Source, strategy Strategy, planarAngleDeg float32, logger *zap.Logger) *Generator {
	if planarAngleDeg <= 0 {
		planarAngleDeg = DefaultPlanarAngleDeg
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{src: src, strategy: strategy, planarAngleDeg: planarAngleDeg, log: logger}
}

// Generate builds the chain for one source object. Level 0 is implicit:
// the unmodified source at ratio 1.0. Requested levels must start at 1,
// be strictly increasing, and carry ratios in (0, 1].
func (g *Generator) Generate(sourceName string, specs []LevelSpec) (*Chain, error) {
	if err := validateSpecs(specs); err != nil {
		return nil, err
	}

	objects, err := g.src.ListObjects()
	if err != nil {
		return nil, fmt.Errorf("lod: listing objects: %w", err)
	}
	var src *scene.MeshObject
	for _, o := range objects {
		if o.Name == sourceName {
			src = o
			break
		}
	}
	if src == nil {
		return nil, fmt.Errorf("lod: source %q: %w", sourceName, scene.ErrNotFound)
	}
	if !src.HasTopology() {
		return nil, fmt.Errorf("lod: source %q has no topology", sourceName)
	}

	baseTris := src.Topology.TriangleCount()
	if baseTris == 0 {
		return &Chain{Source: sourceName}, fmt.Errorf("lod: source %q: %w", sourceName, ErrDegenerateInput)
	}

	chain := &Chain{
		Source: sourceName,
		Levels: []Level{{
			Level: 0, Object: sourceName, Ratio: 1, ActualRatio: 1, Triangles: baseTris,
		}},
	}

	for _, spec := range specs {
		topo := g.simplify(src.Topology, spec.Ratio)
		name, err := g.src.CreateObject(scene.ObjectSpec{
			Name:       fmt.Sprintf("%s_LOD%d", sourceName, spec.Level),
			Kind:       scene.KindMesh,
			Transform:  src.Transform,
			UVChannels: src.UVChannels,
			Slots:      src.Slots,
			Topology:   topo,
		})
		if err != nil {
			return nil, fmt.Errorf("lod: creating level %d for %q: %w", spec.Level, sourceName, err)
		}

		tris := topo.TriangleCount()
		g.log.Info("lod level generated",
			zap.String("source", sourceName),
			zap.Int("level", spec.Level),
			zap.String("object", name),
			zap.Int("triangles", tris))
		chain.Levels = append(chain.Levels, Level{
			Level:       spec.Level,
			Object:      name,
			Ratio:       spec.Ratio,
			ActualRatio: float32(tris) / float32(baseTris),
			Triangles:   tris,
		})
	}
	return chain, nil
}

func (g *Generator) simplify(topo *scene.Topology, ratio float32) *scene.Topology {
	switch g.strategy {
	case StrategyPlanar:
		return PlanarDissolve(topo, g.planarAngleDeg)
	default:
		target := int(float32(topo.TriangleCount())*ratio + 0.5)
		if target < 1 {
			target = 1
		}
		return CollapseDecimate(topo, target)
	}
}

func validateSpecs(specs []LevelSpec) error {
	if len(specs) > 0 && specs[0].Level != 1 {
		return fmt.Errorf("lod: levels must start at 1, got %d", specs[0].Level)
	}
	prev := 0
	for _, s := range specs {
		if s.Level <= prev {
			return fmt.Errorf("lod: levels must be strictly increasing, got %d after %d", s.Level, prev)
		}
		if s.Ratio <= 0 || s.Ratio > 1 {
			return fmt.Errorf("lod: level %d ratio %v outside (0, 1]", s.Level, s.Ratio)
		}
		prev = s.Level
	}
	return nil
}
