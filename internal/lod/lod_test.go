package lod

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenelint/pkg/math"
	"github.com/Faultbox/scenelint/pkg/scene"
)

// gridTopology builds a rows×cols grid of unit quads in the XY plane,
// wound counter-clockwise. Triangle count is rows*cols*2.
func gridTopology(rows, cols int) *scene.Topology {
	verts := make([]math.Vec3, 0, (rows+1)*(cols+1))
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			verts = append(verts, math.Vec3{X: float32(c), Y: float32(r)})
		}
	}
	stride := cols + 1
	var faces []scene.Face
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := r*stride + c
			faces = append(faces, scene.Face{
				Verts: []int{v, v + 1, v + 1 + stride, v + stride},
			})
		}
	}
	return scene.NewTopology(verts, faces)
}

func gridObject(name string, rows, cols int) *scene.MeshObject {
	return &scene.MeshObject{
		Name:      name,
		Kind:      scene.KindMesh,
		Transform: scene.IdentityTransform(),
		Topology:  gridTopology(rows, cols),
	}
}

func TestCollapseDecimateTarget(t *testing.T) {
	topo := gridTopology(10, 10) // 200 triangles
	out := CollapseDecimate(topo, 100)

	got := out.TriangleCount()
	assert.LessOrEqual(t, got, 100)
	assert.Greater(t, got, 80, "collapse overshot the target badly")
}

func TestCollapseDecimateTriangulatesNgons(t *testing.T) {
	pentagon := scene.NewTopology(
		[]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 3, Y: 2, Z: 0}, {X: 1, Y: 3, Z: 0}, {X: -1, Y: 2, Z: 0}},
		[]scene.Face{{Verts: []int{0, 1, 2, 3, 4}}},
	)
	out := CollapseDecimate(pentagon, 1000)
	for _, f := range out.Faces {
		assert.Len(t, f.Verts, 3, "collapse output must be pure triangles")
	}
	assert.Equal(t, 3, out.TriangleCount())
}

func TestCollapseDecimateDeterministic(t *testing.T) {
	a := CollapseDecimate(gridTopology(6, 6), 30)
	b := CollapseDecimate(gridTopology(6, 6), 30)
	require.Equal(t, a.TriangleCount(), b.TriangleCount())
	assert.Equal(t, a.Vertices, b.Vertices)
	assert.Equal(t, a.Faces, b.Faces)
}

func TestPlanarDissolveFlatGrid(t *testing.T) {
	topo := gridTopology(2, 2) // four coplanar quads
	out := PlanarDissolve(topo, DefaultPlanarAngleDeg)

	require.Len(t, out.Faces, 1, "coplanar region should dissolve to one face")
	assert.Len(t, out.Faces[0].Verts, 8, "boundary loop of a 2x2 grid has 8 vertices")
}

func TestPlanarDissolveRespectsAngle(t *testing.T) {
	// Two quads folded 90° along their shared edge.
	topo := scene.NewTopology(
		[]math.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1},
		},
		[]scene.Face{
			{Verts: []int{0, 1, 2, 3}},
			{Verts: []int{1, 4, 5, 2}},
		},
	)
	out := PlanarDissolve(topo, DefaultPlanarAngleDeg)
	assert.Len(t, out.Faces, 2, "folded faces must not dissolve")
}

func TestGenerateChainRatios(t *testing.T) {
	s := scene.New()
	src := gridObject("SM_Terrain", 50, 100) // 10000 triangles
	require.NoError(t, s.AddObject(src))

	g := NewGenerator(scene.NewMemorySource(s), StrategyCollapse, 0, nil)
	chain, err := g.Generate("SM_Terrain", []LevelSpec{
		{Level: 1, Ratio: 0.5},
		{Level: 2, Ratio: 0.25},
	})
	require.NoError(t, err)
	require.Len(t, chain.Levels, 3)

	// Level 0 is the untouched source.
	assert.Equal(t, "SM_Terrain", chain.Levels[0].Object)
	assert.Equal(t, 10000, chain.Levels[0].Triangles)
	assert.Equal(t, float32(1), chain.Levels[0].ActualRatio)

	// Requested ratios hit within heuristic tolerance.
	assert.InDelta(t, 5000, chain.Levels[1].Triangles, 500)
	assert.InDelta(t, 2500, chain.Levels[2].Triangles, 300)

	// Source topology is exactly unchanged.
	assert.Equal(t, 10000, src.Topology.TriangleCount())

	// Derived objects exist in the scene under the naming convention.
	lod1 := s.ObjectByName("SM_Terrain_LOD1")
	require.NotNil(t, lod1)
	assert.Equal(t, chain.Levels[1].Triangles, lod1.Topology.TriangleCount())
	require.NotNil(t, s.ObjectByName("SM_Terrain_LOD2"))
}

func TestGenerateChainMonotonic(t *testing.T) {
	s := scene.New()
	require.NoError(t, s.AddObject(gridObject("SM_Wall", 8, 8)))

	g := NewGenerator(scene.NewMemorySource(s), StrategyCollapse, 0, nil)
	chain, err := g.Generate("SM_Wall", []LevelSpec{
		{Level: 1, Ratio: 0.75},
		{Level: 2, Ratio: 0.5},
		{Level: 3, Ratio: 0.2},
	})
	require.NoError(t, err)

	for i := 1; i < len(chain.Levels); i++ {
		assert.LessOrEqual(t, chain.Levels[i].Triangles, chain.Levels[i-1].Triangles,
			"triangle count must not increase down the chain")
	}
}

func TestGenerateChainDegenerateSource(t *testing.T) {
	s := scene.New()
	require.NoError(t, s.AddObject(&scene.MeshObject{
		Name:     "SM_Empty",
		Kind:     scene.KindMesh,
		Topology: scene.NewTopology(nil, nil),
	}))

	g := NewGenerator(scene.NewMemorySource(s), StrategyCollapse, 0, nil)
	chain, err := g.Generate("SM_Empty", []LevelSpec{{Level: 1, Ratio: 0.5}})

	require.ErrorIs(t, err, ErrDegenerateInput)
	assert.Empty(t, chain.Levels, "no derived objects for degenerate input")
	assert.Len(t, s.Objects, 1, "no objects created")
}

func TestGenerateChainSpecValidation(t *testing.T) {
	s := scene.New()
	require.NoError(t, s.AddObject(gridObject("SM_A", 2, 2)))
	g := NewGenerator(scene.NewMemorySource(s), StrategyCollapse, 0, nil)

	tests := []struct {
		name  string
		specs []LevelSpec
	}{
		{"ratio above one", []LevelSpec{{Level: 1, Ratio: 1.5}}},
		{"zero ratio", []LevelSpec{{Level: 1, Ratio: 0}}},
		{"levels not increasing", []LevelSpec{{Level: 1, Ratio: 0.5}, {Level: 1, Ratio: 0.25}}},
		{"levels not starting at 1", []LevelSpec{{Level: 2, Ratio: 0.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate("SM_A", tt.specs)
			assert.Error(t, err)
		})
	}
}

func TestGenerateChainUnknownSource(t *testing.T) {
	g := NewGenerator(scene.NewMemorySource(scene.New()), StrategyCollapse, 0, nil)
	_, err := g.Generate("Ghost", []LevelSpec{{Level: 1, Ratio: 0.5}})
	assert.True(t, errors.Is(err, scene.ErrNotFound))
}

func TestParseStrategy(t *testing.T) {
	got, err := ParseStrategy("planar")
	require.NoError(t, err)
	assert.Equal(t, StrategyPlanar, got)
	_, err = ParseStrategy("magic")
	assert.Error(t, err)
}
