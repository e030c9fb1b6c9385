package scene

import (
	"testing"

	"github.com/Faultbox/scenelint/pkg/math"
)

func quadTopology() *Topology {
	return NewTopology(
		[]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[]Face{{Verts: []int{0, 1, 2, 3}}},
	)
}

func TestNewTopologyDerivesEdges(t *testing.T) {
	topo := quadTopology()
	if len(topo.Edges) != 4 {
		t.Errorf("expected 4 edges for a quad, got %d", len(topo.Edges))
	}
}

func TestNewTopologySharedEdgeOnce(t *testing.T) {
	// Two triangles sharing edge 1-2.
	topo := NewTopology(
		[]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[]Face{{Verts: []int{0, 1, 2}}, {Verts: []int{1, 3, 2}}},
	)
	if len(topo.Edges) != 5 {
		t.Errorf("expected 5 edges for two triangles sharing one, got %d", len(topo.Edges))
	}
}

func TestTriangleCountFanEstimate(t *testing.T) {
	tests := []struct {
		name  string
		faces []Face
		want  int
	}{
		{"empty", nil, 0},
		{"triangle", []Face{{Verts: []int{0, 1, 2}}}, 1},
		{"quad", []Face{{Verts: []int{0, 1, 2, 3}}}, 2},
		{"pentagon", []Face{{Verts: []int{0, 1, 2, 3, 4}}}, 3},
		{"degenerate two verts", []Face{{Verts: []int{0, 1}}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo := &Topology{Faces: tt.faces}
			if got := topo.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFaceEdgeCounts(t *testing.T) {
	topo := NewTopology(
		[]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[]Face{{Verts: []int{0, 1, 2}}, {Verts: []int{0, 2, 3}}},
	)
	counts := topo.FaceEdgeCounts()
	if got := counts[EdgeKey(0, 2)]; got != 2 {
		t.Errorf("shared edge face count = %d, want 2", got)
	}
	if got := counts[EdgeKey(0, 1)]; got != 1 {
		t.Errorf("border edge face count = %d, want 1", got)
	}
}

func TestCloneIndependence(t *testing.T) {
	topo := quadTopology()
	c := topo.Clone()
	c.Vertices[0] = math.Vec3{X: 9, Y: 9, Z: 9}
	c.Faces[0].Verts[0] = 3
	if topo.Vertices[0] == (math.Vec3{X: 9, Y: 9, Z: 9}) {
		t.Error("clone shares vertex storage with original")
	}
	if topo.Faces[0].Verts[0] == 3 {
		t.Error("clone shares face storage with original")
	}
}

func TestFaceNormal(t *testing.T) {
	topo := quadTopology()
	n := topo.FaceNormal(0).Normalize()
	want := math.Vec3{X: 0, Y: 0, Z: 1}
	if n.Distance(want) > 1e-5 {
		t.Errorf("FaceNormal() = %v, want %v", n, want)
	}
}
