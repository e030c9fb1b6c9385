package scene

import (
	"path/filepath"
	"testing"
)

const snapshotYAML = `
textures:
  - name: T_Wood_D
    width: 1024
    height: 1024
    color_space: srgb
  - name: T_Wood_N
    width: 1024
    height: 1024
    color_space: linear
materials:
  - name: M_Wood
    textures:
      base_color: T_Wood_D
      normal: T_Wood_N
objects:
  - name: SM_Crate
    kind: mesh
    transform:
      position: [0, 0, 0]
      rotation: [0, 0, 0]
      scale: [1, 1, 1]
    uv_channels:
      - name: UVMap
      - name: Lightmap
    slots:
      - material: M_Wood
    pending_ops: [Bevel]
    topology:
      vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0]]
      faces:
        - verts: [0, 1, 2, 3]
  - name: KeyLight
    kind: light
`

func TestLoadSnapshot(t *testing.T) {
	s, err := Load([]byte(snapshotYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(s.Objects) != 2 || len(s.Materials) != 1 || len(s.Textures) != 2 {
		t.Fatalf("counts = %d objects, %d materials, %d textures",
			len(s.Objects), len(s.Materials), len(s.Textures))
	}

	crate := s.ObjectByName("SM_Crate")
	if crate == nil {
		t.Fatal("SM_Crate missing")
	}
	if crate.Kind != KindMesh {
		t.Errorf("kind = %v, want mesh", crate.Kind)
	}
	if len(crate.UVChannels) != 2 {
		t.Errorf("uv channels = %d, want 2", len(crate.UVChannels))
	}
	if crate.Topology.TriangleCount() != 2 {
		t.Errorf("triangle count = %d, want 2", crate.Topology.TriangleCount())
	}
	if len(crate.Topology.Edges) != 4 {
		t.Errorf("derived edges = %d, want 4", len(crate.Topology.Edges))
	}
	if len(crate.PendingOps) != 1 || crate.PendingOps[0] != "Bevel" {
		t.Errorf("pending ops = %v", crate.PendingOps)
	}

	light := s.ObjectByName("KeyLight")
	if light == nil || light.Kind != KindLight {
		t.Error("KeyLight missing or wrong kind")
	}

	wood := s.MaterialByName("M_Wood")
	if wood == nil {
		t.Fatal("M_Wood missing")
	}
	if wood.Textures[RoleBaseColor] != "T_Wood_D" {
		t.Errorf("base color binding = %q", wood.Textures[RoleBaseColor])
	}
	if s.TextureByName("T_Wood_N").ColorSpace != ColorSpaceLinear {
		t.Error("T_Wood_N should be linear")
	}
}

func TestLoadPartialEdgeList(t *testing.T) {
	// Exporters commonly list only the loose edges explicitly; the face
	// edges still have to come out of the face loops.
	const doc = `
objects:
  - name: SM_Wire
    kind: mesh
    topology:
      vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0], [5, 0, 0], [6, 0, 0]]
      faces:
        - verts: [0, 1, 2, 3]
      edges: [[4, 5]]
`
	s, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	topo := s.ObjectByName("SM_Wire").Topology
	if len(topo.Edges) != 5 {
		t.Fatalf("edges = %d, want 4 face edges plus the loose one", len(topo.Edges))
	}
	present := make(map[[2]int]bool, len(topo.Edges))
	for _, e := range topo.Edges {
		present[e] = true
	}
	for _, want := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {0, 3}, {4, 5}} {
		if !present[EdgeKey(want[0], want[1])] {
			t.Errorf("edge %v missing after load", want)
		}
	}
}

func TestLoadInvalidColorSpace(t *testing.T) {
	_, err := Load([]byte("textures:\n  - name: T\n    color_space: vivid\n"))
	if err == nil {
		t.Error("expected error for unknown color space")
	}
}

func TestSaveLoadFileRoundTrip(t *testing.T) {
	s, err := Load([]byte(snapshotYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := SaveFile(s, path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	back, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(back.Objects) != len(s.Objects) {
		t.Errorf("object count after round trip = %d, want %d", len(back.Objects), len(s.Objects))
	}
	crate := back.ObjectByName("SM_Crate")
	if crate == nil || crate.Topology.TriangleCount() != 2 {
		t.Error("SM_Crate topology lost in round trip")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/scene.yaml"); err == nil {
		t.Error("expected error loading missing file")
	}
}
