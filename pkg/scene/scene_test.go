package scene

import "testing"

func TestAddObjectUniqueName(t *testing.T) {
	s := New()
	if err := s.AddObject(&MeshObject{Name: "Crate"}); err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	if err := s.AddObject(&MeshObject{Name: "Crate"}); err == nil {
		t.Error("expected error adding duplicate object name")
	}
}

func TestUniqueObjectNameProbing(t *testing.T) {
	s := New()
	s.AddObject(&MeshObject{Name: "Crate"})
	s.AddObject(&MeshObject{Name: "Crate.001"})

	if got := s.UniqueObjectName("Barrel"); got != "Barrel" {
		t.Errorf("UniqueObjectName(Barrel) = %q, want unchanged", got)
	}
	if got := s.UniqueObjectName("Crate"); got != "Crate.002" {
		t.Errorf("UniqueObjectName(Crate) = %q, want Crate.002", got)
	}
}

func TestMaterialRefCount(t *testing.T) {
	s := New()
	s.AddMaterial(&Material{Name: "M_Wood"})
	s.AddObject(&MeshObject{
		Name:  "A",
		Slots: []MaterialSlot{{Material: "M_Wood"}, {Material: "M_Wood"}},
	})
	s.AddObject(&MeshObject{
		Name:  "B",
		Slots: []MaterialSlot{{Material: "M_Wood"}, {}},
	})

	if got := s.MaterialRefCount("M_Wood"); got != 3 {
		t.Errorf("MaterialRefCount = %d, want 3", got)
	}
	if got := s.MaterialRefCount("M_Stone"); got != 0 {
		t.Errorf("MaterialRefCount of unknown = %d, want 0", got)
	}
}

func TestNormalizeMaterialName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wood", "Wood"},
		{"Wood.003", "Wood"},
		{"Wood.12", "Wood"},
		{"Wood_", "Wood"},
		{"  Wood. ", "Wood"},
		{"M_Wood.001", "M_Wood"},
		{"Wood2", "Wood2"},
	}
	for _, tt := range tests {
		if got := NormalizeMaterialName(tt.in); got != tt.want {
			t.Errorf("NormalizeMaterialName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBoundMaterialsDistinct(t *testing.T) {
	o := &MeshObject{
		Kind: KindMesh,
		Slots: []MaterialSlot{
			{Material: "A"}, {}, {Material: "B"}, {Material: "A"},
		},
	}
	got := o.BoundMaterials()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("BoundMaterials() = %v, want [A B]", got)
	}
}

func TestExpectedColorSpace(t *testing.T) {
	if RoleBaseColor.ExpectedColorSpace() != ColorSpaceSRGB {
		t.Error("base color should expect srgb")
	}
	if RoleNormal.ExpectedColorSpace() != ColorSpaceLinear {
		t.Error("normal should expect linear")
	}
	if RoleEmissive.ExpectedColorSpace() != ColorSpaceSRGB {
		t.Error("emissive should expect srgb")
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []ObjectKind{KindMesh, KindLight, KindCamera, KindArmature, KindEmpty} {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), parsed, k)
		}
	}
	if _, err := ParseKind("spaceship"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
