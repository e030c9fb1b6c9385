package scene

import (
	"errors"
	"testing"

	"github.com/Faultbox/scenelint/pkg/math"
)

func TestMemorySourceMutatePatch(t *testing.T) {
	s := New()
	s.AddObject(&MeshObject{Name: "Crate", Transform: IdentityTransform()})
	src := NewMemorySource(s)

	tr := Transform{Position: math.Vec3{X: 1, Y: 2, Z: 3}, Scale: math.One()}
	if err := src.MutateObject("Crate", ObjectPatch{Transform: &tr}); err != nil {
		t.Fatalf("MutateObject: %v", err)
	}
	if s.ObjectByName("Crate").Transform.Position != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Error("transform patch not applied")
	}
}

func TestMemorySourceMutateUnknown(t *testing.T) {
	src := NewMemorySource(New())
	err := src.MutateObject("Ghost", ObjectPatch{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySourceRenameCollision(t *testing.T) {
	s := New()
	s.AddObject(&MeshObject{Name: "A"})
	s.AddObject(&MeshObject{Name: "B"})
	src := NewMemorySource(s)

	name := "B"
	if err := src.MutateObject("A", ObjectPatch{Name: &name}); err == nil {
		t.Error("expected error renaming onto existing name")
	}
}

func TestMemorySourceCreateObjectCollision(t *testing.T) {
	s := New()
	s.AddObject(&MeshObject{Name: "Crate"})
	src := NewMemorySource(s)

	name, err := src.CreateObject(ObjectSpec{Name: "Crate", Kind: KindMesh})
	if err != nil {
		t.Fatalf("CreateObject: %v", err)
	}
	if name != "Crate.001" {
		t.Errorf("created name = %q, want Crate.001", name)
	}
}

func TestRemoveSlotsRemapsFaces(t *testing.T) {
	topo := NewTopology(
		[]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 2, Y: 1, Z: 0}},
		[]Face{
			{Verts: []int{0, 1, 2}, Slot: 0},
			{Verts: []int{1, 4, 5}, Slot: 2},
		},
	)
	s := New()
	s.AddObject(&MeshObject{
		Name:     "Wall",
		Kind:     KindMesh,
		Slots:    []MaterialSlot{{Material: "M_A"}, {}, {Material: "M_B"}},
		Topology: topo,
	})
	src := NewMemorySource(s)

	// Remove the empty slot at index 1.
	if err := src.RemoveSlots("Wall", []int{1}); err != nil {
		t.Fatalf("RemoveSlots: %v", err)
	}

	obj := s.ObjectByName("Wall")
	if len(obj.Slots) != 2 {
		t.Fatalf("slot count = %d, want 2", len(obj.Slots))
	}
	if obj.Slots[0].Material != "M_A" || obj.Slots[1].Material != "M_B" {
		t.Errorf("slot order disturbed: %+v", obj.Slots)
	}
	if obj.Topology.Faces[0].Slot != 0 {
		t.Errorf("face 0 slot = %d, want 0", obj.Topology.Faces[0].Slot)
	}
	if obj.Topology.Faces[1].Slot != 1 {
		t.Errorf("face 1 slot = %d, want 1 (decremented)", obj.Topology.Faces[1].Slot)
	}
}

func TestRemoveSlotsOutOfRange(t *testing.T) {
	s := New()
	s.AddObject(&MeshObject{Name: "A", Slots: []MaterialSlot{{}}})
	src := NewMemorySource(s)
	if err := src.RemoveSlots("A", []int{5}); err == nil {
		t.Error("expected error for out-of-range slot index")
	}
}

func TestSortedCopyStable(t *testing.T) {
	objs := []*MeshObject{{Name: "C"}, {Name: "A"}, {Name: "B"}}
	out := SortedCopy(objs)
	if out[0].Name != "A" || out[1].Name != "B" || out[2].Name != "C" {
		t.Errorf("SortedCopy order wrong: %v %v %v", out[0].Name, out[1].Name, out[2].Name)
	}
	if objs[0].Name != "C" {
		t.Error("SortedCopy mutated input slice")
	}
}
