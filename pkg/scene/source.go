package scene

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when a source operation names an unknown
// object or material.
var ErrNotFound = errors.New("not found")

// ObjectPatch is a partial mutation applied through a Source. Nil
// fields are left unchanged. A single MutateObject call is the atomic
// unit: implementations apply all set fields or none.
type ObjectPatch struct {
	Name      *string
	Transform *Transform
	Topology  *Topology
	Slots     *[]MaterialSlot
}

// ObjectSpec describes a new object to be created by the source,
// typically an LOD derivative.
type ObjectSpec struct {
	Name       string
	Kind       ObjectKind
	Transform  Transform
	UVChannels []UVChannel
	Slots      []MaterialSlot
	Topology   *Topology
}

// Source is the pipeline's sole gateway to persisted scene state. An
// editor bridge implements it against live application data; the
// in-memory implementation below backs tests and file-based runs. The
// core never assumes a particular storage or interchange format behind
// it.
type Source interface {
	ListObjects() ([]*MeshObject, error)
	ListMaterials() ([]*Material, error)
	ListTextures() ([]*Texture, error)
	MutateObject(name string, patch ObjectPatch) error
	CreateObject(spec ObjectSpec) (string, error)
	// RemoveSlots deletes the material slots at the given indices,
	// preserving the order of the remaining slots and re-indexing face
	// slot assignments consistently.
	RemoveSlots(name string, indices []int) error
	// RenameMaterial renames a material and rebinds every slot that
	// referenced the old name.
	RenameMaterial(oldName, newName string) error
}

// MemorySource adapts an in-memory Scene to the Source interface.
type MemorySource struct {
	scene *Scene
}

// NewMemorySource wraps a scene.
func NewMemorySource(s *Scene) *MemorySource {
	return &MemorySource{scene: s}
}

// Scene returns the backing scene.
func (m *MemorySource) Scene() *Scene {
	return m.scene
}

// ListObjects returns the scene's objects in creation order.
func (m *MemorySource) ListObjects() ([]*MeshObject, error) {
	return m.scene.Objects, nil
}

// ListMaterials returns the scene's materials in creation order.
func (m *MemorySource) ListMaterials() ([]*Material, error) {
	return m.scene.Materials, nil
}

// ListTextures returns the scene's textures.
func (m *MemorySource) ListTextures() ([]*Texture, error) {
	return m.scene.Textures, nil
}

// MutateObject applies a patch to the named object.
func (m *MemorySource) MutateObject(name string, patch ObjectPatch) error {
	obj := m.scene.ObjectByName(name)
	if obj == nil {
		return fmt.Errorf("mutate object %q: %w", name, ErrNotFound)
	}
	if patch.Name != nil {
		if other := m.scene.ObjectByName(*patch.Name); other != nil && other != obj {
			return fmt.Errorf("rename %q to %q: name taken", name, *patch.Name)
		}
		obj.Name = *patch.Name
	}
	if patch.Transform != nil {
		obj.Transform = *patch.Transform
	}
	if patch.Topology != nil {
		obj.Topology = patch.Topology
	}
	if patch.Slots != nil {
		obj.Slots = append([]MaterialSlot(nil), (*patch.Slots)...)
	}
	return nil
}

// CreateObject adds a new object to the scene and returns its name,
// which may differ from the requested one if it collided.
func (m *MemorySource) CreateObject(spec ObjectSpec) (string, error) {
	name := m.scene.UniqueObjectName(spec.Name)
	obj := &MeshObject{
		Name:       name,
		Kind:       spec.Kind,
		Transform:  spec.Transform,
		UVChannels: append([]UVChannel(nil), spec.UVChannels...),
		Slots:      append([]MaterialSlot(nil), spec.Slots...),
		Topology:   spec.Topology,
	}
	if err := m.scene.AddObject(obj); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveSlots deletes the given slot indices from the named object and
// remaps face slot assignments. Faces that pointed at a removed slot
// fall back to slot 0.
func (m *MemorySource) RemoveSlots(name string, indices []int) error {
	obj := m.scene.ObjectByName(name)
	if obj == nil {
		return fmt.Errorf("remove slots on %q: %w", name, ErrNotFound)
	}

	removed := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(obj.Slots) {
			return fmt.Errorf("remove slots on %q: index %d out of range", name, i)
		}
		removed[i] = true
	}

	remap := make(map[int]int, len(obj.Slots))
	var kept []MaterialSlot
	for i, s := range obj.Slots {
		if removed[i] {
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, s)
	}
	obj.Slots = kept

	if obj.Topology != nil {
		for i := range obj.Topology.Faces {
			if ni, ok := remap[obj.Topology.Faces[i].Slot]; ok {
				obj.Topology.Faces[i].Slot = ni
			} else {
				obj.Topology.Faces[i].Slot = 0
			}
		}
	}
	return nil
}

// RenameMaterial renames a material and updates every slot binding.
func (m *MemorySource) RenameMaterial(oldName, newName string) error {
	mat := m.scene.MaterialByName(oldName)
	if mat == nil {
		return fmt.Errorf("rename material %q: %w", oldName, ErrNotFound)
	}
	if other := m.scene.MaterialByName(newName); other != nil && other != mat {
		return fmt.Errorf("rename material %q to %q: name taken", oldName, newName)
	}
	mat.Name = newName
	for _, o := range m.scene.Objects {
		for i := range o.Slots {
			if o.Slots[i].Material == oldName {
				o.Slots[i].Material = newName
			}
		}
	}
	return nil
}

// SortedCopy returns objects sorted by name. Parallel per-object work
// is merged through this to keep reports reproducible.
func SortedCopy(objects []*MeshObject) []*MeshObject {
	out := append([]*MeshObject(nil), objects...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
