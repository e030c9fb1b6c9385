package scene

import "fmt"

// Scene is the root container: an ordered set of objects plus the
// material and texture tables. Slice order is creation order, which
// duplicate-material consolidation relies on to pick a canonical
// material. Object names are unique within a scene.
type Scene struct {
	Objects   []*MeshObject
	Materials []*Material
	Textures  []*Texture
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// ObjectByName returns the named object, or nil.
func (s *Scene) ObjectByName(name string) *MeshObject {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// MaterialByName returns the named material, or nil.
func (s *Scene) MaterialByName(name string) *Material {
	for _, m := range s.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// TextureByName returns the named texture, or nil.
func (s *Scene) TextureByName(name string) *Texture {
	for _, t := range s.Textures {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddObject appends an object, enforcing the unique-name invariant.
func (s *Scene) AddObject(o *MeshObject) error {
	if s.ObjectByName(o.Name) != nil {
		return fmt.Errorf("object name %q already in scene", o.Name)
	}
	s.Objects = append(s.Objects, o)
	return nil
}

// AddMaterial appends a material, enforcing unique names.
func (s *Scene) AddMaterial(m *Material) error {
	if s.MaterialByName(m.Name) != nil {
		return fmt.Errorf("material name %q already in scene", m.Name)
	}
	s.Materials = append(s.Materials, m)
	return nil
}

// AddTexture appends a texture, enforcing unique names.
func (s *Scene) AddTexture(t *Texture) error {
	if s.TextureByName(t.Name) != nil {
		return fmt.Errorf("texture name %q already in scene", t.Name)
	}
	s.Textures = append(s.Textures, t)
	return nil
}

// UniqueObjectName returns base if unused, otherwise probes upward with
// a zero-padded numeric disambiguator: base.001, base.002, ...
func (s *Scene) UniqueObjectName(base string) string {
	if s.ObjectByName(base) == nil {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if s.ObjectByName(name) == nil {
			return name
		}
	}
}

// MaterialRefCount returns how many slots across the scene reference
// the named material.
func (s *Scene) MaterialRefCount(name string) int {
	n := 0
	for _, o := range s.Objects {
		for _, slot := range o.Slots {
			if slot.Material == name {
				n++
			}
		}
	}
	return n
}
