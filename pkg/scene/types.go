// Package scene defines the in-memory mesh-scene model the validation
// pipeline operates on: objects, topology snapshots, materials, and
// textures, plus the Source gateway to persisted scene state.
package scene

import (
	"fmt"

	"github.com/Faultbox/scenelint/pkg/math"
)

// ObjectKind is the closed set of object types a scene can contain.
// Only mesh objects carry topology; other kinds pass through validation
// untouched except for naming rules.
type ObjectKind int

const (
	KindMesh ObjectKind = iota
	KindLight
	KindCamera
	KindArmature
	KindEmpty
)

var kindNames = map[ObjectKind]string{
	KindMesh:     "mesh",
	KindLight:    "light",
	KindCamera:   "camera",
	KindArmature: "armature",
	KindEmpty:    "empty",
}

// String returns the lowercase kind name.
func (k ObjectKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a kind name back to an ObjectKind.
func ParseKind(s string) (ObjectKind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return KindEmpty, fmt.Errorf("unknown object kind %q", s)
}

// Transform holds an object's local transform. Rotation is an XYZ Euler
// triple in radians.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

// IdentityTransform returns the rest transform: zero position and
// rotation, unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: math.One()}
}

// UVChannel is one UV layer on a mesh. Channel 0 is the primary texture
// UV, channel 1 the lightmap UV by convention. TexelDensity is recorded
// by upstream tooling and carried through untouched; the pipeline does
// not compute or enforce it.
type UVChannel struct {
	Name         string
	TexelDensity float32
}

// MaterialSlot binds one slot to a material by name. An empty string
// means the slot is unbound.
type MaterialSlot struct {
	Material string
}

// Empty reports whether the slot is bound to no material.
func (s MaterialSlot) Empty() bool {
	return s.Material == ""
}

// MeshObject is a named scene entity. The pipeline creates objects only
// as LOD derivatives; everything else comes from the scene source.
type MeshObject struct {
	Name       string
	Kind       ObjectKind
	Transform  Transform
	UVChannels []UVChannel
	Slots      []MaterialSlot
	Topology   *Topology
	// PendingOps lists non-destructive operations (modifier stack
	// entries) still unresolved before export.
	PendingOps []string
}

// HasTopology reports whether the object carries mesh topology.
func (o *MeshObject) HasTopology() bool {
	return o.Kind == KindMesh && o.Topology != nil
}

// HasTransform reports whether transform rules apply to this kind.
// Cameras and lights keep their transforms; baking is a mesh concern.
func (o *MeshObject) HasTransform() bool {
	return o.Kind == KindMesh
}

// HasMaterials reports whether material rules apply to this kind.
func (o *MeshObject) HasMaterials() bool {
	return o.Kind == KindMesh
}

// BoundMaterials returns the distinct material names bound to non-empty
// slots, in first-appearance order.
func (o *MeshObject) BoundMaterials() []string {
	var names []string
	seen := make(map[string]bool)
	for _, s := range o.Slots {
		if s.Empty() || seen[s.Material] {
			continue
		}
		seen[s.Material] = true
		names = append(names, s.Material)
	}
	return names
}

// Clone returns a deep copy of the object.
func (o *MeshObject) Clone() *MeshObject {
	c := *o
	c.UVChannels = append([]UVChannel(nil), o.UVChannels...)
	c.Slots = append([]MaterialSlot(nil), o.Slots...)
	c.PendingOps = append([]string(nil), o.PendingOps...)
	if o.Topology != nil {
		c.Topology = o.Topology.Clone()
	}
	return &c
}
