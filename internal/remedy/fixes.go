package remedy

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/scenelint/internal/rules"
	"github.com/Faultbox/scenelint/pkg/math"
	"github.com/Faultbox/scenelint/pkg/scene"
)

// fixTransform bakes the object's scale and rotation into its local
// geometry and resets both, preserving world-space appearance. Position
// is untouched. One MutateObject call keeps the fix atomic.
func (e *Engine) fixTransform(f rules.Finding, obj *scene.MeshObject) (Entry, error) {
	if obj.Topology == nil {
		return Entry{}, fmt.Errorf("object %q has no topology to bake into", obj.Name)
	}
	t := obj.Transform
	before := fmt.Sprintf("scale=(%.3f,%.3f,%.3f) rot=(%.3f,%.3f,%.3f)",
		t.Scale.X, t.Scale.Y, t.Scale.Z, t.Rotation.X, t.Rotation.Y, t.Rotation.Z)

	// Local point p maps to world as R·S·p + position; baking folds
	// R·S into the vertices so identity transforms reproduce the same
	// world-space points.
	m := math.EulerXYZ(t.Rotation).Mul(math.Diag(t.Scale.X, t.Scale.Y, t.Scale.Z))
	baked := obj.Topology.Clone()
	for i, v := range baked.Vertices {
		baked.Vertices[i] = m.MulVec3(v)
	}

	applied := scene.Transform{Position: t.Position, Scale: math.One()}
	if err := e.src.MutateObject(obj.Name, scene.ObjectPatch{
		Transform: &applied,
		Topology:  baked,
	}); err != nil {
		return Entry{}, err
	}
	return Entry{
		RuleCode: f.Code,
		Subject:  obj.Name,
		Before:   before,
		After:    "scale=(1,1,1) rot=(0,0,0), geometry baked",
	}, nil
}

// fixObjectName prepends the kind's mandated prefix. On collision the
// name is probed upward with a zero-padded disambiguator starting at 1.
func (e *Engine) fixObjectName(f rules.Finding, obj *scene.MeshObject, byName map[string]*scene.MeshObject) (Entry, error) {
	prefix, ok := e.prefixes[obj.Kind.String()]
	if !ok {
		return Entry{}, fmt.Errorf("no prefix configured for kind %s", obj.Kind)
	}
	if strings.HasPrefix(obj.Name, prefix) {
		return Entry{}, fmt.Errorf("object %q already prefixed", obj.Name)
	}

	target := prefix + obj.Name
	for i := 1; ; i++ {
		if _, taken := byName[target]; !taken {
			break
		}
		target = fmt.Sprintf("%s%s.%03d", prefix, obj.Name, i)
	}

	before := obj.Name
	if err := e.src.MutateObject(before, scene.ObjectPatch{Name: &target}); err != nil {
		return Entry{}, err
	}
	delete(byName, before)
	byName[target] = obj
	return Entry{RuleCode: f.Code, Subject: target, Before: before, After: target}, nil
}

// fixMaterialName prepends the material prefix, probing on collision.
func (e *Engine) fixMaterialName(f rules.Finding, materials []*scene.Material) (Entry, error) {
	prefix, ok := e.prefixes["material"]
	if !ok {
		return Entry{}, fmt.Errorf("no material prefix configured")
	}

	var mat *scene.Material
	taken := make(map[string]bool, len(materials))
	for _, m := range materials {
		taken[m.Name] = true
		if m.Name == f.Subject {
			mat = m
		}
	}
	if mat == nil {
		return Entry{}, fmt.Errorf("material %q: %w", f.Subject, scene.ErrNotFound)
	}
	if strings.HasPrefix(mat.Name, prefix) {
		return Entry{}, fmt.Errorf("material %q already prefixed", mat.Name)
	}

	target := prefix + mat.Name
	for i := 1; taken[target]; i++ {
		target = fmt.Sprintf("%s%s.%03d", prefix, mat.Name, i)
	}

	before := mat.Name
	if err := e.src.RenameMaterial(before, target); err != nil {
		return Entry{}, err
	}
	return Entry{RuleCode: f.Code, Subject: target, Before: before, After: target}, nil
}

// fixEmptySlots removes slots bound to no material. The source
// preserves remaining slot order and re-indexes face assignments.
func (e *Engine) fixEmptySlots(f rules.Finding, obj *scene.MeshObject) (Entry, error) {
	var empty []int
	for i, s := range obj.Slots {
		if s.Empty() {
			empty = append(empty, i)
		}
	}
	if len(empty) == 0 {
		return Entry{}, fmt.Errorf("object %q has no empty slots", obj.Name)
	}
	before := fmt.Sprintf("%d slots (%d empty)", len(obj.Slots), len(empty))
	if err := e.src.RemoveSlots(obj.Name, empty); err != nil {
		return Entry{}, err
	}
	return Entry{
		RuleCode: f.Code,
		Subject:  obj.Name,
		Before:   before,
		After:    fmt.Sprintf("%d slots", len(obj.Slots)),
	}, nil
}

// fixLooseGeometry deletes vertices with no incident edges, then edges
// bordering no face, and replaces the topology snapshot in one
// mutation.
func (e *Engine) fixLooseGeometry(f rules.Finding, obj *scene.MeshObject) (Entry, error) {
	if obj.Topology == nil {
		return Entry{}, fmt.Errorf("object %q has no topology", obj.Name)
	}
	topo := obj.Topology
	before := fmt.Sprintf("%d verts, %d edges", len(topo.Vertices), len(topo.Edges))

	cleaned := removeLoose(topo)
	if err := e.src.MutateObject(obj.Name, scene.ObjectPatch{Topology: cleaned}); err != nil {
		return Entry{}, err
	}
	return Entry{
		RuleCode: f.Code,
		Subject:  obj.Name,
		Before:   before,
		After:    fmt.Sprintf("%d verts, %d edges", len(cleaned.Vertices), len(cleaned.Edges)),
	}, nil
}

func removeLoose(t *scene.Topology) *scene.Topology {
	// Incidence counts both the explicit edge list and the face loops,
	// so a vertex a face uses can never be dropped even when the edge
	// list is incomplete.
	incident := make([]int, len(t.Vertices))
	for _, e := range t.Edges {
		incident[e[0]]++
		incident[e[1]]++
	}
	for _, f := range t.Faces {
		for _, v := range f.Verts {
			incident[v]++
		}
	}

	// Drop vertices with zero incident edges, remapping indices.
	remap := make([]int, len(t.Vertices))
	var verts []math.Vec3
	for i, v := range t.Vertices {
		if incident[i] == 0 {
			remap[i] = -1
			continue
		}
		remap[i] = len(verts)
		verts = append(verts, v)
	}

	faces := make([]scene.Face, len(t.Faces))
	for i, f := range t.Faces {
		nf := scene.Face{Verts: make([]int, len(f.Verts)), Slot: f.Slot}
		for j, v := range f.Verts {
			nf.Verts[j] = remap[v]
		}
		faces[i] = nf
	}

	// Every edge bordering no face is loose and goes; every survivor
	// borders a face, so deriving the cleaned edge list from the
	// remapped faces reproduces it exactly.
	return scene.NewTopology(verts, faces)
}

// fixDuplicateMaterials rebinds every slot referencing a duplicate onto
// the group's first-created material. Superseded materials end with
// zero references; removing them is left to the scene owner.
func (e *Engine) fixDuplicateMaterials(f rules.Finding, materials []*scene.Material, objects []*scene.MeshObject) (Entry, error) {
	var group []*scene.Material
	for _, g := range rules.DuplicateGroups(materials) {
		if g[0].Name == f.Subject {
			group = g
			break
		}
	}
	if group == nil {
		return Entry{}, fmt.Errorf("no duplicate group for %q", f.Subject)
	}

	canonical := group[0].Name
	superseded := make(map[string]bool, len(group)-1)
	var names []string
	for _, m := range group[1:] {
		superseded[m.Name] = true
		names = append(names, m.Name)
	}

	type slotPatch struct {
		object        string
		before, after []scene.MaterialSlot
	}
	var patches []slotPatch
	rebound := 0
	for _, o := range objects {
		changed := false
		slots := append([]scene.MaterialSlot(nil), o.Slots...)
		for i := range slots {
			if superseded[slots[i].Material] {
				slots[i].Material = canonical
				changed = true
				rebound++
			}
		}
		if !changed {
			continue
		}
		patches = append(patches, slotPatch{
			object: o.Name,
			before: append([]scene.MaterialSlot(nil), o.Slots...),
			after:  slots,
		})
	}

	// The group rebinds across all objects or not at all. On a failure
	// mid-batch, objects already rebound are restored so the scene never
	// ends up referencing both the canonical and a superseded material.
	for i := range patches {
		if err := e.src.MutateObject(patches[i].object, scene.ObjectPatch{Slots: &patches[i].after}); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := e.src.MutateObject(patches[j].object, scene.ObjectPatch{Slots: &patches[j].before}); rerr != nil {
					e.log.Error("rollback failed",
						zap.String("object", patches[j].object),
						zap.Error(rerr))
				}
			}
			return Entry{}, err
		}
	}

	return Entry{
		RuleCode: f.Code,
		Subject:  canonical,
		Before:   fmt.Sprintf("duplicates: %s", strings.Join(names, ", ")),
		After:    fmt.Sprintf("%d slots rebound to %q", rebound, canonical),
	}, nil
}
