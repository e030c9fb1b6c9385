package rules

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/scenelint/internal/metrics"
	"github.com/Faultbox/scenelint/pkg/scene"
)

// transformEpsilon is how far a scale axis may deviate from 1 (or a
// rotation component from 0) before the transform counts as unapplied.
const transformEpsilon = 1e-3

// MaxBoundMaterials is the bound-material count above which an object
// draws too many calls for the target runtime.
const MaxBoundMaterials = 2

// CheckTopology evaluates the topology rules against extracted metrics.
func CheckTopology(m metrics.ObjectMetrics) []Finding {
	var out []Finding
	if m.NgonCount > 0 {
		out = append(out, Finding{
			Subject:  m.Name,
			Code:     CodeNgon,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%d faces with more than 4 vertices", m.NgonCount),
		})
	}
	if m.NonManifoldEdgeCount > 0 {
		out = append(out, Finding{
			Subject:  m.Name,
			Code:     CodeNonManifold,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d non-manifold edges", m.NonManifoldEdgeCount),
		})
	}
	if m.LooseVertexCount+m.LooseEdgeCount > 0 {
		out = append(out, Finding{
			Subject:     m.Name,
			Code:        CodeLooseGeometry,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("%d loose vertices, %d loose edges", m.LooseVertexCount, m.LooseEdgeCount),
			AutoFixable: true,
		})
	}
	return out
}

// CheckTransform flags unapplied scale and rotation.
func CheckTransform(o *scene.MeshObject) []Finding {
	if !o.HasTransform() {
		return nil
	}
	var out []Finding
	s := o.Transform.Scale
	if math32.Abs(s.X-1) > transformEpsilon ||
		math32.Abs(s.Y-1) > transformEpsilon ||
		math32.Abs(s.Z-1) > transformEpsilon {
		out = append(out, Finding{
			Subject:     o.Name,
			Code:        CodeUnappliedScale,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("scale (%.3f, %.3f, %.3f) not applied", s.X, s.Y, s.Z),
			AutoFixable: true,
		})
	}
	r := o.Transform.Rotation
	if math32.Abs(r.X) > transformEpsilon ||
		math32.Abs(r.Y) > transformEpsilon ||
		math32.Abs(r.Z) > transformEpsilon {
		out = append(out, Finding{
			Subject:     o.Name,
			Code:        CodeUnappliedRot,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("rotation (%.3f, %.3f, %.3f) rad not applied", r.X, r.Y, r.Z),
			AutoFixable: true,
		})
	}
	return out
}

// CheckUV flags missing UV channels on mesh objects. Channel 0 is the
// primary texture UV (an export blocker when absent); channel 1 is the
// lightmap UV. Neither is auto-generated: unwrapping is an upstream
// capability.
func CheckUV(o *scene.MeshObject) []Finding {
	if !o.HasTopology() {
		return nil
	}
	switch len(o.UVChannels) {
	case 0:
		return []Finding{{
			Subject:  o.Name,
			Code:     CodeMissingUV0,
			Severity: SeverityError,
			Message:  "no UV channels; texture UV (channel 0) required",
		}}
	case 1:
		return []Finding{{
			Subject:  o.Name,
			Code:     CodeMissingUV1,
			Severity: SeverityWarning,
			Message:  "no lightmap UV (channel 1)",
		}}
	}
	return nil
}

// CheckObjectNaming flags objects whose name lacks the prefix mandated
// for their kind. Kinds without a configured prefix are exempt.
func CheckObjectNaming(o *scene.MeshObject, prefixes map[string]string) []Finding {
	prefix, ok := prefixes[o.Kind.String()]
	if !ok || strings.HasPrefix(o.Name, prefix) {
		return nil
	}
	return []Finding{{
		Subject:     o.Name,
		Code:        CodeNaming,
		Severity:    SeverityWarning,
		Message:     fmt.Sprintf("name lacks %q prefix for kind %s", prefix, o.Kind),
		AutoFixable: true,
	}}
}

// CheckMaterialNaming flags materials whose name lacks the configured
// material prefix.
func CheckMaterialNaming(m *scene.Material, prefixes map[string]string) []Finding {
	prefix, ok := prefixes["material"]
	if !ok || strings.HasPrefix(m.Name, prefix) {
		return nil
	}
	return []Finding{{
		Subject:     m.Name,
		Code:        CodeNaming,
		Severity:    SeverityWarning,
		Message:     fmt.Sprintf("material name lacks %q prefix", prefix),
		AutoFixable: true,
	}}
}

// CheckSlots evaluates the material-slot rules for one object.
func CheckSlots(o *scene.MeshObject) []Finding {
	if !o.HasMaterials() {
		return nil
	}
	var out []Finding

	empty := 0
	for _, s := range o.Slots {
		if s.Empty() {
			empty++
		}
	}
	if empty > 0 {
		out = append(out, Finding{
			Subject:     o.Name,
			Code:        CodeEmptySlot,
			Severity:    SeverityError,
			Message:     fmt.Sprintf("%d material slots bound to no material", empty),
			AutoFixable: true,
		})
	}

	bound := len(o.BoundMaterials())
	if bound > MaxBoundMaterials {
		out = append(out, Finding{
			Subject:  o.Name,
			Code:     CodeExcessMaterials,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d bound materials, maximum %d per object", bound, MaxBoundMaterials),
		})
	}
	if bound == 0 {
		out = append(out, Finding{
			Subject:  o.Name,
			Code:     CodeNoMaterial,
			Severity: SeverityWarning,
			Message:  "no material bound",
		})
	}
	return out
}

// CheckDuplicateMaterials groups materials by normalized base name and
// flags each group with more than one member. One finding per group,
// subject is the first-created (canonical) member.
func CheckDuplicateMaterials(materials []*scene.Material) []Finding {
	groups := DuplicateGroups(materials)
	var out []Finding
	for _, g := range groups {
		names := make([]string, len(g))
		for i, m := range g {
			names[i] = m.Name
		}
		out = append(out, Finding{
			Subject:     g[0].Name,
			Code:        CodeDuplicateMat,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("materials share identity %q: %s", scene.NormalizeMaterialName(g[0].Name), strings.Join(names, ", ")),
			AutoFixable: true,
		})
	}
	return out
}

// DuplicateGroups returns groups of materials that normalize to the
// same base name, each group in creation order and with at least two
// members. Group order follows the first member's creation order.
func DuplicateGroups(materials []*scene.Material) [][]*scene.Material {
	byBase := make(map[string][]*scene.Material)
	var order []string
	for _, m := range materials {
		base := scene.NormalizeMaterialName(m.Name)
		if len(byBase[base]) == 0 {
			order = append(order, base)
		}
		byBase[base] = append(byBase[base], m)
	}
	var groups [][]*scene.Material
	for _, base := range order {
		if g := byBase[base]; len(g) > 1 {
			groups = append(groups, g)
		}
	}
	return groups
}

// CheckTexture evaluates the size ceilings for one texture.
func CheckTexture(t *scene.Texture, hardLimit, recommendedLimit int) []Finding {
	d := t.MaxDimension()
	if d > hardLimit {
		return []Finding{{
			Subject:  t.Name,
			Code:     CodeTextureOversized,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%dx%d exceeds hard limit %d", t.Width, t.Height, hardLimit),
		}}
	}
	if d > recommendedLimit {
		return []Finding{{
			Subject:  t.Name,
			Code:     CodeTextureLarge,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%dx%d exceeds recommended limit %d", t.Width, t.Height, recommendedLimit),
		}}
	}
	return nil
}

// CheckTextureBindings verifies that every texture bound to a material
// role declares the encoding that role requires: perceptual for color
// roles, linear for data roles. A mismatch renders wrong, so it is an
// error, not a style nit.
func CheckTextureBindings(m *scene.Material, s *scene.Scene) []Finding {
	var out []Finding
	for _, role := range scene.TextureRoles() {
		texName, bound := m.Textures[role]
		if !bound {
			continue
		}
		tex := s.TextureByName(texName)
		if tex == nil {
			continue
		}
		want := role.ExpectedColorSpace()
		if tex.ColorSpace != want {
			out = append(out, Finding{
				Subject:  texName,
				Code:     CodeColorSpace,
				Severity: SeverityError,
				Message: fmt.Sprintf("bound as %s on %q but declared %s, expected %s",
					role, m.Name, tex.ColorSpace, want),
			})
		}
	}
	return out
}

// CheckPendingOps flags unresolved non-destructive operations. Never
// auto-applied: flattening a stack is destructive and the right
// resolution depends on intent.
func CheckPendingOps(o *scene.MeshObject) []Finding {
	if len(o.PendingOps) == 0 {
		return nil
	}
	return []Finding{{
		Subject:  o.Name,
		Code:     CodePendingOps,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("unresolved operations before export: %s", strings.Join(o.PendingOps, ", ")),
	}}
}
