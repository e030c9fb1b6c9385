package scene

import (
	"fmt"
	"regexp"
	"strings"
)

// ColorSpace is a texture's declared color interpretation.
type ColorSpace int

const (
	// ColorSpaceSRGB marks perceptually encoded color data.
	ColorSpaceSRGB ColorSpace = iota
	// ColorSpaceLinear marks raw data encoding (normals, masks).
	ColorSpaceLinear
)

// String returns the lowercase color-space name.
func (c ColorSpace) String() string {
	if c == ColorSpaceLinear {
		return "linear"
	}
	return "srgb"
}

// ParseColorSpace converts a color-space name back to a ColorSpace.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch s {
	case "srgb":
		return ColorSpaceSRGB, nil
	case "linear":
		return ColorSpaceLinear, nil
	}
	return ColorSpaceSRGB, fmt.Errorf("unknown color space %q", s)
}

// TextureRole is the semantic slot a texture fills on a material.
type TextureRole int

const (
	RoleBaseColor TextureRole = iota
	RoleNormal
	RoleRoughness
	RoleMetallic
	RoleOcclusion
	RoleEmissive
)

var roleNames = map[TextureRole]string{
	RoleBaseColor: "base_color",
	RoleNormal:    "normal",
	RoleRoughness: "roughness",
	RoleMetallic:  "metallic",
	RoleOcclusion: "occlusion",
	RoleEmissive:  "emissive",
}

// TextureRoles lists every role in declaration order. Callers walking
// a material's bindings iterate this instead of the map so their
// output order is stable.
func TextureRoles() []TextureRole {
	return []TextureRole{
		RoleBaseColor,
		RoleNormal,
		RoleRoughness,
		RoleMetallic,
		RoleOcclusion,
		RoleEmissive,
	}
}

// String returns the snake_case role name.
func (r TextureRole) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseTextureRole converts a role name back to a TextureRole.
func ParseTextureRole(s string) (TextureRole, error) {
	for r, n := range roleNames {
		if n == s {
			return r, nil
		}
	}
	return RoleBaseColor, fmt.Errorf("unknown texture role %q", s)
}

// ExpectedColorSpace returns the encoding a texture bound to this role
// must declare. Color roles (base color, emissive) are perceptual;
// data roles are linear. A mismatch is a correctness defect, not a
// style issue.
func (r TextureRole) ExpectedColorSpace() ColorSpace {
	switch r {
	case RoleBaseColor, RoleEmissive:
		return ColorSpaceSRGB
	default:
		return ColorSpaceLinear
	}
}

// Texture is a named image resource.
type Texture struct {
	Name       string
	Width      int
	Height     int
	ColorSpace ColorSpace
}

// MaxDimension returns the larger of width and height, the value
// texture-size ceilings are checked against.
func (t *Texture) MaxDimension() int {
	if t.Width > t.Height {
		return t.Width
	}
	return t.Height
}

// Material is a named, shared surface definition. Textures maps each
// semantic role to a texture name. Opaque is recorded so a downstream
// render-backend estimator can weigh transparent materials; the budget
// accountant here does not.
type Material struct {
	Name     string
	Opaque   bool
	Textures map[TextureRole]string
}

// numeric ".NNN" duplicate suffix appended by editors on name collision
var dupSuffix = regexp.MustCompile(`\.\d+$`)

// NormalizeMaterialName strips the numeric duplicate suffix and trims
// separator characters, yielding the base identity two materials are
// compared under. "Wood.003" and "Wood" normalize to the same name.
func NormalizeMaterialName(name string) string {
	base := dupSuffix.ReplaceAllString(name, "")
	return strings.Trim(base, " ._-")
}
