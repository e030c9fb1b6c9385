package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenelint/pkg/math"
)

// Scene snapshot files are a YAML description of a scene, used by the
// CLI and tests. They are an internal representation, not an
// interchange format; export formats live outside this module.

type sceneDoc struct {
	Objects   []objectDoc   `yaml:"objects"`
	Materials []materialDoc `yaml:"materials"`
	Textures  []textureDoc  `yaml:"textures"`
}

type objectDoc struct {
	Name       string        `yaml:"name"`
	Kind       string        `yaml:"kind"`
	Transform  *transformDoc `yaml:"transform,omitempty"`
	UVChannels []uvDoc       `yaml:"uv_channels,omitempty"`
	Slots      []slotDoc     `yaml:"slots,omitempty"`
	Topology   *topologyDoc  `yaml:"topology,omitempty"`
	PendingOps []string      `yaml:"pending_ops,omitempty"`
}

type transformDoc struct {
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
	Scale    [3]float32 `yaml:"scale"`
}

type uvDoc struct {
	Name         string  `yaml:"name"`
	TexelDensity float32 `yaml:"texel_density,omitempty"`
}

type slotDoc struct {
	Material string `yaml:"material"`
}

type topologyDoc struct {
	Vertices [][3]float32 `yaml:"vertices"`
	Edges    [][2]int     `yaml:"edges,omitempty"`
	Faces    []faceDoc    `yaml:"faces"`
}

type faceDoc struct {
	Verts []int `yaml:"verts"`
	Slot  int   `yaml:"slot,omitempty"`
}

type materialDoc struct {
	Name     string            `yaml:"name"`
	Opaque   *bool             `yaml:"opaque,omitempty"`
	Textures map[string]string `yaml:"textures,omitempty"`
}

type textureDoc struct {
	Name       string `yaml:"name"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	ColorSpace string `yaml:"color_space"`
}

// Load parses a YAML scene snapshot.
func Load(data []byte) (*Scene, error) {
	var doc sceneDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scene snapshot: %w", err)
	}
	return doc.build()
}

// LoadFile reads and parses a YAML scene snapshot file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene snapshot %s: %w", path, err)
	}
	return Load(data)
}

// Save serializes a scene to YAML.
func Save(s *Scene) ([]byte, error) {
	return yaml.Marshal(buildDoc(s))
}

// SaveFile writes the YAML serialization of a scene to path.
func SaveFile(s *Scene, path string) error {
	data, err := Save(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (d *sceneDoc) build() (*Scene, error) {
	s := New()
	for _, td := range d.Textures {
		cs, err := ParseColorSpace(td.ColorSpace)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", td.Name, err)
		}
		if err := s.AddTexture(&Texture{
			Name: td.Name, Width: td.Width, Height: td.Height, ColorSpace: cs,
		}); err != nil {
			return nil, err
		}
	}
	for _, md := range d.Materials {
		mat := &Material{Name: md.Name, Opaque: true}
		if md.Opaque != nil {
			mat.Opaque = *md.Opaque
		}
		if len(md.Textures) > 0 {
			mat.Textures = make(map[TextureRole]string, len(md.Textures))
			for roleName, texName := range md.Textures {
				role, err := ParseTextureRole(roleName)
				if err != nil {
					return nil, fmt.Errorf("material %q: %w", md.Name, err)
				}
				mat.Textures[role] = texName
			}
		}
		if err := s.AddMaterial(mat); err != nil {
			return nil, err
		}
	}
	for _, od := range d.Objects {
		obj, err := od.build()
		if err != nil {
			return nil, err
		}
		if err := s.AddObject(obj); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (d *objectDoc) build() (*MeshObject, error) {
	kind := KindMesh
	if d.Kind != "" {
		var err error
		kind, err = ParseKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", d.Name, err)
		}
	}

	obj := &MeshObject{
		Name:       d.Name,
		Kind:       kind,
		Transform:  IdentityTransform(),
		PendingOps: d.PendingOps,
	}
	if d.Transform != nil {
		obj.Transform = Transform{
			Position: vec3(d.Transform.Position),
			Rotation: vec3(d.Transform.Rotation),
			Scale:    vec3(d.Transform.Scale),
		}
	}
	for _, uv := range d.UVChannels {
		obj.UVChannels = append(obj.UVChannels, UVChannel{Name: uv.Name, TexelDensity: uv.TexelDensity})
	}
	for _, sl := range d.Slots {
		obj.Slots = append(obj.Slots, MaterialSlot{Material: sl.Material})
	}
	if d.Topology != nil {
		verts := make([]math.Vec3, len(d.Topology.Vertices))
		for i, v := range d.Topology.Vertices {
			verts[i] = vec3(v)
		}
		faces := make([]Face, len(d.Topology.Faces))
		for i, f := range d.Topology.Faces {
			faces[i] = Face{Verts: f.Verts, Slot: f.Slot}
		}
		topo := NewTopology(verts, faces)
		// Explicit edges carry loose edges the face loops cannot
		// derive. They merge with the derived list; a snapshot that
		// lists only its loose edges must not lose the face edges.
		if len(d.Topology.Edges) > 0 {
			seen := make(map[[2]int]bool, len(topo.Edges))
			for _, e := range topo.Edges {
				seen[e] = true
			}
			for _, e := range d.Topology.Edges {
				k := EdgeKey(e[0], e[1])
				if !seen[k] {
					seen[k] = true
					topo.Edges = append(topo.Edges, k)
				}
			}
		}
		obj.Topology = topo
	}
	return obj, nil
}

func buildDoc(s *Scene) *sceneDoc {
	doc := &sceneDoc{}
	for _, t := range s.Textures {
		doc.Textures = append(doc.Textures, textureDoc{
			Name: t.Name, Width: t.Width, Height: t.Height, ColorSpace: t.ColorSpace.String(),
		})
	}
	for _, m := range s.Materials {
		md := materialDoc{Name: m.Name}
		opaque := m.Opaque
		md.Opaque = &opaque
		if len(m.Textures) > 0 {
			md.Textures = make(map[string]string, len(m.Textures))
			for role, tex := range m.Textures {
				md.Textures[role.String()] = tex
			}
		}
		doc.Materials = append(doc.Materials, md)
	}
	for _, o := range s.Objects {
		od := objectDoc{
			Name: o.Name,
			Kind: o.Kind.String(),
			Transform: &transformDoc{
				Position: arr3(o.Transform.Position),
				Rotation: arr3(o.Transform.Rotation),
				Scale:    arr3(o.Transform.Scale),
			},
			PendingOps: o.PendingOps,
		}
		for _, uv := range o.UVChannels {
			od.UVChannels = append(od.UVChannels, uvDoc{Name: uv.Name, TexelDensity: uv.TexelDensity})
		}
		for _, sl := range o.Slots {
			od.Slots = append(od.Slots, slotDoc{Material: sl.Material})
		}
		if o.Topology != nil {
			td := &topologyDoc{Edges: o.Topology.Edges}
			for _, v := range o.Topology.Vertices {
				td.Vertices = append(td.Vertices, arr3(v))
			}
			for _, f := range o.Topology.Faces {
				td.Faces = append(td.Faces, faceDoc{Verts: f.Verts, Slot: f.Slot})
			}
			od.Topology = td
		}
		doc.Objects = append(doc.Objects, od)
	}
	return doc
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func arr3(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
