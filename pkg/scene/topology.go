package scene

import "github.com/Faultbox/scenelint/pkg/math"

// Face is one polygon, referencing vertices by index. Slot selects the
// material slot the face is assigned to.
type Face struct {
	Verts []int
	Slot  int
}

// Topology is a mesh's structural snapshot: vertex positions, the full
// edge list, and the face list. The edge list is explicit so loose edges
// (bordering no face) survive round trips through the scene source.
type Topology struct {
	Vertices []math.Vec3
	Edges    [][2]int
	Faces    []Face
}

// NewTopology builds a topology from vertices and faces, deriving the
// edge list from the face loops. Loose edges must be appended by the
// caller afterwards.
func NewTopology(verts []math.Vec3, faces []Face) *Topology {
	t := &Topology{Vertices: verts, Faces: faces}
	t.Edges = derivedEdges(faces)
	return t
}

// EdgeKey orders an undirected edge's endpoints so it can be used as a
// map key.
func EdgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func derivedEdges(faces []Face) [][2]int {
	seen := make(map[[2]int]bool)
	var edges [][2]int
	for _, f := range faces {
		n := len(f.Verts)
		for i := 0; i < n; i++ {
			k := EdgeKey(f.Verts[i], f.Verts[(i+1)%n])
			if !seen[k] {
				seen[k] = true
				edges = append(edges, k)
			}
		}
	}
	return edges
}

// Clone returns a deep copy.
func (t *Topology) Clone() *Topology {
	c := &Topology{
		Vertices: append([]math.Vec3(nil), t.Vertices...),
		Edges:    make([][2]int, len(t.Edges)),
		Faces:    make([]Face, len(t.Faces)),
	}
	copy(c.Edges, t.Edges)
	for i, f := range t.Faces {
		c.Faces[i] = Face{Verts: append([]int(nil), f.Verts...), Slot: f.Slot}
	}
	return c
}

// TriangleCount returns the fan-triangulation estimate
// sum(max(len(face)-2, 0)) over all faces. This is the count budget
// thresholds are calibrated against; an actual triangulation pass
// (e.g. ear clipping of a non-convex n-gon) can produce a different
// number, so it must not be read as exact.
func (t *Topology) TriangleCount() int {
	total := 0
	for _, f := range t.Faces {
		if n := len(f.Verts) - 2; n > 0 {
			total += n
		}
	}
	return total
}

// FaceEdgeCounts returns, for every edge appearing in a face loop, the
// number of faces bordering it. Edges from the explicit edge list that
// border no face do not appear in the result.
func (t *Topology) FaceEdgeCounts() map[[2]int]int {
	counts := make(map[[2]int]int)
	for _, f := range t.Faces {
		n := len(f.Verts)
		for i := 0; i < n; i++ {
			counts[EdgeKey(f.Verts[i], f.Verts[(i+1)%n])]++
		}
	}
	return counts
}

// FaceNormal returns the unnormalized normal of face i computed from
// its first three vertices, or the zero vector for degenerate faces.
func (t *Topology) FaceNormal(i int) math.Vec3 {
	f := t.Faces[i]
	if len(f.Verts) < 3 {
		return math.Vec3{}
	}
	v0 := t.Vertices[f.Verts[0]]
	v1 := t.Vertices[f.Verts[1]]
	v2 := t.Vertices[f.Verts[2]]
	return v1.Sub(v0).Cross(v2.Sub(v0))
}
