package lod

import (
	"sort"

	"github.com/Faultbox/scenelint/pkg/math"
	"github.com/Faultbox/scenelint/pkg/scene"
)

// PlanarDissolve merges adjacent coplanar faces: wherever the dihedral
// angle across a manifold shared edge is below angleDeg, the two faces
// join one region, and each region is rebuilt as a single polygon from
// its boundary loop. Regions whose boundary does not form one simple
// closed loop (holes, bowties) are kept as their original faces rather
// than producing broken geometry. The input is not modified.
func PlanarDissolve(topo *scene.Topology, angleDeg float32) *scene.Topology {
	n := len(topo.Faces)
	if n == 0 {
		return topo.Clone()
	}
	threshold := math.Deg2Rad(angleDeg)

	normals := make([]math.Vec3, n)
	for i := range topo.Faces {
		normals[i] = topo.FaceNormal(i).Normalize()
	}

	// Faces bordering each edge.
	edgeFaces := make(map[[2]int][]int)
	for i, f := range topo.Faces {
		m := len(f.Verts)
		for j := 0; j < m; j++ {
			k := scene.EdgeKey(f.Verts[j], f.Verts[(j+1)%m])
			edgeFaces[k] = append(edgeFaces[k], i)
		}
	}

	// Union coplanar neighbors across manifold edges only.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, faces := range edgeFaces {
		if len(faces) != 2 {
			continue
		}
		a, b := faces[0], faces[1]
		if normals[a] == (math.Vec3{}) || normals[b] == (math.Vec3{}) {
			continue
		}
		if normals[a].AngleBetween(normals[b]) < threshold {
			parent[find(a)] = find(b)
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := find(i)
		groups[root] = append(groups[root], i)
	}
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	var faces []scene.Face
	for _, root := range roots {
		group := groups[root]
		sort.Ints(group)
		if len(group) == 1 {
			f := topo.Faces[group[0]]
			faces = append(faces, scene.Face{Verts: append([]int(nil), f.Verts...), Slot: f.Slot})
			continue
		}
		if loop, ok := boundaryLoop(topo, group); ok {
			faces = append(faces, scene.Face{Verts: loop, Slot: topo.Faces[group[0]].Slot})
			continue
		}
		for _, fi := range group {
			f := topo.Faces[fi]
			faces = append(faces, scene.Face{Verts: append([]int(nil), f.Verts...), Slot: f.Slot})
		}
	}

	return compactFaces(topo.Vertices, faces)
}

// boundaryLoop walks the directed half-edges of a face group and
// returns the single closed boundary loop, or ok=false when the
// boundary is not one simple loop.
func boundaryLoop(topo *scene.Topology, group []int) ([]int, bool) {
	inGroup := make(map[int]bool, len(group))
	for _, fi := range group {
		inGroup[fi] = true
	}

	// Directed edges interior to the group appear with their reverse;
	// boundary edges do not.
	directed := make(map[[2]int]bool)
	for _, fi := range group {
		verts := topo.Faces[fi].Verts
		m := len(verts)
		for j := 0; j < m; j++ {
			directed[[2]int{verts[j], verts[(j+1)%m]}] = true
		}
	}
	next := make(map[int]int)
	count := 0
	for e := range directed {
		if directed[[2]int{e[1], e[0]}] {
			continue
		}
		if _, dup := next[e[0]]; dup {
			return nil, false // non-manifold boundary vertex
		}
		next[e[0]] = e[1]
		count++
	}
	if count < 3 {
		return nil, false
	}

	// Deterministic start: smallest boundary vertex.
	start := -1
	for v := range next {
		if start < 0 || v < start {
			start = v
		}
	}

	loop := make([]int, 0, count)
	v := start
	for {
		loop = append(loop, v)
		nv, ok := next[v]
		if !ok {
			return nil, false
		}
		if nv == start {
			break
		}
		if len(loop) > count {
			return nil, false
		}
		v = nv
	}
	if len(loop) != count {
		return nil, false // more than one loop (hole in the region)
	}
	return loop, true
}

// compactFaces drops vertices no longer referenced by any face and
// rebuilds the edge list.
func compactFaces(verts []math.Vec3, faces []scene.Face) *scene.Topology {
	remap := make(map[int]int)
	var outVerts []math.Vec3
	out := make([]scene.Face, len(faces))
	for i, f := range faces {
		nf := scene.Face{Verts: make([]int, len(f.Verts)), Slot: f.Slot}
		for j, v := range f.Verts {
			ni, ok := remap[v]
			if !ok {
				ni = len(outVerts)
				remap[v] = ni
				outVerts = append(outVerts, verts[v])
			}
			nf.Verts[j] = ni
		}
		out[i] = nf
	}
	return scene.NewTopology(outVerts, out)
}
