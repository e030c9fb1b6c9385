package lod

import (
	"github.com/Faultbox/scenelint/pkg/math"
	"github.com/Faultbox/scenelint/pkg/scene"
)

// CollapseDecimate reduces a mesh to approximately target triangles by
// repeatedly collapsing the shortest surviving edge to its midpoint.
// N-gons are fan-triangulated first, so the output is pure triangles.
// The result retains manifoldness where the input was manifold, up to
// the usual collapse caveats near borders. The input is not modified.
//
// Shortest-edge-first is a deliberate heuristic: it removes the densest
// detail first and is deterministic (ties break on vertex indices),
// which keeps reports reproducible. The achieved count can overshoot
// the target slightly since one collapse may remove two triangles.
func CollapseDecimate(topo *scene.Topology, target int) *scene.Topology {
	verts := append([]math.Vec3(nil), topo.Vertices...)
	var tris [][3]int
	var slots []int
	for _, f := range topo.Faces {
		for i := 1; i < len(f.Verts)-1; i++ {
			tris = append(tris, [3]int{f.Verts[0], f.Verts[i], f.Verts[i+1]})
			slots = append(slots, f.Slot)
		}
	}

	for len(tris) > target {
		a, b, ok := shortestEdge(verts, tris)
		if !ok {
			break
		}

		// Merge b into a at the midpoint.
		verts[a] = verts[a].Midpoint(verts[b])
		kept := tris[:0]
		keptSlots := slots[:0]
		for i, tri := range tris {
			for j, v := range tri {
				if v == b {
					tri[j] = a
				}
			}
			if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
				continue
			}
			kept = append(kept, tri)
			keptSlots = append(keptSlots, slots[i])
		}
		if len(kept) == len(tris) {
			// Collapse removed nothing; bail rather than spin.
			break
		}
		tris = kept
		slots = keptSlots
	}

	return compact(verts, tris, slots)
}

// shortestEdge scans the current triangle set for the shortest edge,
// breaking length ties by vertex index for determinism.
func shortestEdge(verts []math.Vec3, tris [][3]int) (a, b int, ok bool) {
	best := float32(-1)
	for _, tri := range tris {
		for i := 0; i < 3; i++ {
			va, vb := tri[i], tri[(i+1)%3]
			if va > vb {
				va, vb = vb, va
			}
			l := verts[va].Distance(verts[vb])
			if best < 0 || l < best ||
				(l == best && (va < a || (va == a && vb < b))) {
				best = l
				a, b = va, vb
				ok = true
			}
		}
	}
	return a, b, ok
}

// compact drops unreferenced vertices and rebuilds the topology.
func compact(verts []math.Vec3, tris [][3]int, slots []int) *scene.Topology {
	remap := make(map[int]int)
	var outVerts []math.Vec3
	faces := make([]scene.Face, len(tris))
	for i, tri := range tris {
		f := scene.Face{Verts: make([]int, 3), Slot: slots[i]}
		for j, v := range tri {
			ni, ok := remap[v]
			if !ok {
				ni = len(outVerts)
				remap[v] = ni
				outVerts = append(outVerts, verts[v])
			}
			f.Verts[j] = ni
		}
		faces[i] = f
	}
	return scene.NewTopology(outVerts, faces)
}
