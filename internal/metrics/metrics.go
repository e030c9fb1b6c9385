// Package metrics computes per-object geometric facts from topology
// snapshots. Extraction is a pure function of the snapshot; nothing
// here mutates scene state.
package metrics

import (
	"sync"

	"github.com/Faultbox/scenelint/pkg/scene"
)

// ObjectMetrics holds the extracted facts for one object.
//
// TriangleCount is the fan-triangulation estimate (see
// Topology.TriangleCount); budget ceilings are calibrated against it.
type ObjectMetrics struct {
	Name                 string
	VertexCount          int
	TriangleCount        int
	NgonCount            int
	NonManifoldEdgeCount int
	LooseVertexCount     int
	LooseEdgeCount       int
}

// Extract computes metrics for a single topology snapshot.
func Extract(name string, t *scene.Topology) ObjectMetrics {
	m := ObjectMetrics{
		Name:          name,
		VertexCount:   len(t.Vertices),
		TriangleCount: t.TriangleCount(),
	}

	for _, f := range t.Faces {
		if len(f.Verts) > 4 {
			m.NgonCount++
		}
	}

	faceCounts := t.FaceEdgeCounts()
	// A manifold edge borders exactly two faces. Border edges (one
	// face) and fan edges (three or more) both count as non-manifold.
	for _, n := range faceCounts {
		if n != 2 {
			m.NonManifoldEdgeCount++
		}
	}

	incident := make([]int, len(t.Vertices))
	for _, e := range t.Edges {
		if e[0] >= 0 && e[0] < len(incident) {
			incident[e[0]]++
		}
		if e[1] >= 0 && e[1] < len(incident) {
			incident[e[1]]++
		}
		if faceCounts[scene.EdgeKey(e[0], e[1])] == 0 {
			m.LooseEdgeCount++
		}
	}
	// Face loops count toward incidence too. A snapshot may list only
	// its loose edges explicitly; face-bound vertices are never loose.
	for _, f := range t.Faces {
		for _, v := range f.Verts {
			if v >= 0 && v < len(incident) {
				incident[v]++
			}
		}
	}
	for _, n := range incident {
		if n == 0 {
			m.LooseVertexCount++
		}
	}

	return m
}

// ExtractAll runs extraction across all mesh objects using up to
// workers goroutines. Per-object extraction is independent, so the
// fan-out is safe; results are returned sorted by object name so output
// stays reproducible regardless of scheduling.
func ExtractAll(objects []*scene.MeshObject, workers int) []ObjectMetrics {
	meshes := make([]*scene.MeshObject, 0, len(objects))
	for _, o := range objects {
		if o.HasTopology() {
			meshes = append(meshes, o)
		}
	}
	meshes = scene.SortedCopy(meshes)

	if workers < 1 {
		workers = 1
	}
	if workers > len(meshes) {
		workers = len(meshes)
	}

	results := make([]ObjectMetrics, len(meshes))
	if workers <= 1 {
		for i, o := range meshes {
			results[i] = Extract(o.Name, o.Topology)
		}
		return results
	}

	jobs := make(chan int, len(meshes))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = Extract(meshes[idx].Name, meshes[idx].Topology)
			}
		}()
	}
	for i := range meshes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
