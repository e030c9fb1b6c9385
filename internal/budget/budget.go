// Package budget aggregates per-object metrics into scene-wide totals
// and compares them against the configured hardware ceilings. The
// report is recomputed from current state on every call, never
// maintained incrementally, so it cannot go stale across remediation.
package budget

import (
	"sort"

	"github.com/Faultbox/scenelint/internal/metrics"
	"github.com/Faultbox/scenelint/pkg/scene"
)

// DefaultTopOffenders is how many objects the report ranks by triangle
// count when the caller does not ask for a specific number.
const DefaultTopOffenders = 5

// ObjectTriangles is one entry in the top-offender ranking.
type ObjectTriangles struct {
	Name      string `yaml:"name" json:"name"`
	Triangles int    `yaml:"triangles" json:"triangles"`
}

// Report holds the scene-wide budget accounting.
//
// EstimatedDrawCalls counts distinct materials referenced by at least
// one non-empty slot, assuming one draw call per unique material. This
// ignores batching, instancing, and transparency overhead (transparent
// materials cost roughly double in the target runtime); refining that
// belongs to a render-backend-specific estimator, not here.
type Report struct {
	TotalTriangles     int               `yaml:"total_triangles" json:"total_triangles"`
	TriangleCeiling    int               `yaml:"triangle_ceiling" json:"triangle_ceiling"`
	OverBudgetBy       int               `yaml:"over_budget_by" json:"over_budget_by"`
	EstimatedDrawCalls int               `yaml:"estimated_draw_calls" json:"estimated_draw_calls"`
	DrawCallCeiling    int               `yaml:"draw_call_ceiling" json:"draw_call_ceiling"`
	TopOffenders       []ObjectTriangles `yaml:"top_offenders" json:"top_offenders"`
}

// OverTriangleBudget reports whether the triangle total exceeds the
// ceiling.
func (r *Report) OverTriangleBudget() bool {
	return r.OverBudgetBy > 0
}

// OverDrawCallBudget reports whether the draw-call estimate exceeds its
// ceiling.
func (r *Report) OverDrawCallBudget() bool {
	return r.EstimatedDrawCalls > r.DrawCallCeiling
}

// Compute builds a budget report from per-object metrics and the
// scene's material bindings. Pure: safe to call at any pipeline stage,
// including before and after remediation to measure effect size.
func Compute(objMetrics []metrics.ObjectMetrics, objects []*scene.MeshObject, triangleCeiling, drawCallCeiling, topN int) Report {
	r := Report{
		TriangleCeiling: triangleCeiling,
		DrawCallCeiling: drawCallCeiling,
	}

	for _, m := range objMetrics {
		r.TotalTriangles += m.TriangleCount
	}
	if over := r.TotalTriangles - triangleCeiling; over > 0 {
		r.OverBudgetBy = over
	}

	distinct := make(map[string]bool)
	for _, o := range objects {
		if !o.HasMaterials() {
			continue
		}
		for _, name := range o.BoundMaterials() {
			distinct[name] = true
		}
	}
	r.EstimatedDrawCalls = len(distinct)

	if topN <= 0 {
		topN = DefaultTopOffenders
	}
	ranked := append([]metrics.ObjectMetrics(nil), objMetrics...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TriangleCount != ranked[j].TriangleCount {
			return ranked[i].TriangleCount > ranked[j].TriangleCount
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for _, m := range ranked {
		r.TopOffenders = append(r.TopOffenders, ObjectTriangles{Name: m.Name, Triangles: m.TriangleCount})
	}

	return r
}
