package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenelint/internal/budget"
	"github.com/Faultbox/scenelint/internal/config"
	"github.com/Faultbox/scenelint/internal/lod"
	"github.com/Faultbox/scenelint/internal/metrics"
	"github.com/Faultbox/scenelint/internal/remedy"
	"github.com/Faultbox/scenelint/internal/rules"
	"github.com/Faultbox/scenelint/pkg/scene"
)

// ErrSourceUnreachable marks a scene-source connectivity failure. It is
// fatal to the entire run; nothing was mutated.
var ErrSourceUnreachable = errors.New("scene source unreachable")

// Options selects the optional phases of one run.
type Options struct {
	// AutoFix enables the remediation phase for the configured
	// categories. Never applied without this explicit authorization.
	AutoFix bool
	// GenerateLODs enables chain generation after a passing decision.
	GenerateLODs bool
	// LODTargets names the source objects to decimate. Empty means the
	// budget report's top offenders.
	LODTargets []string
}

// Orchestrator runs the phases in their fixed order. Every validation
// phase is independent and re-runnable; only the decision step
// branches.
type Orchestrator struct {
	cfg *config.Config
	src scene.Source
	log *zap.Logger
}

// New creates an orchestrator; logger may be nil.
func New(cfg *config.Config, src scene.Source, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{cfg: cfg, src: src, log: logger}
}

// Run executes the pipeline. Validation phases always run to
// completion even when earlier phases find problems; the decision step
// then branches on error-severity findings, optionally remediates and
// re-validates, and either blocks or triggers the export path. The
// context is honored at the decision boundary: cancellation aborts
// before any mutation begins.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Report, error) {
	snap, err := o.snapshot()
	if err != nil {
		return nil, err
	}
	o.log.Info("pipeline started",
		zap.Int("objects", len(snap.Objects)),
		zap.Int("materials", len(snap.Materials)),
		zap.Int("textures", len(snap.Textures)))

	report := &Report{State: StateDecision}
	report.Phases, report.Budget = o.validate(snap)

	// Abort point: remediation has not touched anything yet.
	if err := ctx.Err(); err != nil {
		report.State = StateDecision
		return report, err
	}

	if opts.AutoFix {
		report.State = StateRemediation
		engine := remedy.New(o.src, o.cfg.Naming.Prefixes, o.log)
		fixLog, err := engine.Apply(report.AllFindings(), o.cfg.EnabledCategories())
		if err != nil {
			return report, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
		}
		report.Remediation = fixLog

		// Re-validate: the second pass must report at most the findings
		// the fixes could not remove.
		snap, err = o.snapshot()
		if err != nil {
			return report, err
		}
		report.Phases, report.Budget = o.validate(snap)
	}

	if unresolved := report.UnresolvedErrors(); len(unresolved) > 0 {
		report.State = StateBlocked
		for _, f := range unresolved {
			o.log.Warn("blocking finding",
				zap.String("subject", f.Subject),
				zap.String("rule", string(f.Code)))
		}
		return report, nil
	}

	report.State = StateExportTrigger
	report.ExportReady = true

	if opts.GenerateLODs {
		o.generateLODs(report, opts.LODTargets)
	}

	report.State = StateDone
	o.log.Info("pipeline finished", zap.Stringer("state", report.State))
	return report, nil
}

// Validate runs only the validation phases and returns the report
// without deciding, remediating, or generating anything. Useful for
// measuring effect size around an external change.
func (o *Orchestrator) Validate() (*Report, error) {
	snap, err := o.snapshot()
	if err != nil {
		return nil, err
	}
	report := &Report{State: StateDecision}
	report.Phases, report.Budget = o.validate(snap)
	_, warnings, _ := report.Counts()
	errCount := len(report.UnresolvedErrors())
	o.log.Info("validation complete",
		zap.Int("errors", errCount),
		zap.Int("warnings", warnings))
	return report, nil
}

// snapshot pulls the current scene state through the source. Any
// listing failure is a connectivity fault and fatal to the run.
func (o *Orchestrator) snapshot() (*scene.Scene, error) {
	objects, err := o.src.ListObjects()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	materials, err := o.src.ListMaterials()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	textures, err := o.src.ListTextures()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	return &scene.Scene{Objects: objects, Materials: materials, Textures: textures}, nil
}

// validate runs phases scan through budget, always all of them, and
// returns the findings grouped by phase plus the budget report.
// Read-only: diagnostics never mutate.
func (o *Orchestrator) validate(snap *scene.Scene) ([]PhaseFindings, budget.Report) {
	sorted := scene.SortedCopy(snap.Objects)
	objMetrics := metrics.ExtractAll(snap.Objects, o.cfg.Metrics.ExtractionWorkers)

	var scan []rules.Finding
	for _, m := range objMetrics {
		scan = append(scan, rules.CheckTopology(m)...)
	}
	for _, obj := range sorted {
		scan = append(scan, rules.CheckTransform(obj)...)
	}

	var naming []rules.Finding
	for _, obj := range sorted {
		naming = append(naming, rules.CheckObjectNaming(obj, o.cfg.Naming.Prefixes)...)
	}
	for _, mat := range snap.Materials {
		naming = append(naming, rules.CheckMaterialNaming(mat, o.cfg.Naming.Prefixes)...)
	}

	var uv []rules.Finding
	for _, obj := range sorted {
		uv = append(uv, rules.CheckUV(obj)...)
	}

	var material []rules.Finding
	for _, obj := range sorted {
		material = append(material, rules.CheckSlots(obj)...)
	}
	material = append(material, rules.CheckDuplicateMaterials(snap.Materials)...)
	for _, tex := range snap.Textures {
		material = append(material, rules.CheckTexture(tex, o.cfg.Texture.HardLimit, o.cfg.Texture.RecommendedLimit)...)
	}
	for _, mat := range snap.Materials {
		material = append(material, rules.CheckTextureBindings(mat, snap)...)
	}

	var modifier []rules.Finding
	for _, obj := range sorted {
		modifier = append(modifier, rules.CheckPendingOps(obj)...)
	}

	budgetReport := budget.Compute(objMetrics, snap.Objects,
		o.cfg.Budget.TriangleCeiling, o.cfg.Budget.DrawCallCeiling, o.cfg.Budget.TopOffenders)
	var budgetFindings []rules.Finding
	if budgetReport.OverTriangleBudget() {
		severity := rules.SeverityWarning
		if o.cfg.Budget.OverBudgetSeverity == "error" {
			severity = rules.SeverityError
		}
		budgetFindings = append(budgetFindings, rules.Finding{
			Subject:  "scene",
			Code:     rules.CodeOverBudget,
			Severity: severity,
			Message: fmt.Sprintf("%d triangles, %d over the %d ceiling",
				budgetReport.TotalTriangles, budgetReport.OverBudgetBy, budgetReport.TriangleCeiling),
		})
	}

	phases := []PhaseFindings{
		{Phase: "scan", Findings: scan},
		{Phase: "naming", Findings: naming},
		{Phase: "uv", Findings: uv},
		{Phase: "material", Findings: material},
		{Phase: "modifier", Findings: modifier},
		{Phase: "budget", Findings: budgetFindings},
	}
	for i := range phases {
		sortFindings(phases[i].Findings)
	}
	return phases, budgetReport
}

// generateLODs builds chains for the requested targets, isolating
// per-object failures so one bad source does not stop the batch.
func (o *Orchestrator) generateLODs(report *Report, targets []string) {
	if len(targets) == 0 {
		for _, off := range report.Budget.TopOffenders {
			targets = append(targets, off.Name)
		}
	}
	gen := lod.NewGenerator(o.src, o.cfg.Strategy(), o.cfg.LOD.PlanarAngleDeg, o.log)
	for _, name := range targets {
		chain, err := gen.Generate(name, o.cfg.LODSpecs())
		if err != nil {
			o.log.Warn("lod generation failed",
				zap.String("object", name), zap.Error(err))
			report.LODFailures = append(report.LODFailures, LODFailure{
				Object: name,
				Reason: err.Error(),
			})
			continue
		}
		report.LODChains = append(report.LODChains, *chain)
	}
}
