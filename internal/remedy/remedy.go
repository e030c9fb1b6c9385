// Package remedy applies the fixed set of reversible, side-effect-scoped
// auto-fixes. It acts only on findings marked auto-fixable, only for
// categories the caller enabled, and never without being invoked. Every
// mutation goes through the scene source and is recorded in the
// remediation log for audit and external undo.
package remedy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenelint/internal/rules"
	"github.com/Faultbox/scenelint/pkg/scene"
)

// Category is one auto-fix category that can be enabled per run.
type Category string

const (
	CategoryTransform  Category = "transform-normalization"
	CategoryNaming     Category = "naming-normalization"
	CategoryEmptySlots Category = "empty-slot-removal"
	CategoryLoose      Category = "loose-geometry-removal"
	CategoryDuplicates Category = "duplicate-material-consolidation"
)

// AllCategories lists every fix category in a stable order.
func AllCategories() []Category {
	return []Category{
		CategoryTransform,
		CategoryNaming,
		CategoryEmptySlots,
		CategoryLoose,
		CategoryDuplicates,
	}
}

// ParseCategory validates a category name from configuration.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown fix category %q", s)
}

// CategorySet is the set of enabled categories.
type CategorySet map[Category]bool

// NewCategorySet builds a set from category names.
func NewCategorySet(names []string) (CategorySet, error) {
	set := make(CategorySet, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		set[c] = true
	}
	return set, nil
}

// categoryForCode maps a rule code to the fix category that resolves
// it. Codes with no mapping (n-gons, budget overruns, missing UVs,
// pending operations) have no safe automatic resolution.
func categoryForCode(code rules.Code) (Category, bool) {
	switch code {
	case rules.CodeUnappliedScale, rules.CodeUnappliedRot:
		return CategoryTransform, true
	case rules.CodeNaming:
		return CategoryNaming, true
	case rules.CodeEmptySlot:
		return CategoryEmptySlots, true
	case rules.CodeLooseGeometry:
		return CategoryLoose, true
	case rules.CodeDuplicateMat:
		return CategoryDuplicates, true
	}
	return "", false
}

// Entry records one applied fix with before/after summaries.
type Entry struct {
	RuleCode rules.Code `yaml:"rule_code" json:"rule_code"`
	Subject  string     `yaml:"subject" json:"subject"`
	Before   string     `yaml:"before" json:"before"`
	After    string     `yaml:"after" json:"after"`
}

// Failure records one fix that could not complete. The target was left
// unchanged; the rest of the batch continued.
type Failure struct {
	RuleCode rules.Code `yaml:"rule_code" json:"rule_code"`
	Subject  string     `yaml:"subject" json:"subject"`
	Reason   string     `yaml:"reason" json:"reason"`
}

// Log is the audit record of one remediation pass.
type Log struct {
	Applied  []Entry   `yaml:"applied" json:"applied"`
	Failures []Failure `yaml:"failures" json:"failures"`
	Skipped  int       `yaml:"skipped" json:"skipped"`
}

// Engine applies fixes through a scene source.
type Engine struct {
	src      scene.Source
	prefixes map[string]string
	log      *zap.Logger
}

// New creates an engine. prefixes is the naming table used by the
// naming-normalization category; logger may be nil.
func New(src scene.Source, prefixes map[string]string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{src: src, prefixes: prefixes, log: logger}
}

// Apply runs every enabled, auto-fixable fix from findings. One fix
// either completes entirely or leaves its target unchanged; a failed
// fix is logged and the batch continues. The returned error is reserved
// for source-level faults that invalidate the whole pass (the initial
// listing failing).
func (e *Engine) Apply(findings []rules.Finding, enabled CategorySet) (*Log, error) {
	objects, err := e.src.ListObjects()
	if err != nil {
		return nil, fmt.Errorf("remediation: listing objects: %w", err)
	}
	materials, err := e.src.ListMaterials()
	if err != nil {
		return nil, fmt.Errorf("remediation: listing materials: %w", err)
	}

	byName := make(map[string]*scene.MeshObject, len(objects))
	for _, o := range objects {
		byName[o.Name] = o
	}

	log := &Log{}
	// A transform bake resolves both the scale and the rotation finding
	// of its object in one mutation; don't re-apply for the second one.
	done := make(map[string]bool)

	// Duplicate consolidation resolves its group by the material names
	// the findings carry. Naming normalization rewrites those names, so
	// consolidation has to run before any rename; otherwise the group
	// lookup comes up empty and the fix fails. Order within each half
	// is preserved.
	ordered := make([]rules.Finding, 0, len(findings))
	for _, f := range findings {
		if cat, ok := categoryForCode(f.Code); ok && cat == CategoryDuplicates {
			ordered = append(ordered, f)
		}
	}
	for _, f := range findings {
		if cat, ok := categoryForCode(f.Code); !ok || cat != CategoryDuplicates {
			ordered = append(ordered, f)
		}
	}

	for _, f := range ordered {
		if !f.AutoFixable {
			log.Skipped++
			continue
		}
		cat, ok := categoryForCode(f.Code)
		if !ok || !enabled[cat] {
			log.Skipped++
			continue
		}
		key := string(cat) + "/" + f.Subject
		if done[key] {
			continue
		}
		done[key] = true

		entry, err := e.applyOne(f, cat, byName, materials, objects)
		if err != nil {
			e.log.Warn("fix failed",
				zap.String("rule", string(f.Code)),
				zap.String("subject", f.Subject),
				zap.Error(err))
			log.Failures = append(log.Failures, Failure{
				RuleCode: f.Code,
				Subject:  f.Subject,
				Reason:   err.Error(),
			})
			continue
		}
		e.log.Info("fix applied",
			zap.String("rule", string(f.Code)),
			zap.String("subject", entry.Subject),
			zap.String("before", entry.Before),
			zap.String("after", entry.After))
		log.Applied = append(log.Applied, entry)
	}
	return log, nil
}

func (e *Engine) applyOne(f rules.Finding, cat Category, byName map[string]*scene.MeshObject, materials []*scene.Material, objects []*scene.MeshObject) (Entry, error) {
	switch cat {
	case CategoryTransform:
		obj, ok := byName[f.Subject]
		if !ok {
			return Entry{}, fmt.Errorf("object %q: %w", f.Subject, scene.ErrNotFound)
		}
		return e.fixTransform(f, obj)
	case CategoryNaming:
		if obj, ok := byName[f.Subject]; ok {
			return e.fixObjectName(f, obj, byName)
		}
		return e.fixMaterialName(f, materials)
	case CategoryEmptySlots:
		obj, ok := byName[f.Subject]
		if !ok {
			return Entry{}, fmt.Errorf("object %q: %w", f.Subject, scene.ErrNotFound)
		}
		return e.fixEmptySlots(f, obj)
	case CategoryLoose:
		obj, ok := byName[f.Subject]
		if !ok {
			return Entry{}, fmt.Errorf("object %q: %w", f.Subject, scene.ErrNotFound)
		}
		return e.fixLooseGeometry(f, obj)
	case CategoryDuplicates:
		return e.fixDuplicateMaterials(f, materials, objects)
	}
	return Entry{}, fmt.Errorf("unhandled category %q", cat)
}
