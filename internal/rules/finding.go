// Package rules implements the diagnostic rule table. Every rule is a
// pure function over extracted metrics and snapshot state, producing
// classified findings. Findings are data, never errors: a failing rule
// is a normal result, and severities are fixed per rule, not
// configurable per call.
package rules

import "fmt"

// Severity classifies a finding. Errors block export; warnings and
// infos are advisory.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalYAML serializes the severity as its name.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// MarshalJSON serializes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// Code identifies the rule that produced a finding.
type Code string

const (
	CodeNgon             Code = "ngon-presence"
	CodeNonManifold      Code = "non-manifold-edges"
	CodeLooseGeometry    Code = "loose-geometry"
	CodeUnappliedScale   Code = "unapplied-scale"
	CodeUnappliedRot     Code = "unapplied-rotation"
	CodeMissingUV0       Code = "missing-uv-channel-0"
	CodeMissingUV1       Code = "missing-uv-channel-1"
	CodeNaming           Code = "naming-convention"
	CodeEmptySlot        Code = "empty-material-slot"
	CodeExcessMaterials  Code = "excess-material-count"
	CodeNoMaterial       Code = "no-material"
	CodeTextureOversized Code = "texture-oversized"
	CodeTextureLarge     Code = "texture-above-recommended"
	CodeColorSpace       Code = "texture-color-space-mismatch"
	CodeDuplicateMat     Code = "duplicate-material"
	CodePendingOps       Code = "pending-operations"
	CodeOverBudget       Code = "triangle-budget-exceeded"
)

// Finding is one detected issue. Findings are immutable values,
// produced fresh on every validation pass.
type Finding struct {
	// Subject names the object, material, or texture the finding is
	// about.
	Subject     string   `yaml:"subject" json:"subject"`
	Code        Code     `yaml:"code" json:"code"`
	Severity    Severity `yaml:"severity" json:"severity"`
	Message     string   `yaml:"message" json:"message"`
	AutoFixable bool     `yaml:"auto_fixable" json:"auto_fixable"`
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) (errors, warnings, infos int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return
}

// Errors returns only the error-severity findings.
func Errors(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}
