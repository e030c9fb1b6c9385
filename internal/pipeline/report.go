package pipeline

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenelint/internal/budget"
	"github.com/Faultbox/scenelint/internal/lod"
	"github.com/Faultbox/scenelint/internal/remedy"
	"github.com/Faultbox/scenelint/internal/rules"
)

// PhaseFindings groups the findings of one validation phase, ordered
// errors first, then by subject and code, so repeated runs produce
// byte-identical reports.
type PhaseFindings struct {
	Phase    string          `yaml:"phase" json:"phase"`
	Findings []rules.Finding `yaml:"findings" json:"findings"`
}

// LODFailure records one object whose chain generation failed. The
// batch continued past it.
type LODFailure struct {
	Object string `yaml:"object" json:"object"`
	Reason string `yaml:"reason" json:"reason"`
}

// Report is the pipeline's complete output, consumable as data by a
// human or a calling agent independent of display.
type Report struct {
	State       State           `yaml:"state" json:"state"`
	ExportReady bool            `yaml:"export_ready" json:"export_ready"`
	Phases      []PhaseFindings `yaml:"phases" json:"phases"`
	Budget      budget.Report   `yaml:"budget" json:"budget"`
	Remediation *remedy.Log     `yaml:"remediation,omitempty" json:"remediation,omitempty"`
	LODChains   []lod.Chain     `yaml:"lod_chains,omitempty" json:"lod_chains,omitempty"`
	LODFailures []LODFailure    `yaml:"lod_failures,omitempty" json:"lod_failures,omitempty"`
}

// AllFindings returns every finding across phases.
func (r *Report) AllFindings() []rules.Finding {
	var out []rules.Finding
	for _, p := range r.Phases {
		out = append(out, p.Findings...)
	}
	return out
}

// UnresolvedErrors returns the error-severity findings that keep the
// scene blocked, each carrying subject and rule code so the caller can
// act without re-running diagnostics.
func (r *Report) UnresolvedErrors() []rules.Finding {
	return rules.Errors(r.AllFindings())
}

// Counts returns finding totals by severity.
func (r *Report) Counts() (errors, warnings, infos int) {
	return rules.CountBySeverity(r.AllFindings())
}

// ToYAML serializes the report.
func (r *Report) ToYAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// ToJSON serializes the report.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func sortFindings(findings []rules.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity > findings[j].Severity
		}
		if findings[i].Subject != findings[j].Subject {
			return findings[i].Subject < findings[j].Subject
		}
		return findings[i].Code < findings[j].Code
	})
}
