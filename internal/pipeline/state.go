// Package pipeline orchestrates the validation phases, the decision
// gate, optional remediation, and LOD generation, and assembles the
// final report.
package pipeline

import "fmt"

// State is the orchestrator's position in its fixed phase order.
type State int

const (
	StateIdle State = iota
	StateScan
	StateNaming
	StateUV
	StateMaterial
	StateModifier
	StateBudget
	StateDecision
	StateRemediation
	StateExportTrigger
	StateDone
	// StateBlocked is terminal: unresolved error-severity findings
	// remain after the optional remediation pass.
	StateBlocked
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateScan:          "scan",
	StateNaming:        "naming",
	StateUV:            "uv",
	StateMaterial:      "material",
	StateModifier:      "modifier",
	StateBudget:        "budget",
	StateDecision:      "decision",
	StateRemediation:   "remediation",
	StateExportTrigger: "export-trigger",
	StateDone:          "done",
	StateBlocked:       "blocked",
}

// String returns the lowercase state name.
func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalYAML serializes the state as its name.
func (s State) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// MarshalJSON serializes the state as its name.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// Terminal reports whether the pipeline has finished in this state.
func (s State) Terminal() bool {
	return s == StateDone || s == StateBlocked
}
