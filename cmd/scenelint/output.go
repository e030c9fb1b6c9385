package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/scenelint/internal/budget"
	"github.com/Faultbox/scenelint/internal/pipeline"
)

// outFormat is shared by every command that prints a report; only one
// command runs per invocation.
var outFormat string

func printReport(report *pipeline.Report) {
	switch outFormat {
	case "yaml":
		data, err := report.ToYAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
	case "json":
		data, err := report.ToJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		fmt.Println()
	default:
		printTextReport(report)
	}
}

func printTextReport(r *pipeline.Report) {
	fmt.Println("Scene Validation Report")
	fmt.Println("=======================")
	fmt.Printf("State: %s\n", r.State)
	fmt.Printf("Export ready: %v\n\n", r.ExportReady)

	for _, phase := range r.Phases {
		if len(phase.Findings) == 0 {
			continue
		}
		fmt.Printf("%s phase:\n", capitalize(phase.Phase))
		for _, f := range phase.Findings {
			fmt.Printf("  [%s] %s: %s (%s)\n", f.Severity, f.Subject, f.Message, f.Code)
		}
		fmt.Println()
	}

	errs, warns, infos := r.Counts()
	fmt.Printf("Findings: %d errors, %d warnings, %d info\n\n", errs, warns, infos)

	printBudget(&r.Budget)

	if r.Remediation != nil {
		fmt.Println("Remediation:")
		for _, e := range r.Remediation.Applied {
			fmt.Printf("  fixed %s on %s: %s -> %s\n", e.RuleCode, e.Subject, e.Before, e.After)
		}
		for _, f := range r.Remediation.Failures {
			fmt.Printf("  FAILED %s on %s: %s\n", f.RuleCode, f.Subject, f.Reason)
		}
		if r.Remediation.Skipped > 0 {
			fmt.Printf("  skipped: %d (category disabled or not fixable)\n", r.Remediation.Skipped)
		}
		fmt.Println()
	}

	if len(r.LODChains) > 0 || len(r.LODFailures) > 0 {
		fmt.Println("LOD Chains:")
		for _, chain := range r.LODChains {
			fmt.Printf("  %s:\n", chain.Source)
			for _, lvl := range chain.Levels {
				fmt.Printf("    LOD%d %s: %d triangles (%.1f%% of source)\n",
					lvl.Level, lvl.Object, lvl.Triangles, lvl.ActualRatio*100)
			}
		}
		for _, fail := range r.LODFailures {
			fmt.Printf("  %s: FAILED (%s)\n", fail.Object, fail.Reason)
		}
		fmt.Println()
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func printBudget(b *budget.Report) {
	fmt.Println("Budget:")
	fmt.Printf("  Triangles: %d / %d", b.TotalTriangles, b.TriangleCeiling)
	if b.OverBudgetBy > 0 {
		fmt.Printf("  (%d over)", b.OverBudgetBy)
	}
	fmt.Println()
	fmt.Printf("  Estimated draw calls: %d / %d\n", b.EstimatedDrawCalls, b.DrawCallCeiling)
	if len(b.TopOffenders) > 0 {
		fmt.Println("  Top offenders:")
		for _, off := range b.TopOffenders {
			fmt.Printf("    %-24s %d triangles\n", off.Name, off.Triangles)
		}
	}
	fmt.Println()
}
