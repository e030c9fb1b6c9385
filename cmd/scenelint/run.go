package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/scenelint/internal/pipeline"
)

var (
	runFix     bool
	runLODs    bool
	runTargets []string
	runOut     string
)

var runCmd = &cobra.Command{
	Use:   "run [scene.yaml]",
	Short: "Run the full pipeline: validate, optionally fix and generate LODs",
	Long: `Run validation, then branch on the findings: with --fix the enabled
auto-fix categories are applied and the scene re-validated; a clean
second pass triggers the export path and, with --lods, LOD chain
generation. Error findings that survive remediation block the run.`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runFix, "fix", false, "apply the enabled auto-fix categories")
	runCmd.Flags().BoolVar(&runLODs, "lods", false, "generate LOD chains after a passing decision")
	runCmd.Flags().StringSliceVar(&runTargets, "target", nil, "LOD source object (repeatable; default: top budget offenders)")
	runCmd.Flags().StringVar(&runOut, "write", "", "write the resulting scene snapshot to this path")
	runCmd.Flags().StringVarP(&outFormat, "output", "o", "text", "output format: text, yaml or json")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	scn, src := openScene(args[0])
	report, err := pipeline.New(cfg, src, log).Run(context.Background(), pipeline.Options{
		AutoFix:      runFix,
		GenerateLODs: runLODs,
		LODTargets:   runTargets,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
	if runOut != "" {
		saveScene(scn, runOut)
	}
	if report.State == pipeline.StateBlocked {
		os.Exit(2)
	}
}
