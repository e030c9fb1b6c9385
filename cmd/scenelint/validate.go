package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/scenelint/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scene.yaml]",
	Short: "Validate a scene snapshot without changing anything",
	Long: `Run every validation phase over the snapshot and print the findings
grouped by phase. The scene is never mutated. Exits 2 when error
findings would block export.`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&outFormat, "output", "o", "text", "output format: text, yaml or json")
}

func runValidate(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	_, src := openScene(args[0])
	report, err := pipeline.New(cfg, src, log).Validate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
	if len(report.UnresolvedErrors()) > 0 {
		os.Exit(2)
	}
}
