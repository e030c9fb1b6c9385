package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/scenelint/internal/pipeline"
)

var fixOut string

var fixCmd = &cobra.Command{
	Use:   "fix [scene.yaml]",
	Short: "Apply the enabled auto-fix categories and re-validate",
	Long: `Shortcut for run --fix. Applies transform normalization, naming
normalization, empty-slot removal, loose-geometry removal and duplicate
material consolidation, as enabled in the configuration, then prints
the post-fix report.`,
	Args: cobra.ExactArgs(1),
	Run:  runFixCmd,
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().StringVar(&fixOut, "write", "", "write the fixed scene snapshot to this path")
	fixCmd.Flags().StringVarP(&outFormat, "output", "o", "text", "output format: text, yaml or json")
}

func runFixCmd(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	scn, src := openScene(args[0])
	report, err := pipeline.New(cfg, src, log).Run(context.Background(), pipeline.Options{
		AutoFix: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
	if fixOut != "" {
		saveScene(scn, fixOut)
	}
	if report.State == pipeline.StateBlocked {
		os.Exit(2)
	}
}
