package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/scenelint/internal/pipeline"
)

var lodOut string

var lodCmd = &cobra.Command{
	Use:   "lod [scene.yaml] [object...]",
	Short: "Generate LOD chains for the named objects",
	Long: `Validate the scene and, if nothing blocks, generate a LOD chain for
each named source object using the configured ratio schedule and
decimation strategy. With no objects named, the budget report's top
offenders are decimated.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLOD,
}

func init() {
	rootCmd.AddCommand(lodCmd)
	lodCmd.Flags().StringVar(&lodOut, "write", "", "write the scene with generated LODs to this path")
	lodCmd.Flags().StringVarP(&outFormat, "output", "o", "text", "output format: text, yaml or json")
}

func runLOD(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	scn, src := openScene(args[0])
	report, err := pipeline.New(cfg, src, log).Run(context.Background(), pipeline.Options{
		GenerateLODs: true,
		LODTargets:   args[1:],
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
	if lodOut != "" {
		saveScene(scn, lodOut)
	}
	if report.State == pipeline.StateBlocked || len(report.LODFailures) > 0 {
		os.Exit(2)
	}
}
