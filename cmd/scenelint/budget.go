package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/scenelint/internal/pipeline"
)

var budgetCmd = &cobra.Command{
	Use:   "budget [scene.yaml]",
	Short: "Show triangle and draw-call totals against the configured ceilings",
	Args:  cobra.ExactArgs(1),
	Run:   runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	_, src := openScene(args[0])
	report, err := pipeline.New(cfg, src, log).Validate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Scene Budget")
	fmt.Println("============")
	printBudget(&report.Budget)
	if report.Budget.OverTriangleBudget() || report.Budget.OverDrawCallBudget() {
		os.Exit(2)
	}
}
