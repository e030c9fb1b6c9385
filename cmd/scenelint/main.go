package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/scenelint/internal/config"
	"github.com/Faultbox/scenelint/internal/logger"
	"github.com/Faultbox/scenelint/pkg/scene"
)

var (
	cfgPath  string
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "scenelint",
	Short: "Validate, auto-fix and decimate real-time 3D scene snapshots",
	Long: `scenelint runs a scene snapshot through a fixed validation pipeline:
geometry scan, naming, UV, material, modifier and budget checks. Error
findings block the export path; the fix and lod commands can remediate
fixable findings and generate LOD chains for heavy objects.`,
	Version: "1.0.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default ./scenelint.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override configured log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "override configured log file")
}

// loadConfig resolves the effective configuration for a run, applying
// the logging overrides from the persistent flags.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.LogFile = logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cfg *config.Config) *zap.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
}

// openScene loads a snapshot file and wraps it in an in-memory source
// so the pipeline mutates the loaded copy.
func openScene(path string) (*scene.Scene, *scene.MemorySource) {
	s, err := scene.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene %s: %v\n", path, err)
		os.Exit(1)
	}
	return s, scene.NewMemorySource(s)
}

func saveScene(s *scene.Scene, path string) {
	if err := scene.SaveFile(s, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing scene %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("\nScene written to %s\n", path)
}
