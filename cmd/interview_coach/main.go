// Package main provides the interview_coach CLI: the HTTP API server plus
// local tools for previewing prompts, filtering replies, critiquing resumes
// and importing company question banks.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/observability"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "interview_coach",
	Short:         "AI interview preparation server and tools",
	Long:          "interview_coach runs mock technical interviews, grades coding challenges and critiques resumes via REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config, applies the
// environment and the --verbose flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.Verbose)
}

func printerFor(cmd *cobra.Command) *observability.Printer {
	return observability.NewPrinter(cmd.OutOrStdout())
}
