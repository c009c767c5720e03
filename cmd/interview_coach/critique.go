package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-prep/internal/critique"
	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/types"
)

var (
	critiqueFile string
	critiqueURL  string
	critiqueRole string
	critiqueJSON bool
)

var critiqueCmd = &cobra.Command{
	Use:   "critique",
	Short: "Critique a resume with the AI",
	Long:  "Reviews a plain-text resume from --file, or the resume page at --url, and prints a scored critique.",
	RunE:  runCritique,
}

func init() {
	critiqueCmd.Flags().StringVarP(&critiqueFile, "file", "f", "", "Path to a plain-text resume")
	critiqueCmd.Flags().StringVar(&critiqueURL, "url", "", "URL of an online resume")
	critiqueCmd.Flags().StringVarP(&critiqueRole, "role", "r", "", "Target role to critique against")
	critiqueCmd.Flags().BoolVar(&critiqueJSON, "json", false, "Print the critique as JSON")
	critiqueCmd.MarkFlagsMutuallyExclusive("file", "url")
	critiqueCmd.MarkFlagsOneRequired("file", "url")
	rootCmd.AddCommand(critiqueCmd)
}

func runCritique(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey() == "" {
		return fmt.Errorf("an API key for the %s provider is required", cfg.Provider())
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfigFor(cfg.Provider()), cfg.APIKey())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	opts := fetch.DefaultOptions()
	opts.UseBrowser = cfg.UseBrowser
	opts.Logger = logger
	critic := critique.NewCritic(client, critique.WithFetchOptions(opts), critique.WithLogger(logger))

	var result *types.ResumeCritique
	if critiqueURL != "" {
		result, err = critic.CritiqueURL(ctx, critiqueURL, critiqueRole)
	} else {
		text, readErr := os.ReadFile(critiqueFile)
		if readErr != nil {
			return fmt.Errorf("failed to read resume file: %w", readErr)
		}
		result, err = critic.Critique(ctx, string(text), critiqueRole)
	}
	if err != nil {
		return err
	}

	if critiqueJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printerFor(cmd).PrintCritique(result)
	return nil
}
