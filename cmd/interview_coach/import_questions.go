package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/questionbank"
)

var (
	importCompany  string
	importURLs     []string
	importURLsFile string
)

var importQuestionsCmd = &cobra.Command{
	Use:   "import-questions",
	Short: "Import interview questions into a company question bank",
	Long:  "Fetches interview-experience pages, extracts the questions they mention and adds the new ones to the company's question bank.",
	RunE:  runImportQuestions,
}

func init() {
	importQuestionsCmd.Flags().StringVarP(&importCompany, "company", "c", "", "Company name (required)")
	importQuestionsCmd.Flags().StringSliceVar(&importURLs, "url", nil, "Page URL to import from (repeatable)")
	importQuestionsCmd.Flags().StringVar(&importURLsFile, "urls-file", "", "File with one URL per line")
	if err := importQuestionsCmd.MarkFlagRequired("company"); err != nil {
		panic(fmt.Sprintf("failed to mark company flag as required: %v", err))
	}
	importQuestionsCmd.MarkFlagsOneRequired("url", "urls-file")
	rootCmd.AddCommand(importQuestionsCmd)
}

func runImportQuestions(cmd *cobra.Command, _ []string) error {
	urls := append([]string(nil), importURLs...)
	if importURLsFile != "" {
		fromFile, err := readURLs(importURLsFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs to import")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
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

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	company, err := database.FindOrCreateCompany(ctx, importCompany)
	if err != nil {
		return err
	}

	opts := fetch.DefaultOptions()
	opts.UseBrowser = cfg.UseBrowser
	opts.Logger = logger
	fetcher := fetch.NewCachedFetcher(database, &fetch.CachedFetcherConfig{
		CacheTTL:  db.DefaultPageCacheTTL,
		Options:   opts,
		Selectors: fetch.InterviewExperienceSelectors(),
		Logger:    logger,
	})

	importer := questionbank.NewImporter(database, fetcher,
		questionbank.WithConcurrency(cfg.ImportConcurrency),
		questionbank.WithLogger(logger),
	)
	result, err := importer.Import(ctx, company.ID, urls)
	if err != nil {
		return err
	}
	printerFor(cmd).PrintImportResult(result)
	return nil
}

// readURLs reads one URL per line, skipping blanks and # comments.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URLs file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URLs file: %w", err)
	}
	return urls, nil
}
