package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-prep/internal/interview"
)

var (
	filterInputFile string
	filterRaw       bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Clean an AI interviewer reply",
	Long:  "Reads a raw AI reply from --in or stdin, strips meta-commentary and prints the formatted message the candidate would see.",
	RunE:  runFilter,
}

func init() {
	filterCmd.Flags().StringVarP(&filterInputFile, "in", "i", "", "Path to a file with the raw reply (default stdin)")
	filterCmd.Flags().BoolVar(&filterRaw, "raw", false, "Print only the formatted text")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, _ []string) error {
	var in io.Reader = cmd.InOrStdin()
	if filterInputFile != "" {
		f, err := os.Open(filterInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		in = f
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fr := interview.FilterResponse(string(raw))
	out := cmd.OutOrStdout()
	if filterRaw {
		_, err = fmt.Fprintln(out, interview.FormatResponse(fr))
		return err
	}
	printerFor(cmd).PrintFilteredResponse(fr)
	return nil
}
