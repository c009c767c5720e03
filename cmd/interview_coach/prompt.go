package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-prep/internal/interview"
)

var (
	promptTitle      string
	promptTechnology string
	promptExperience string
	promptDifficulty string
	promptPhase      string
	promptMessage    string
	promptAsked      []string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Preview the prompt sent for an interview turn",
	Long:  "Renders the interviewer prompt for the given interview metadata and phase. Without --message the opening greeting is rendered.",
	RunE:  runPrompt,
}

func init() {
	promptCmd.Flags().StringVar(&promptTitle, "title", "Software Engineer", "Interview title")
	promptCmd.Flags().StringVar(&promptTechnology, "technology", "Go", "Technology under discussion")
	promptCmd.Flags().StringVar(&promptExperience, "experience", "mid", "Candidate experience level")
	promptCmd.Flags().StringVar(&promptDifficulty, "difficulty", "medium", "Interview difficulty")
	promptCmd.Flags().StringVar(&promptPhase, "phase", string(interview.PhaseIntroduction), "Interview phase (introduction, technical, experience, conclusion)")
	promptCmd.Flags().StringVarP(&promptMessage, "message", "m", "", "Candidate message for a follow-up turn")
	promptCmd.Flags().StringSliceVar(&promptAsked, "asked", nil, "Questions already asked (repeatable)")
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	phase := interview.Phase(promptPhase)
	if !phase.Valid() {
		return fmt.Errorf("unknown phase %q", promptPhase)
	}

	iv := interview.Interview{
		Title:           promptTitle,
		Technology:      promptTechnology,
		ExperienceLevel: promptExperience,
		DifficultyLevel: promptDifficulty,
	}
	c := interview.NewContext().UpdatePhase(phase)
	for _, q := range promptAsked {
		c = c.AddAskedQuestion(q)
	}
	if promptMessage != "" {
		c = c.UpdateUserProfile(interview.ExtractProfile(promptMessage))
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), interview.BuildPrompt(iv, c, promptMessage))
	return err
}
