// Command seed_questions loads company question banks and coding challenges
// from a JSON or YAML seed file into the database.
//
// Usage:
//
//	go run ./cmd/tools/seed_questions --file seeds/questions.yaml
//
// Requires DATABASE_URL environment variable to be set. Seeding is idempotent:
// questions already in a bank and challenges with an existing title are skipped.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/schemas"
	embedded "github.com/jonathan/interview-prep/schemas"
)

// SeedFile is the seed document. YAML input is converted to JSON before decoding.
type SeedFile struct {
	Companies  []SeedCompany       `json:"companies"`
	Challenges []db.ChallengeInput `json:"challenges,omitempty"`
}

// SeedCompany is one company and its bank questions.
type SeedCompany struct {
	Name      string         `json:"name"`
	Domain    string         `json:"domain,omitempty"`
	Questions []SeedQuestion `json:"questions"`
}

// SeedQuestion is one bank question.
type SeedQuestion struct {
	Question   string `json:"question"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	SourceURL  string `json:"source_url,omitempty"`
}

// Store is the subset of *db.DB used for seeding.
type Store interface {
	FindOrCreateCompany(ctx context.Context, name string) (*db.Company, error)
	UpdateCompanyDomain(ctx context.Context, companyID uuid.UUID, domain string) error
	AddBankQuestion(ctx context.Context, companyID uuid.UUID, in db.BankQuestionInput) (bool, error)
	ListChallenges(ctx context.Context) ([]db.Challenge, error)
	CreateChallenge(ctx context.Context, in db.ChallengeInput) (*db.Challenge, error)
}

// Summary counts what a seed run changed.
type Summary struct {
	Companies         int
	QuestionsAdded    int
	QuestionsSkipped  int
	ChallengesAdded   int
	ChallengesSkipped int
}

var seedFile string

var rootCmd = &cobra.Command{
	Use:          "seed_questions",
	Short:        "Seed company question banks and coding challenges",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to the JSON or YAML seed file (required)")
	if err := rootCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	seed, err := LoadSeedFile(seedFile)
	if err != nil {
		return err
	}

	database, err := db.New(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	summary, err := Seed(context.Background(), database, seed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Seed Summary ===")
	fmt.Fprintf(out, "Companies:  %d\n", summary.Companies)
	fmt.Fprintf(out, "Questions:  %d added, %d already present\n", summary.QuestionsAdded, summary.QuestionsSkipped)
	fmt.Fprintf(out, "Challenges: %d added, %d already present\n", summary.ChallengesAdded, summary.ChallengesSkipped)
	return nil
}

// LoadSeedFile reads a seed file, YAML for .yaml/.yml and JSON otherwise, and
// validates it against the question bank schema.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	jsonData := data
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
		}
		if jsonData, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert seed YAML: %w", err)
		}
	}

	if err := schemas.Validate(embedded.QuestionBank, string(jsonData)); err != nil {
		return nil, err
	}

	var seed SeedFile
	if err := json.Unmarshal(jsonData, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &seed, nil
}

// Seed writes seed into store.
func Seed(ctx context.Context, store Store, seed *SeedFile) (*Summary, error) {
	summary := &Summary{}

	for _, sc := range seed.Companies {
		company, err := store.FindOrCreateCompany(ctx, sc.Name)
		if err != nil {
			return summary, fmt.Errorf("company %q: %w", sc.Name, err)
		}
		summary.Companies++

		if sc.Domain != "" {
			if err := store.UpdateCompanyDomain(ctx, company.ID, sc.Domain); err != nil {
				return summary, fmt.Errorf("company %q: %w", sc.Name, err)
			}
		}

		for _, q := range sc.Questions {
			added, err := store.AddBankQuestion(ctx, company.ID, db.BankQuestionInput{
				Question:   strings.TrimSpace(q.Question),
				Category:   q.Category,
				Difficulty: q.Difficulty,
				SourceURL:  q.SourceURL,
			})
			if err != nil {
				return summary, fmt.Errorf("company %q: %w", sc.Name, err)
			}
			if added {
				summary.QuestionsAdded++
			} else {
				summary.QuestionsSkipped++
			}
		}
	}

	if len(seed.Challenges) == 0 {
		return summary, nil
	}

	existing, err := store.ListChallenges(ctx)
	if err != nil {
		return summary, err
	}
	titles := make(map[string]bool, len(existing))
	for _, c := range existing {
		titles[strings.ToLower(c.Title)] = true
	}
	for _, in := range seed.Challenges {
		key := strings.ToLower(in.Title)
		if titles[key] {
			summary.ChallengesSkipped++
			continue
		}
		if _, err := store.CreateChallenge(ctx, in); err != nil {
			return summary, fmt.Errorf("challenge %q: %w", in.Title, err)
		}
		titles[key] = true
		summary.ChallengesAdded++
	}
	return summary, nil
}
