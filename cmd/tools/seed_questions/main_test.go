package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-prep/internal/db"
)

type fakeStore struct {
	companies  map[string]*db.Company
	domains    map[uuid.UUID]string
	questions  map[uuid.UUID]map[string]bool
	challenges []db.Challenge
	failOn     string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies: map[string]*db.Company{},
		domains:   map[uuid.UUID]string{},
		questions: map[uuid.UUID]map[string]bool{},
	}
}

func (f *fakeStore) FindOrCreateCompany(_ context.Context, name string) (*db.Company, error) {
	if name == f.failOn {
		return nil, errors.New("boom")
	}
	key := strings.ToLower(name)
	if c, ok := f.companies[key]; ok {
		return c, nil
	}
	c := &db.Company{ID: uuid.New(), Name: name}
	f.companies[key] = c
	return c, nil
}

func (f *fakeStore) UpdateCompanyDomain(_ context.Context, id uuid.UUID, domain string) error {
	f.domains[id] = domain
	return nil
}

func (f *fakeStore) AddBankQuestion(_ context.Context, id uuid.UUID, in db.BankQuestionInput) (bool, error) {
	if f.questions[id] == nil {
		f.questions[id] = map[string]bool{}
	}
	key := strings.ToLower(in.Question)
	if f.questions[id][key] {
		return false, nil
	}
	f.questions[id][key] = true
	return true, nil
}

func (f *fakeStore) ListChallenges(context.Context) ([]db.Challenge, error) {
	return f.challenges, nil
}

func (f *fakeStore) CreateChallenge(_ context.Context, in db.ChallengeInput) (*db.Challenge, error) {
	c := db.Challenge{ID: uuid.New(), Title: in.Title, Description: in.Description, Difficulty: in.Difficulty}
	f.challenges = append(f.challenges, c)
	return &c, nil
}

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeedFile_YAML(t *testing.T) {
	seed, err := LoadSeedFile(filepath.Join("..", "..", "..", "seeds", "questions.yaml"))
	require.NoError(t, err)

	require.Len(t, seed.Companies, 2)
	assert.Equal(t, "Acme", seed.Companies[0].Name)
	assert.Equal(t, "acme.com", seed.Companies[0].Domain)
	assert.Len(t, seed.Companies[0].Questions, 2)
	require.Len(t, seed.Challenges, 2)
	assert.Contains(t, seed.Challenges[0].StarterCode, "func twoSum")
}

func TestLoadSeedFile_JSON(t *testing.T) {
	path := writeSeed(t, "seed.json", `{"companies":[{"name":"Initech","questions":[{"question":"What is a mutex?"}]}]}`)

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, seed.Companies, 1)
	assert.Equal(t, "What is a mutex?", seed.Companies[0].Questions[0].Question)
	assert.Empty(t, seed.Challenges)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"missing companies", "seed.json", `{"challenges":[]}`},
		{"bad difficulty", "seed.yaml", "companies:\n  - name: Acme\n    questions:\n      - question: Explain CAP.\n        difficulty: brutal\n"},
		{"challenge without title", "seed.json", `{"companies":[],"challenges":[{"description":"x","difficulty":"easy"}]}`},
		{"malformed yaml", "seed.yml", "companies: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeed(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestSeed(t *testing.T) {
	seed, err := LoadSeedFile(filepath.Join("..", "..", "..", "seeds", "questions.yaml"))
	require.NoError(t, err)
	store := newFakeStore()

	summary, err := Seed(context.Background(), store, seed)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Companies: 2, QuestionsAdded: 3, ChallengesAdded: 2}, summary)
	assert.Equal(t, "acme.com", store.domains[store.companies["acme"].ID])
	assert.NotContains(t, store.domains, store.companies["globex"].ID)

	// A second run changes nothing.
	summary, err = Seed(context.Background(), store, seed)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Companies: 2, QuestionsSkipped: 3, ChallengesSkipped: 2}, summary)
	assert.Len(t, store.challenges, 2)
}

func TestSeed_StoreError(t *testing.T) {
	store := newFakeStore()
	store.failOn = "Globex"
	seed := &SeedFile{Companies: []SeedCompany{{Name: "Acme"}, {Name: "Globex"}}}

	summary, err := Seed(context.Background(), store, seed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `company "Globex"`)
	assert.Equal(t, 1, summary.Companies)
}
