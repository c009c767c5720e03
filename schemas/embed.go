// Package schemas embeds the JSON Schemas for AI-produced and imported documents.
package schemas

import "embed"

// Schema file names.
const (
	ResumeCritique    = "resume_critique.schema.json"
	ChallengeFeedback = "challenge_feedback.schema.json"
	QuestionBank      = "question_bank.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the raw content of the named schema file.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the embedded schema files.
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
