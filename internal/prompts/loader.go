// Package prompts provides the LLM prompt templates used by the interviewer,
// the resume critic and the challenge evaluator. Templates live in embedded
// JSON files keyed by name and use {{.Key}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	indexOnce sync.Once
	index     map[string]map[string]string
	indexErr  error
)

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

// loadIndex parses every embedded prompt file once.
func loadIndex() (map[string]map[string]string, error) {
	indexOnce.Do(func() {
		names, err := fs.Glob(promptFiles, "*.json")
		if err != nil {
			indexErr = err
			return
		}
		idx := make(map[string]map[string]string, len(names))
		for _, name := range names {
			data, err := promptFiles.ReadFile(name)
			if err != nil {
				indexErr = fmt.Errorf("failed to read prompt file %s: %w", name, err)
				return
			}
			var file map[string]string
			if err := json.Unmarshal(data, &file); err != nil {
				indexErr = fmt.Errorf("failed to parse prompt file %s: %w", name, err)
				return
			}
			idx[name] = file
		}
		index = idx
	})
	return index, indexErr
}

// Get returns the template stored under key in filename (e.g. "interview.json").
func Get(filename, key string) (string, error) {
	idx, err := loadIndex()
	if err != nil {
		return "", err
	}
	file, ok := idx[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	prompt, ok := file[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for templates that must exist; it panics otherwise.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders with values from data.
// Substitution is a single pass, so placeholder text inside a value is left alone.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Placeholders lists the distinct placeholder names in template, in order of
// first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Render loads a template and fills it from data. Every placeholder must have
// a value; an empty string counts.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	var missing []string
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: missing values for %s", filename, key, strings.Join(missing, ", "))
	}
	return Format(template, data), nil
}

// List returns the template keys in filename, sorted.
func List(filename string) ([]string, error) {
	idx, err := loadIndex()
	if err != nil {
		return nil, err
	}
	file, ok := idx[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}
	keys := make([]string, 0, len(file))
	for key := range file {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
