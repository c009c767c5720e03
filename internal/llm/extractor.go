// Package llm - extractor.go provides schema-described structured JSON prompts.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ResumeCritique")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
	// Instructions replace the default verbatim-extraction rules when set.
	Instructions []string
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	instructions := schema.Instructions
	if len(instructions) == 0 {
		instructions = []string{"Extract information directly from the text, do not invent or summarize."}
	}
	for _, line := range instructions {
		sb.WriteString("- " + line + "\n")
	}
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ResumeCritiqueSchema returns the schema for structured resume reviews.
// description is the rendered reviewer preamble, usually from the critique prompt file.
func ResumeCritiqueSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "ResumeCritique",
		Description: description,
		Fields: []SchemaField{
			{
				Name:        "overall_score",
				Type:        "integer",
				Description: "Overall resume quality from 0 to 100",
				Required:    true,
			},
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "Two or three sentence overall assessment",
				Required:    true,
			},
			{
				Name:        "strengths",
				Type:        "[\"string\"]",
				Description: "What the resume does well, one point per entry",
				Required:    true,
			},
			{
				Name:        "improvements",
				Type:        "[\"string\"]",
				Description: "Concrete, actionable changes, most important first",
				Required:    true,
			},
			{
				Name:        "section_feedback",
				Type:        "{\"section\": \"feedback\"}",
				Description: "Short feedback keyed by resume section (summary, experience, skills, education, projects)",
				Required:    false,
			},
		},
		Instructions: []string{
			"Base every point on the resume text; do not invent experience the candidate does not list.",
			"Be specific: quote or name the bullet or section you are referring to.",
		},
	}
}
