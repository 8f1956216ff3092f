package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"repolens/internal/citations"
	"repolens/internal/classify"
	"repolens/internal/engine"
	"repolens/internal/selection"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// ClassifyResponseCLI is the classify command output.
type ClassifyResponseCLI struct {
	Query string `json:"query"`
	classify.Classification
}

// SelectResponseCLI is the select command output.
type SelectResponseCLI struct {
	Query  string           `json:"query"`
	Intent classify.Intent  `json:"intent"`
	Result selection.Result `json:"result"`
}

// ContextResponseCLI is the context command output.
type ContextResponseCLI struct {
	Query     string   `json:"query"`
	Files     []string `json:"files"`
	Omitted   []string `json:"omitted,omitempty"`
	Tokens    int      `json:"tokens"`
	Truncated bool     `json:"truncated"`
	Document  string   `json:"document"`
}

// ValidateResponseCLI is the validate command output.
type ValidateResponseCLI struct {
	Result citations.Result `json:"result"`
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *ClassifyResponseCLI:
		return formatClassifyHuman(v)
	case *SelectResponseCLI:
		return formatSelectHuman(v)
	case *ContextResponseCLI:
		return formatContextHuman(v)
	case *engine.Answer:
		return formatAnswerHuman(v)
	case *ValidateResponseCLI:
		return formatValidateHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatClassifyHuman(resp *ClassifyResponseCLI) (string, error) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Query: %s\n", resp.Query))
	b.WriteString(fmt.Sprintf("Intent: %s\n", resp.Intent))
	if len(resp.Keywords) > 0 {
		b.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(resp.Keywords, ", ")))
	}
	return b.String(), nil
}

func formatSelectHuman(resp *SelectResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Selection for: %s\n", resp.Query))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Intent: %s\n", resp.Intent))
	b.WriteString(fmt.Sprintf("Source: %s\n", resp.Result.Source))
	b.WriteString(fmt.Sprintf("Files: %d\n\n", len(resp.Result.Files)))

	scoreByPath := make(map[string]int, len(resp.Result.Scored))
	for _, sf := range resp.Result.Scored {
		scoreByPath[sf.Path] = sf.Score
	}
	for i, path := range resp.Result.Files {
		if score, ok := scoreByPath[path]; ok {
			b.WriteString(fmt.Sprintf("  %d. %s (score %d)\n", i+1, path, score))
		} else {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, path))
		}
	}
	return b.String(), nil
}

func formatContextHuman(resp *ContextResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Context for: %s\n", resp.Query))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Files included: %d\n", len(resp.Files)))
	if len(resp.Omitted) > 0 {
		b.WriteString(fmt.Sprintf("Files omitted: %d\n", len(resp.Omitted)))
	}
	b.WriteString(fmt.Sprintf("Tokens: %d\n", resp.Tokens))
	b.WriteString(fmt.Sprintf("Truncated: %v\n\n", resp.Truncated))
	b.WriteString(resp.Document)
	return b.String(), nil
}

func formatAnswerHuman(resp *engine.Answer) (string, error) {
	var b strings.Builder

	b.WriteString(resp.Content)
	b.WriteString("\n\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	b.WriteString(fmt.Sprintf("Model: %s | Intent: %s | Selection: %s (%d files) | Context tokens: %d\n",
		resp.Model, resp.Intent, resp.Selection.Source, len(resp.Selection.Files), resp.Tokens))
	if resp.SessionID != "" {
		b.WriteString(fmt.Sprintf("Session: %s\n", resp.SessionID))
	}

	if !resp.Citations.Valid {
		b.WriteString("\nCitation warnings:\n")
		for _, f := range resp.Citations.Findings {
			b.WriteString(fmt.Sprintf("  ! %s: %s\n", f.Reference.Raw, f.Message))
		}
	}
	return b.String(), nil
}

func formatValidateHuman(resp *ValidateResponseCLI) (string, error) {
	var b strings.Builder

	if resp.Result.Valid {
		b.WriteString(fmt.Sprintf("✓ %d citation(s) checked, all valid\n", resp.Result.Checked))
		return b.String(), nil
	}

	b.WriteString(fmt.Sprintf("✗ %d of %d citation(s) invalid\n", len(resp.Result.Findings), resp.Result.Checked))
	for _, f := range resp.Result.Findings {
		b.WriteString(fmt.Sprintf("  ! %s: %s (%s)\n", f.Reference.Raw, f.Message, f.Reason))
	}
	return b.String(), nil
}
