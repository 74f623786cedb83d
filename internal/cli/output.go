// Package cli provides output formatting for the RBOT command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/OuhabYouceff/RBOT/internal/forms"
	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/OuhabYouceff/RBOT/pkg/utils"
)

// OutputFormat selects how CLI results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat validates a format name from a command-line flag.
func ParseFormat(name string) (OutputFormat, error) {
	switch name {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", name)
	}
}

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	fmt.Fprintf(w, "\nFound %d results in %dms (language: %s)\n\n",
		response.Total, response.QueryTime, response.Language)
	for _, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f (Keyword: %.4f, Semantic: %.4f)\n",
			result.Rank, result.Score, result.KeywordScore, result.SemanticScore)
		fmt.Fprintf(w, "ID: %s | Language: %s\n", result.Document.ID, result.Document.Language)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.Document.Content, 200))
	}
	return nil
}

// WriteChatResponse writes a chat response to w in the given format.
func WriteChatResponse(w io.Writer, response *models.ChatResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	fmt.Fprintf(w, "\n%s\n", response.Answer)
	if response.FollowUp != nil {
		fmt.Fprintf(w, "\n? %s\n", response.FollowUp.Question)
		for _, opt := range response.FollowUp.Options {
			fmt.Fprintf(w, "  - %s\n", opt)
		}
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range response.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	for _, form := range response.Forms {
		fmt.Fprintf(w, "\n[%s] %s\n  %s\n  %s\n", form.Code, form.Title, form.Subtitle, form.URL)
	}
	return nil
}

// WriteForms writes the forms catalog to w in the given format.
func WriteForms(w io.Writer, catalog []forms.Form, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"forms": catalog})
	}
	for _, form := range catalog {
		fmt.Fprintf(w, "%-12s %s\n", form.Code, form.Title)
		if form.Subtitle != "" {
			fmt.Fprintf(w, "             %s\n", form.Subtitle)
		}
		fmt.Fprintf(w, "             %s\n", form.URL)
	}
	return nil
}
