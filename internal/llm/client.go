// Package llm wraps an OpenAI-compatible chat API behind a small interface
// covering the conversation steps: clarification, query segmentation,
// question answering, answer formatting and form matching.
package llm

import (
	"context"

	"github.com/OuhabYouceff/RBOT/internal/models"
)

// Clarification is the outcome of the clarification check. When Needed is
// true the caller should return the follow-up question instead of answering.
type Clarification struct {
	Needed       bool     `json:"needs_info"`
	MainResponse string   `json:"main_response"`
	Question     string   `json:"follow_up_question"`
	Options      []string `json:"options"`
}

// FinalAnswer is the formatted answer with optional follow-up suggestions
// and a flag telling the pipeline to look for relevant forms.
type FinalAnswer struct {
	Answer       string   `json:"answer"`
	Suggestions  []string `json:"suggestions"`
	SuggestForms bool     `json:"suggest_forms"`
}

// CatalogEntry describes one form for the matching prompt.
type CatalogEntry struct {
	Code     string
	Title    string
	Subtitle string
}

// Client is the language-model surface used by the chat pipeline.
type Client interface {
	// CheckClarification decides whether the query is too vague to answer.
	CheckClarification(ctx context.Context, query, language string) (Clarification, error)
	// SegmentQuery splits a query into its distinct questions. A query with a
	// single question comes back as a one-element slice.
	SegmentQuery(ctx context.Context, query string) ([]string, error)
	// Answer produces a short factual answer to one question, optionally
	// grounded on retrieved context.
	Answer(ctx context.Context, question, retrievedContext string) (string, error)
	// FormatAnswer merges per-question answers into one final response.
	FormatAnswer(ctx context.Context, query string, results []models.RAGResult, language string) (FinalAnswer, error)
	// MatchForms picks up to two relevant form codes from the catalog.
	MatchForms(ctx context.Context, query, context string, catalog []CatalogEntry) ([]string, error)
}
