package llm

import (
	"context"

	"github.com/OuhabYouceff/RBOT/internal/models"
)

// MockClient implements Client with overridable function fields. Unset fields
// behave like a model that never asks for clarification, never splits the
// query, answers with the canned fallback and matches no forms.
type MockClient struct {
	CheckClarificationFn func(ctx context.Context, query, language string) (Clarification, error)
	SegmentQueryFn       func(ctx context.Context, query string) ([]string, error)
	AnswerFn             func(ctx context.Context, question, retrievedContext string) (string, error)
	FormatAnswerFn       func(ctx context.Context, query string, results []models.RAGResult, language string) (FinalAnswer, error)
	MatchFormsFn         func(ctx context.Context, query, context string, catalog []CatalogEntry) ([]string, error)
}

func (m *MockClient) CheckClarification(ctx context.Context, query, language string) (Clarification, error) {
	if m.CheckClarificationFn != nil {
		return m.CheckClarificationFn(ctx, query, language)
	}
	return Clarification{}, nil
}

func (m *MockClient) SegmentQuery(ctx context.Context, query string) ([]string, error) {
	if m.SegmentQueryFn != nil {
		return m.SegmentQueryFn(ctx, query)
	}
	return []string{query}, nil
}

func (m *MockClient) Answer(ctx context.Context, question, retrievedContext string) (string, error) {
	if m.AnswerFn != nil {
		return m.AnswerFn(ctx, question, retrievedContext)
	}
	return cannedAnswer(question), nil
}

func (m *MockClient) FormatAnswer(ctx context.Context, query string, results []models.RAGResult, language string) (FinalAnswer, error) {
	if m.FormatAnswerFn != nil {
		return m.FormatAnswerFn(ctx, query, results, language)
	}
	return fallbackFormat(results), nil
}

func (m *MockClient) MatchForms(ctx context.Context, query, context string, catalog []CatalogEntry) ([]string, error) {
	if m.MatchFormsFn != nil {
		return m.MatchFormsFn(ctx, query, context, catalog)
	}
	return nil, nil
}
