package forms

import (
	"context"

	"github.com/OuhabYouceff/RBOT/internal/llm"
	"go.uber.org/zap"
)

// maxRelevant caps how many forms one answer suggests.
const maxRelevant = 2

// Service matches catalog forms against user requests via the language model.
type Service struct {
	client llm.Client
	logger *zap.Logger
}

// NewService builds a form-matching service around the given model client.
func NewService(client llm.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// FindRelevant asks the model which forms fit the query and conversation
// context. Unknown codes are dropped; model failure yields no forms rather
// than an error, a missing form suggestion is not worth failing the answer.
func (s *Service) FindRelevant(ctx context.Context, query, conversationContext string) []Form {
	entries := make([]llm.CatalogEntry, len(catalog))
	for i, f := range catalog {
		entries[i] = llm.CatalogEntry{Code: f.Code, Title: f.Title, Subtitle: f.Subtitle}
	}
	codes, err := s.client.MatchForms(ctx, query, conversationContext, entries)
	if err != nil {
		s.logger.Warn("form matching failed", zap.Error(err))
		return nil
	}
	var out []Form
	for _, code := range codes {
		if f, ok := ByCode(code); ok {
			out = append(out, f)
		}
		if len(out) == maxRelevant {
			break
		}
	}
	if len(out) > 0 {
		s.logger.Debug("forms matched", zap.String("query", query), zap.Int("count", len(out)))
	}
	return out
}
