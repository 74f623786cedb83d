// Package chat runs the conversation pipeline: clarification, query
// segmentation, retrieval-grounded answering, final formatting and form
// suggestions.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/OuhabYouceff/RBOT/internal/forms"
	"github.com/OuhabYouceff/RBOT/internal/llm"
	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/OuhabYouceff/RBOT/internal/textproc"
	"github.com/OuhabYouceff/RBOT/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// historyWindow bounds how many trailing messages feed the context.
	historyWindow = 4
	// answerTopK is how many documents ground each question's answer.
	answerTopK = 3
	// confidenceFloor marks retrieval too weak to trust on its own.
	confidenceFloor = 0.3
)

// Searcher is the retrieval surface the pipeline grounds answers on.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, lang string) ([]models.SearchResult, error)
}

// Pipeline orchestrates one chat turn.
type Pipeline struct {
	client    llm.Client
	searcher  Searcher
	forms     *forms.Service
	processor *textproc.Processor
	logger    *zap.Logger
}

// NewPipeline wires the pipeline. All collaborators are required.
func NewPipeline(client llm.Client, searcher Searcher, formsSvc *forms.Service, processor *textproc.Processor, logger *zap.Logger) (*Pipeline, error) {
	if client == nil || searcher == nil || formsSvc == nil || processor == nil {
		return nil, fmt.Errorf("chat: client, searcher, forms service and processor are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		client:    client,
		searcher:  searcher,
		forms:     formsSvc,
		processor: processor,
		logger:    logger,
	}, nil
}

// Process runs the full pipeline for one user message.
func (p *Pipeline) Process(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	query := strings.TrimSpace(req.Message)
	if query == "" {
		return nil, fmt.Errorf("chat: empty message")
	}
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	lang := req.Language
	if lang == "" {
		lang = p.processor.DetectLanguage(query)
	} else {
		lang = p.processor.ValidateLanguage(lang)
	}

	historyContext := extractHistoryContext(req.ConversationHistory)
	enhanced := query
	if historyContext != "" {
		enhanced = fmt.Sprintf("Context from conversation:\n%s\n\nCurrent user question: %s", historyContext, query)
	}

	clarification, err := p.client.CheckClarification(ctx, enhanced, lang)
	if err != nil {
		p.logger.Warn("clarification check failed", zap.Error(err))
	}
	if clarification.Needed {
		p.logger.Info("clarification requested",
			zap.String("conversation_id", conversationID),
			zap.String("question", clarification.Question))
		return &models.ChatResponse{
			Answer: clarification.MainResponse,
			FollowUp: &models.FollowUpQuestion{
				Question: clarification.Question,
				Options:  clarification.Options,
			},
			ConversationID: conversationID,
			Status:         "needs_clarification",
		}, nil
	}

	questions, err := p.client.SegmentQuery(ctx, enhanced)
	if err != nil || len(questions) == 0 {
		questions = []string{query}
	}
	p.logger.Debug("query segmented", zap.Strings("questions", questions))

	ragResults := make([]models.RAGResult, 0, len(questions))
	for _, question := range questions {
		ragResults = append(ragResults, p.answerQuestion(ctx, question, lang))
	}

	final, err := p.client.FormatAnswer(ctx, enhanced, ragResults, lang)
	if err != nil {
		p.logger.Warn("answer formatting failed", zap.Error(err))
	}

	var matched []models.FormData
	if final.SuggestForms {
		formsContext := buildFormsContext(historyContext, final.Answer, ragResults)
		for _, f := range p.forms.FindRelevant(ctx, query, formsContext) {
			matched = append(matched, models.FormData{
				Code:     f.Code,
				Title:    f.Title,
				Subtitle: f.Subtitle,
				URL:      f.URL,
			})
		}
	}

	p.logger.Info("chat turn completed",
		zap.String("conversation_id", conversationID),
		zap.String("language", lang),
		zap.Int("questions", len(questions)),
		zap.Int("forms", len(matched)))

	return &models.ChatResponse{
		Answer:         final.Answer,
		Suggestions:    final.Suggestions,
		Forms:          matched,
		ConversationID: conversationID,
		Status:         "ok",
	}, nil
}

// answerQuestion grounds one question on retrieval when possible and falls
// back to the model's own knowledge when the index has nothing convincing.
func (p *Pipeline) answerQuestion(ctx context.Context, question, lang string) models.RAGResult {
	results, err := p.searcher.Search(ctx, question, answerTopK, lang)
	if err != nil {
		p.logger.Warn("retrieval failed", zap.String("question", question), zap.Error(err))
	}

	var confidence float64
	var retrieved string
	if len(results) > 0 {
		confidence = results[0].Score
		var sb strings.Builder
		for i, r := range results {
			if i > 0 {
				sb.WriteString("\n---\n")
			}
			sb.WriteString(utils.Truncate(r.Document.Content, 800))
		}
		retrieved = sb.String()
	}

	source := "index"
	if confidence < confidenceFloor {
		// Weak retrieval: let the model answer from its own knowledge.
		retrieved = ""
		source = "llm"
	}
	answer, err := p.client.Answer(ctx, question, retrieved)
	if err != nil {
		p.logger.Warn("answer generation failed", zap.String("question", question), zap.Error(err))
		answer = ""
		source = "fallback"
	}

	p.logger.Debug("question answered",
		zap.String("question", question),
		zap.String("source", source),
		zap.Float64("confidence", confidence))

	return models.RAGResult{
		Question:   question,
		Answer:     answer,
		Confidence: confidence,
		Source:     source,
	}
}

// extractHistoryContext condenses the trailing conversation into a few lines.
// User messages come through as-is; bot messages only when they touched
// forms, company types or documents, truncated to a snippet.
func extractHistoryContext(history []models.ConversationMessage) string {
	if len(history) == 0 {
		return ""
	}
	recent := history
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	var parts []string
	for _, msg := range recent {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		switch msg.Type {
		case "user":
			parts = append(parts, "User asked: "+content)
		case "bot":
			lower := strings.ToLower(content)
			snippet := utils.Truncate(content, 100)
			switch {
			case strings.Contains(lower, "formulaire") || strings.Contains(lower, "form"):
				parts = append(parts, "Bot mentioned forms: "+snippet)
			case strings.Contains(lower, "suarl") || strings.Contains(lower, "sarl"):
				parts = append(parts, "Bot discussed company types: "+snippet)
			case strings.Contains(lower, "document"):
				parts = append(parts, "Bot mentioned documents: "+snippet)
			}
		}
	}
	if len(parts) > historyWindow {
		parts = parts[len(parts)-historyWindow:]
	}
	return strings.Join(parts, "\n")
}

// buildFormsContext gathers everything the form matcher should see.
func buildFormsContext(historyContext, finalAnswer string, results []models.RAGResult) string {
	var sb strings.Builder
	if historyContext != "" {
		sb.WriteString(historyContext)
		sb.WriteString("\n")
	}
	sb.WriteString(finalAnswer)
	for _, r := range results {
		sb.WriteString(" ")
		sb.WriteString(r.Answer)
	}
	return sb.String()
}
