package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// OpenAIClient implements Client against an OpenAI-compatible chat API.
type OpenAIClient struct {
	client *openai.LLM
	logger *zap.Logger
}

// NewOpenAIClient builds a chat client for the given host and model. token
// may be "none" for local servers that skip authentication.
func NewOpenAIClient(host, token, model string, logger *zap.Logger) (*OpenAIClient, error) {
	if token == "" {
		token = "none"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(token),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: create chat client: %w", err)
	}
	return &OpenAIClient{client: client, logger: logger}, nil
}

func (c *OpenAIClient) generate(ctx context.Context, system, user string, opts ...llms.CallOption) (string, error) {
	var content []llms.MessageContent
	if system != "" {
		content = append(content, llms.MessageContent{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(user)},
	})
	resp, err := c.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// CheckClarification asks the model whether the query is answerable as-is.
// API or parse failures report no clarification needed so the pipeline can
// proceed to retrieval.
func (c *OpenAIClient) CheckClarification(ctx context.Context, query, language string) (Clarification, error) {
	text, err := c.generate(ctx, "", clarificationPrompt(query, languageName(language)), llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Warn("clarification check failed", zap.Error(err))
		return Clarification{}, nil
	}
	var out Clarification
	if err := extractJSONObject(text, &out); err != nil {
		c.logger.Warn("clarification response not parseable", zap.String("response", text))
		return Clarification{}, nil
	}
	if out.Needed {
		if out.Question == "" {
			out.Question = "Pouvez-vous préciser votre demande ?"
		}
		if out.MainResponse == "" {
			out.MainResponse = "J'ai besoin de plus d'informations pour répondre précisément."
		}
	}
	return out, nil
}

// SegmentQuery splits the query into its distinct questions. On failure the
// query comes back unsplit.
func (c *OpenAIClient) SegmentQuery(ctx context.Context, query string) ([]string, error) {
	text, err := c.generate(ctx, "", segmentationPrompt(query), llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Warn("query segmentation failed", zap.Error(err))
		return []string{query}, nil
	}
	var out struct {
		Questions []string `json:"questions"`
	}
	if err := extractJSONObject(text, &out); err != nil || len(out.Questions) == 0 {
		return []string{query}, nil
	}
	return out.Questions, nil
}

// Answer produces a short factual answer. retrievedContext, when non-empty,
// is appended so the model can ground on indexed documents. API failures fall
// back to the canned Tunisia answers.
func (c *OpenAIClient) Answer(ctx context.Context, question, retrievedContext string) (string, error) {
	user := fmt.Sprintf("Question about Tunisia business/RNE: %s", question)
	if retrievedContext != "" {
		user += fmt.Sprintf("\n\nRelevant registry extracts:\n%s", retrievedContext)
	}
	text, err := c.generate(ctx, answerSystemPrompt, user, llms.WithTemperature(0.2), llms.WithMaxTokens(200))
	if err != nil {
		c.logger.Warn("answer generation failed, using fallback", zap.Error(err))
		return cannedAnswer(question), nil
	}
	return text, nil
}

// FormatAnswer merges per-question results into one short response. On
// failure it falls back to concatenating the raw answers.
func (c *OpenAIClient) FormatAnswer(ctx context.Context, query string, results []models.RAGResult, language string) (FinalAnswer, error) {
	text, err := c.generate(ctx, "", formatPrompt(query, results, languageName(language)), llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Warn("answer formatting failed", zap.Error(err))
		return fallbackFormat(results), nil
	}
	var out FinalAnswer
	if err := extractJSONObject(text, &out); err != nil {
		out = recoverFinalAnswer(text)
	}
	if out.Answer == "" {
		out = fallbackFormat(results)
	}
	return out, nil
}

func fallbackFormat(results []models.RAGResult) FinalAnswer {
	var answers []string
	for _, r := range results {
		if r.Answer != "" {
			answers = append(answers, r.Answer)
		}
	}
	if len(answers) == 0 {
		return FinalAnswer{Answer: "Une erreur s'est produite."}
	}
	return FinalAnswer{Answer: strings.Join(answers, "\n\n")}
}

// MatchForms picks up to two relevant form codes. Codes outside the catalog
// are dropped; failures return no forms.
func (c *OpenAIClient) MatchForms(ctx context.Context, query, context string, catalog []CatalogEntry) ([]string, error) {
	text, err := c.generate(ctx, "", formsPrompt(query, context, catalog), llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Warn("form matching failed", zap.Error(err))
		return nil, nil
	}
	known := make(map[string]bool, len(catalog))
	for _, f := range catalog {
		known[f.Code] = true
	}
	var out []string
	for _, code := range extractStringArray(text) {
		if known[code] {
			out = append(out, code)
		}
		if len(out) == 2 {
			break
		}
	}
	return out, nil
}
