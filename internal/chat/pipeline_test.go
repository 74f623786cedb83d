package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/OuhabYouceff/RBOT/internal/forms"
	"github.com/OuhabYouceff/RBOT/internal/llm"
	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/OuhabYouceff/RBOT/internal/textproc"
	"go.uber.org/zap"
)

type stubSearcher struct {
	results []models.SearchResult
	err     error
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, topK int, lang string) ([]models.SearchResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func newTestPipeline(t *testing.T, client *llm.MockClient, searcher Searcher) *Pipeline {
	t.Helper()
	proc := textproc.New([]string{"fr", "ar"}, "fr")
	p, err := NewPipeline(client, searcher, forms.NewService(client, zap.NewNop()), proc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestProcess_clarification(t *testing.T) {
	client := &llm.MockClient{
		CheckClarificationFn: func(ctx context.Context, query, language string) (llm.Clarification, error) {
			return llm.Clarification{
				Needed:       true,
				MainResponse: "Le capital minimum dépend du type de société.",
				Question:     "Quel type de société souhaitez-vous créer ?",
				Options:      []string{"SARL", "SA", "EURL"},
			}, nil
		},
	}
	p := newTestPipeline(t, client, &stubSearcher{})
	resp, err := p.Process(context.Background(), models.ChatRequest{Message: "Quel est le capital minimum ?"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != "needs_clarification" {
		t.Errorf("status: %s", resp.Status)
	}
	if resp.FollowUp == nil || resp.FollowUp.Question == "" || len(resp.FollowUp.Options) != 3 {
		t.Errorf("follow-up: %+v", resp.FollowUp)
	}
	if resp.ConversationID == "" {
		t.Error("conversation id should be assigned")
	}
}

func TestProcess_answerWithRetrievalAndForms(t *testing.T) {
	searcher := &stubSearcher{results: []models.SearchResult{
		{
			Document: models.Document{ID: "d1", Language: "fr", Content: "reponse: Le capital minimum pour une SARL est de 1 000 TND."},
			Score:    0.9,
			Rank:     1,
		},
	}}
	var answeredWith string
	client := &llm.MockClient{
		AnswerFn: func(ctx context.Context, question, retrievedContext string) (string, error) {
			answeredWith = retrievedContext
			return "Le capital minimum pour une SARL est de 1 000 TND.", nil
		},
		FormatAnswerFn: func(ctx context.Context, query string, results []models.RAGResult, language string) (llm.FinalAnswer, error) {
			if len(results) != 1 || results[0].Source != "index" {
				t.Errorf("rag results: %+v", results)
			}
			return llm.FinalAnswer{
				Answer:       "Le capital minimum pour une SARL en Tunisie est de 1 000 TND.",
				Suggestions:  []string{"Documents pour SARL"},
				SuggestForms: true,
			}, nil
		},
		MatchFormsFn: func(ctx context.Context, query, context string, catalog []llm.CatalogEntry) ([]string, error) {
			return []string{"RNE-F-002"}, nil
		},
	}
	p := newTestPipeline(t, client, searcher)
	resp, err := p.Process(context.Background(), models.ChatRequest{
		Message:        "Quel est le capital minimum pour une SARL ?",
		ConversationID: "conv-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.ConversationID != "conv-1" {
		t.Errorf("response: %+v", resp)
	}
	if !strings.Contains(answeredWith, "1 000 TND") {
		t.Errorf("answer should be grounded on retrieval: %q", answeredWith)
	}
	if len(resp.Forms) != 1 || resp.Forms[0].Code != "RNE-F-002" || resp.Forms[0].URL == "" {
		t.Errorf("forms: %+v", resp.Forms)
	}
	if len(resp.Suggestions) != 1 {
		t.Errorf("suggestions: %v", resp.Suggestions)
	}
}

func TestProcess_weakRetrievalUsesModelKnowledge(t *testing.T) {
	searcher := &stubSearcher{results: []models.SearchResult{
		{Document: models.Document{ID: "d1", Content: "hors sujet"}, Score: 0.05, Rank: 1},
	}}
	client := &llm.MockClient{
		AnswerFn: func(ctx context.Context, question, retrievedContext string) (string, error) {
			if retrievedContext != "" {
				t.Error("weak retrieval should not be passed as grounding")
			}
			return "Réponse générale.", nil
		},
		FormatAnswerFn: func(ctx context.Context, query string, results []models.RAGResult, language string) (llm.FinalAnswer, error) {
			if results[0].Source != "llm" {
				t.Errorf("source: %s", results[0].Source)
			}
			return llm.FinalAnswer{Answer: results[0].Answer}, nil
		},
	}
	p := newTestPipeline(t, client, searcher)
	resp, err := p.Process(context.Background(), models.ChatRequest{Message: "Une question générale sur les sociétés"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "Réponse générale." {
		t.Errorf("answer: %q", resp.Answer)
	}
}

func TestProcess_segmentation(t *testing.T) {
	searcher := &stubSearcher{}
	client := &llm.MockClient{
		SegmentQueryFn: func(ctx context.Context, query string) ([]string, error) {
			return []string{
				"Quel est le capital minimum pour une SARL ?",
				"Quels sont les frais d'inscription au RNE ?",
			}, nil
		},
	}
	p := newTestPipeline(t, client, searcher)
	_, err := p.Process(context.Background(), models.ChatRequest{
		Message: "Quel est le capital minimum et les frais d'inscription ?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(searcher.queries) != 2 {
		t.Errorf("each segmented question should be retrieved: %v", searcher.queries)
	}
}

func TestProcess_historyContextReachesModel(t *testing.T) {
	var seen string
	client := &llm.MockClient{
		CheckClarificationFn: func(ctx context.Context, query, language string) (llm.Clarification, error) {
			seen = query
			return llm.Clarification{}, nil
		},
	}
	p := newTestPipeline(t, client, &stubSearcher{})
	history := []models.ConversationMessage{
		{Type: "user", Content: "Je veux créer une SARL"},
		{Type: "bot", Content: "Pour une SARL le capital minimum est de 1 000 TND."},
		{Type: "bot", Content: "Bonjour !"},
	}
	_, err := p.Process(context.Background(), models.ChatRequest{
		Message:             "Et les documents ?",
		ConversationHistory: history,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(seen, "User asked: Je veux créer une SARL") {
		t.Errorf("user history missing: %q", seen)
	}
	if !strings.Contains(seen, "Bot discussed company types") {
		t.Errorf("bot snippet missing: %q", seen)
	}
	if strings.Contains(seen, "Bonjour !") {
		t.Errorf("irrelevant bot message should be dropped: %q", seen)
	}
	if !strings.Contains(seen, "Current user question: Et les documents ?") {
		t.Errorf("current question missing: %q", seen)
	}
}

func TestProcess_emptyMessage(t *testing.T) {
	p := newTestPipeline(t, &llm.MockClient{}, &stubSearcher{})
	if _, err := p.Process(context.Background(), models.ChatRequest{Message: "   "}); err == nil {
		t.Error("expected error for empty message")
	}
}

func TestExtractHistoryContext_windows(t *testing.T) {
	var history []models.ConversationMessage
	for i := 0; i < 10; i++ {
		history = append(history, models.ConversationMessage{Type: "user", Content: "Question " + string(rune('0'+i))})
	}
	got := extractHistoryContext(history)
	lines := strings.Split(got, "\n")
	if len(lines) != historyWindow {
		t.Errorf("got %d context lines, want %d", len(lines), historyWindow)
	}
	if !strings.Contains(lines[len(lines)-1], "Question 9") {
		t.Errorf("should keep the most recent messages: %v", lines)
	}
}
