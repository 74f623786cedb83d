package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/OuhabYouceff/RBOT/internal/forms"
	"github.com/OuhabYouceff/RBOT/internal/models"
)

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != OutputText {
		t.Errorf("empty: %v %v", f, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != OutputJSON {
		t.Errorf("json: %v %v", f, err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	resp := &models.SearchResponse{
		Results: []models.SearchResult{
			{
				Document: models.Document{ID: "d1", Language: "fr", Content: "Le capital minimum d'une SARL est de 1 000 TND."},
				Score:    0.91, KeywordScore: 0.6, SemanticScore: 0.31, Rank: 1,
			},
		},
		Total:    1,
		Language: "fr",
		Query:    "capital sarl",
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 1 results", "Rank: 1", "ID: d1", "1 000 TND"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_json(t *testing.T) {
	resp := &models.SearchResponse{Total: 0, Language: "ar", Query: "q", Results: []models.SearchResult{}}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Language != "ar" {
		t.Errorf("language: %q", decoded.Language)
	}
}

func TestWriteChatResponse_text(t *testing.T) {
	resp := &models.ChatResponse{
		Answer: "Le capital minimum est de 1 000 TND.",
		FollowUp: &models.FollowUpQuestion{
			Question: "Quel type de société ?",
			Options:  []string{"SARL", "SUARL"},
		},
		Suggestions: []string{"Quels documents sont requis ?"},
		Forms: []models.FormData{
			{Code: "RNE-F-002", Title: "Immatriculation personne morale", URL: "https://www.registre-entreprises.tn/"},
		},
	}
	var buf bytes.Buffer
	if err := WriteChatResponse(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"1 000 TND", "Quel type de société ?", "SUARL", "RNE-F-002"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteForms_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteForms(&buf, forms.All(), OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "RNE-F-001") {
		t.Errorf("catalog output missing first form:\n%s", buf.String())
	}
}
