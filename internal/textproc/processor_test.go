package textproc

import (
	"reflect"
	"strings"
	"testing"
)

func newTestProcessor() *Processor {
	return New([]string{"fr", "ar"}, "fr")
}

func TestDetectLanguage(t *testing.T) {
	p := newTestProcessor()
	tests := []struct {
		text string
		want string
	}{
		{"Quel est le capital minimum pour une SARL ?", "fr"},
		{"ما هي الوثائق المطلوبة لتأسيس شركة؟", "ar"},
		{"création d'une société", "fr"},
		{"", "fr"},
		{"x", "fr"},
	}
	for _, tt := range tests {
		if got := p.DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectLanguage_arabicScriptWins(t *testing.T) {
	p := newTestProcessor()
	// Mixed text with any Arabic script is routed to Arabic.
	if got := p.DetectLanguage("capital شركة"); got != "ar" {
		t.Errorf("got %q, want ar", got)
	}
}

func TestValidateLanguage(t *testing.T) {
	p := newTestProcessor()
	tests := []struct {
		in, want string
	}{
		{"fr", "fr"},
		{"ar", "ar"},
		{"French", "fr"},
		{"arabe", "ar"},
		{"de", "fr"},
		{"", "fr"},
	}
	for _, tt := range tests {
		if got := p.ValidateLanguage(tt.in); got != tt.want {
			t.Errorf("ValidateLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	p := newTestProcessor()
	got := p.Normalize("Voir https://rne.tn/page et contact@rne.tn : Capital  1000 TND!", "fr")
	if strings.Contains(got, "https") || strings.Contains(got, "@") {
		t.Errorf("urls/emails not stripped: %q", got)
	}
	if got != strings.ToLower(got) {
		t.Errorf("french text should be lowercased: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}

func TestNormalize_arabicPreservesScript(t *testing.T) {
	p := newTestProcessor()
	got := p.Normalize("تأسيس شركة في تونس", "ar")
	if !strings.Contains(got, "شركة") {
		t.Errorf("arabic script lost: %q", got)
	}
}

func TestTokenize_dropsShortTokens(t *testing.T) {
	p := newTestProcessor()
	tokens := p.Tokenize("le capital d une sarl", "fr")
	for _, tok := range tokens {
		if len([]rune(tok)) < 2 {
			if _, ok := meaningfulShortFrench[strings.ToLower(tok)]; !ok {
				t.Errorf("short token %q should have been dropped", tok)
			}
		}
	}
}

func TestRemoveStopwords(t *testing.T) {
	p := newTestProcessor()
	got := p.RemoveStopwords([]string{"le", "capital", "est", "minimum"}, "fr")
	want := []string{"capital", "minimum"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPreprocess(t *testing.T) {
	p := newTestProcessor()
	tokens := p.Preprocess("Quel est le capital minimum d'une SARL ?", "fr")
	joined := strings.Join(tokens, " ")
	if !strings.Contains(joined, "capital") || !strings.Contains(joined, "sarl") {
		t.Errorf("expected content words, got %v", tokens)
	}
	for _, tok := range tokens {
		if _, ok := frenchStopwords[tok]; ok {
			t.Errorf("stopword %q not removed", tok)
		}
	}
}

func TestPreprocess_emptyAndStopwordOnly(t *testing.T) {
	p := newTestProcessor()
	if got := p.Preprocess("", "fr"); len(got) != 0 {
		t.Errorf("empty text: got %v", got)
	}
	if got := p.Preprocess("le la les", "fr"); len(got) != 0 {
		t.Errorf("stopword-only text should yield no tokens, got %v", got)
	}
}

func TestSegmentQuestions(t *testing.T) {
	p := newTestProcessor()
	got := p.SegmentQuestions("Quel est le capital minimum ? Comment créer une SARL ?")
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d: %v", len(got), got)
	}
	for _, q := range got {
		if !strings.HasSuffix(q, "?") {
			t.Errorf("question mark not re-appended: %q", q)
		}
	}
}

func TestSegmentQuestions_noSplit(t *testing.T) {
	p := newTestProcessor()
	got := p.SegmentQuestions("documents nécessaires inscription")
	if len(got) != 1 {
		t.Fatalf("expected single segment, got %v", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	p := newTestProcessor()
	got := p.ExtractKeywords("capital capital minimum sarl tunisie", "fr", 3)
	if len(got) > 3 {
		t.Errorf("max not honored: %v", got)
	}
	seen := map[string]bool{}
	for _, k := range got {
		if seen[k] {
			t.Errorf("duplicate keyword %q", k)
		}
		seen[k] = true
	}
}
