package forms

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/OuhabYouceff/RBOT/internal/llm"
	"go.uber.org/zap"
)

func TestCatalog(t *testing.T) {
	all := All()
	if len(all) != 7 {
		t.Fatalf("catalog size: got %d, want 7", len(all))
	}
	seen := make(map[string]bool)
	for _, f := range all {
		if !strings.HasPrefix(f.Code, "RNE-F-") {
			t.Errorf("unexpected code format: %s", f.Code)
		}
		if seen[f.Code] {
			t.Errorf("duplicate code: %s", f.Code)
		}
		seen[f.Code] = true
		if !strings.HasPrefix(f.URL, "https://") {
			t.Errorf("%s has no URL", f.Code)
		}
	}
}

func TestByCode(t *testing.T) {
	f, ok := ByCode("rne-f-003")
	if !ok || f.Code != "RNE-F-003" {
		t.Errorf("case-insensitive lookup: %v, %v", f, ok)
	}
	if _, ok := ByCode("RNE-F-099"); ok {
		t.Error("unknown code should not resolve")
	}
}

func TestFindRelevant(t *testing.T) {
	client := &llm.MockClient{
		MatchFormsFn: func(ctx context.Context, query, context string, catalog []llm.CatalogEntry) ([]string, error) {
			if len(catalog) != 7 {
				t.Errorf("catalog passed to model: %d entries", len(catalog))
			}
			return []string{"RNE-F-002", "RNE-F-099", "RNE-F-005", "RNE-F-001"}, nil
		},
	}
	svc := NewService(client, zap.NewNop())
	got := svc.FindRelevant(context.Background(), "Comment immatriculer une SARL ?", "")
	if len(got) != 2 {
		t.Fatalf("got %d forms, want 2", len(got))
	}
	if got[0].Code != "RNE-F-002" || got[1].Code != "RNE-F-005" {
		t.Errorf("codes: %s, %s", got[0].Code, got[1].Code)
	}
}

func TestFindRelevant_modelFailure(t *testing.T) {
	client := &llm.MockClient{
		MatchFormsFn: func(ctx context.Context, query, context string, catalog []llm.CatalogEntry) ([]string, error) {
			return nil, errors.New("api unreachable")
		},
	}
	svc := NewService(client, zap.NewNop())
	if got := svc.FindRelevant(context.Background(), "immatriculation", ""); len(got) != 0 {
		t.Errorf("failure should yield no forms, got %v", got)
	}
}
