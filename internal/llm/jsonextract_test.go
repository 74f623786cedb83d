package llm

import (
	"reflect"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"clean", `{"needs_info": true, "follow_up_question": "Quel type ?"}`},
		{"fenced", "```json\n{\"needs_info\": true, \"follow_up_question\": \"Quel type ?\"}\n```"},
		{"fenced no tag", "```\n{\"needs_info\": true, \"follow_up_question\": \"Quel type ?\"}\n```"},
		{"prose around", "Here is my analysis:\n{\"needs_info\": true, \"follow_up_question\": \"Quel type ?\"}\nHope this helps."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out Clarification
			if err := extractJSONObject(tc.in, &out); err != nil {
				t.Fatal(err)
			}
			if !out.Needed || out.Question != "Quel type ?" {
				t.Errorf("parsed: %+v", out)
			}
		})
	}
}

func TestExtractJSONObject_noJSON(t *testing.T) {
	var out Clarification
	if err := extractJSONObject("no structured content here", &out); err == nil {
		t.Error("expected error for prose-only response")
	}
}

func TestExtractStringArray(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`["RNE-F-001", "RNE-F-002"]`, []string{"RNE-F-001", "RNE-F-002"}},
		{"The relevant forms are:\n[\"RNE-F-003\"]", []string{"RNE-F-003"}},
		{`['RNE-F-005']`, []string{"RNE-F-005"}},
		{`[]`, nil},
		{"nothing here", nil},
	}
	for _, tc := range cases {
		got := extractStringArray(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("extractStringArray(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRecoverFinalAnswer(t *testing.T) {
	in := `{"answer": "Le capital est de 1 000 TND.", "suggestions": ["Documents pour SARL"], "suggest_forms": true` // truncated JSON
	out := recoverFinalAnswer(in)
	if out.Answer != "Le capital est de 1 000 TND." {
		t.Errorf("answer: %q", out.Answer)
	}
	if len(out.Suggestions) != 1 || out.Suggestions[0] != "Documents pour SARL" {
		t.Errorf("suggestions: %v", out.Suggestions)
	}
	if !out.SuggestForms {
		t.Error("suggest_forms: want true")
	}
}

func TestRecoverFinalAnswer_proseOnly(t *testing.T) {
	out := recoverFinalAnswer("Le capital minimum est de 1 000 TND.\nIl doit être déposé en banque.")
	if out.Answer == "" {
		t.Error("prose response should yield an answer")
	}
	if out.SuggestForms {
		t.Error("suggest_forms should default to false")
	}
}
