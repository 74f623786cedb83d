package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Model output is not reliably clean JSON: it may come fenced, prefixed with
// prose, or slightly malformed. The extractors below degrade step by step
// instead of failing on the first parse error.

var (
	fencedJSONRe   = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareObjectRe   = regexp.MustCompile(`(?s)\{.*\}`)
	bareArrayRe    = regexp.MustCompile(`(?s)\[(.*?)\]`)
	quotedStringRe = regexp.MustCompile(`["']([^"']*)["']`)
	answerFieldRe  = regexp.MustCompile(`"answer":\s*"([^"]*(?:\\.[^"]*)*)"`)
	suggestionsRe  = regexp.MustCompile(`(?s)"suggestions":\s*\[(.*?)\]`)
	suggestFormsRe = regexp.MustCompile(`"suggest_forms":\s*(true|false)`)
)

// extractJSONObject unmarshals the first JSON object found in text into v.
// It tries the raw text, then a fenced block, then the outermost braces.
func extractJSONObject(text string, v interface{}) error {
	text = strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), v); err == nil {
			return nil
		}
	}
	if m := bareObjectRe.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), v); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no JSON object in response")
}

// extractStringArray pulls a JSON string array out of text, tolerating
// surrounding prose and mixed quote styles.
func extractStringArray(text string) []string {
	text = strings.TrimSpace(text)
	var arr []string
	if err := json.Unmarshal([]byte(text), &arr); err == nil {
		return arr
	}
	m := bareArrayRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	if err := json.Unmarshal([]byte("["+m[1]+"]"), &arr); err == nil {
		return arr
	}
	var out []string
	for _, q := range quotedStringRe.FindAllStringSubmatch(m[1], -1) {
		out = append(out, q[1])
	}
	return out
}

// recoverFinalAnswer salvages the answer fields from a response whose JSON
// would not parse. The answer falls back to the first prose lines.
func recoverFinalAnswer(text string) FinalAnswer {
	var out FinalAnswer
	if m := answerFieldRe.FindStringSubmatch(text); m != nil {
		answer := strings.ReplaceAll(m[1], `\"`, `"`)
		out.Answer = strings.ReplaceAll(answer, `\n`, "\n")
	} else {
		var lines []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "}") {
				continue
			}
			lines = append(lines, line)
			if len(lines) == 3 {
				break
			}
		}
		out.Answer = strings.Join(lines, " ")
	}
	if m := suggestionsRe.FindStringSubmatch(text); m != nil {
		for _, q := range quotedStringRe.FindAllStringSubmatch(m[1], -1) {
			out.Suggestions = append(out.Suggestions, q[1])
		}
	}
	if m := suggestFormsRe.FindStringSubmatch(text); m != nil {
		out.SuggestForms = m[1] == "true"
	}
	return out
}
