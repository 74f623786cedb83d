// Package textproc provides language detection, normalization, and tokenization
// for French and Arabic text.
package textproc

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Supported language codes.
const (
	LangFrench = "fr"
	LangArabic = "ar"
)

var (
	arabicScriptRe = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}]`)
	frenchAccentRe = regexp.MustCompile(`[àâäéèêëïîôöùûüÿç]`)
	urlRe          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRe        = regexp.MustCompile(`\S+@\S+`)
	// Keep Arabic script, Arabic-Indic digits, whitespace, ASCII digits, basic punctuation.
	arabicStripRe = regexp.MustCompile(`[^\x{0600}-\x{06FF}\x{0660}-\x{0669}\s\d.,!?:;]`)
	// Keep word chars, whitespace, Latin-1/Latin Extended accents, basic punctuation.
	latinStripRe = regexp.MustCompile(`[^\w\s\x{00C0}-\x{017F}.,!?:;]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	wordRe       = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	questionRe   = regexp.MustCompile(`[?؟\n]+`)
)

var frenchInterrogatives = []string{"quel", "comment", "pourquoi", "quand", "où", "combien"}
var arabicInterrogatives = []string{"ماذا", "كيف", "لماذا", "متى", "أين", "كم"}

// Processor performs deterministic, language-aware text preprocessing. The zero
// value is not usable; construct with New.
type Processor struct {
	supported       map[string]struct{}
	defaultLanguage string
	logger          *zap.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// New creates a Processor. supported lists the recognized language codes
// (defaults to fr and ar); defaultLanguage is used when detection fails.
func New(supported []string, defaultLanguage string, opts ...Option) *Processor {
	if len(supported) == 0 {
		supported = []string{LangFrench, LangArabic}
	}
	if defaultLanguage == "" {
		defaultLanguage = LangFrench
	}
	p := &Processor{
		supported:       make(map[string]struct{}, len(supported)),
		defaultLanguage: defaultLanguage,
		logger:          zap.NewNop(),
	}
	for _, s := range supported {
		p.supported[s] = struct{}{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultLanguage returns the fallback language code.
func (p *Processor) DefaultLanguage() string {
	return p.defaultLanguage
}

// DetectLanguage returns the language code for text. Arabic script wins
// immediately; otherwise keyword and accent heuristics decide between the
// supported languages, falling back to the default.
func (p *Processor) DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < 2 {
		return p.defaultLanguage
	}

	if arabicScriptRe.MatchString(text) {
		return p.clamp(LangArabic)
	}

	lower := strings.ToLower(text)
	frMatches, arMatches := 0, 0
	for w := range frenchHintWords {
		if strings.Contains(lower, w) {
			frMatches++
		}
	}
	for w := range arabicHintWords {
		if strings.Contains(text, w) {
			arMatches++
		}
	}
	if arMatches > frMatches && arMatches > 0 {
		return p.clamp(LangArabic)
	}
	if frMatches > 0 {
		return p.clamp(LangFrench)
	}
	if frenchAccentRe.MatchString(lower) {
		return p.clamp(LangFrench)
	}
	return p.defaultLanguage
}

// clamp returns lang if supported, else the default language.
func (p *Processor) clamp(lang string) string {
	if _, ok := p.supported[lang]; ok {
		return lang
	}
	return p.defaultLanguage
}

// ValidateLanguage normalizes a caller-supplied language code, mapping common
// variants ("french", "arabe", ...) to their codes. Unknown or unsupported
// values map to the default language.
func (p *Processor) ValidateLanguage(code string) string {
	lang := strings.ToLower(strings.TrimSpace(code))
	switch lang {
	case "french", "francais", "français":
		lang = LangFrench
	case "arabic", "arabe", "العربية":
		lang = LangArabic
	}
	if _, ok := p.supported[lang]; ok {
		return lang
	}
	return p.defaultLanguage
}

// Normalize strips URLs, emails, and special characters, collapses whitespace,
// and lowercases non-Arabic text. The Arabic script range is preserved for "ar".
func (p *Processor) Normalize(text, lang string) string {
	if text == "" {
		return ""
	}
	if lang == "" {
		lang = p.DetectLanguage(text)
	}
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	if lang == LangArabic {
		text = arabicStripRe.ReplaceAllString(text, " ")
	} else {
		text = latinStripRe.ReplaceAllString(text, " ")
	}
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if lang != LangArabic {
		text = strings.ToLower(text)
	}
	return text
}

// Tokenize splits text into word tokens. Tokens shorter than two runes are
// dropped unless they are on the meaningful-short whitelist for the language.
func (p *Processor) Tokenize(text, lang string) []string {
	if text == "" {
		return nil
	}
	if lang == "" {
		lang = p.DetectLanguage(text)
	}
	raw := wordRe.FindAllString(text, -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len([]rune(tok)) >= 2 {
			tokens = append(tokens, tok)
			continue
		}
		lower := strings.ToLower(tok)
		if _, ok := meaningfulShortFrench[lower]; ok {
			tokens = append(tokens, tok)
			continue
		}
		if lang == LangArabic {
			if _, ok := meaningfulShortArabic[tok]; ok {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

// RemoveStopwords filters stopwords from tokens. French matching is
// case-insensitive; Arabic is exact. Other languages pass through unchanged.
func (p *Processor) RemoveStopwords(tokens []string, lang string) []string {
	if len(tokens) == 0 {
		return nil
	}
	if lang == "" {
		lang = p.DetectLanguage(strings.Join(tokens, " "))
	}
	out := make([]string, 0, len(tokens))
	switch lang {
	case LangFrench:
		for _, tok := range tokens {
			if _, ok := frenchStopwords[strings.ToLower(tok)]; !ok {
				out = append(out, tok)
			}
		}
	case LangArabic:
		for _, tok := range tokens {
			if _, ok := arabicStopwords[tok]; !ok {
				out = append(out, tok)
			}
		}
	default:
		return tokens
	}
	return out
}

// Preprocess runs the full pipeline: normalize, tokenize, remove stopwords.
// An empty result means the text carried no indexable terms.
func (p *Processor) Preprocess(text, lang string) []string {
	if text == "" {
		return nil
	}
	if lang == "" {
		lang = p.DetectLanguage(text)
	}
	normalized := p.Normalize(text, lang)
	tokens := p.Tokenize(normalized, lang)
	return p.RemoveStopwords(tokens, lang)
}

// SegmentQuestions splits text into individual questions on question marks
// (Latin and Arabic) and newlines. Interrogative segments get their question
// mark re-appended. When nothing splits, the whole text is a single item.
func (p *Processor) SegmentQuestions(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	segments := questionRe.Split(text, -1)
	questions := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		lower := strings.ToLower(seg)
		if containsAny(lower, frenchInterrogatives) {
			seg += " ?"
		} else if containsAny(seg, arabicInterrogatives) {
			seg += " ؟"
		}
		questions = append(questions, seg)
	}
	if len(questions) == 0 {
		return []string{text}
	}
	return questions
}

// ExtractKeywords returns up to max deduplicated keywords of three or more
// runes, in order of first appearance.
func (p *Processor) ExtractKeywords(text, lang string, max int) []string {
	tokens := p.Preprocess(text, lang)
	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, max)
	for _, tok := range tokens {
		if len([]rune(tok)) < 3 {
			continue
		}
		key := strings.ToLower(tok)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) >= max {
			break
		}
	}
	return keywords
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
