// Package keyword provides the bilingual BM25 retrieval index over the RNE
// document set. Documents are partitioned by language tag into independent
// French and Arabic indices; queries are routed to one of them.
package keyword

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/OuhabYouceff/RBOT/internal/models"
	"go.uber.org/zap"
)

// ErrIndexNotBuilt is returned by Search when the resolved language has no
// ranking model, either because its corpus was empty or Build was never called.
// Callers treat it as "no results" but can distinguish it from a genuine miss.
var ErrIndexNotBuilt = errors.New("no keyword index built for language")

// Tokenizer is the text-processing collaborator: deterministic, language-aware
// tokenization and language detection.
type Tokenizer interface {
	DetectLanguage(text string) string
	Preprocess(text, lang string) []string
}

// Result is a single keyword search hit.
type Result struct {
	Document models.Document `json:"document"`
	Score    float64         `json:"score"`
	Rank     int             `json:"rank"`
}

// Stats reports the current index state.
type Stats struct {
	FrenchDocuments  int  `json:"french_documents"`
	ArabicDocuments  int  `json:"arabic_documents"`
	TotalDocuments   int  `json:"total_documents"`
	FrenchIndexBuilt bool `json:"french_index_built"`
	ArabicIndexBuilt bool `json:"arabic_index_built"`
}

// BuildStats reports what Build indexed and what it dropped.
type BuildStats struct {
	FrenchIndexed   int `json:"french_indexed"`
	ArabicIndexed   int `json:"arabic_indexed"`
	DroppedEmpty    int `json:"dropped_empty"`
	DroppedLanguage int `json:"dropped_language"`
}

// partition holds one language's corpus and its derived ranking model.
// tokenized and documents are always the same length and index-aligned.
type partition struct {
	tokenized [][]string
	documents []models.Document
	model     *bm25Model
}

// snapshot is the whole index state; Build and Load replace it wholesale so
// in-flight searches keep reading a consistent snapshot.
type snapshot struct {
	partitions map[string]*partition
}

func emptySnapshot() *snapshot {
	return &snapshot{partitions: map[string]*partition{
		models.LangFrench: {},
		models.LangArabic: {},
	}}
}

// Index is the bilingual BM25 index. Searches are safe concurrently with each
// other and with rebuilds: mutations build a fresh snapshot off to the side and
// swap it in under the lock.
type Index struct {
	tokenizer    Tokenizer
	snapshotPath string
	logger       *zap.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// NewIndex creates an empty index. tokenizer is required; snapshotPath may be
// empty to disable persistence. Construction fails fast on a missing tokenizer
// so that a misconfigured service cannot reach Build or Search.
func NewIndex(tokenizer Tokenizer, snapshotPath string, logger *zap.Logger) (*Index, error) {
	if tokenizer == nil {
		return nil, errors.New("keyword: tokenizer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{
		tokenizer:    tokenizer,
		snapshotPath: snapshotPath,
		logger:       logger,
		snap:         emptySnapshot(),
	}, nil
}

// Build replaces the index state from aligned texts and documents. Documents
// are partitioned by their language tag; tags outside fr/ar are excluded from
// both corpora. Pairs whose tokenization yields no tokens are dropped from
// corpus and document list together to keep them aligned. A ranking model is
// built per language only when its corpus is non-empty. When a snapshot path
// is configured the new state is persisted; write failures are logged and
// swallowed, leaving the in-memory index usable.
func (idx *Index) Build(texts []string, documents []models.Document) (BuildStats, error) {
	var stats BuildStats
	if len(texts) != len(documents) {
		return stats, fmt.Errorf("keyword: texts/documents length mismatch: %d != %d", len(texts), len(documents))
	}

	next := emptySnapshot()
	for i, doc := range documents {
		part, ok := next.partitions[doc.Language]
		if !ok {
			stats.DroppedLanguage++
			continue
		}
		tokens := idx.tokenizer.Preprocess(texts[i], doc.Language)
		if len(tokens) == 0 {
			stats.DroppedEmpty++
			continue
		}
		part.tokenized = append(part.tokenized, tokens)
		part.documents = append(part.documents, doc)
	}
	for _, part := range next.partitions {
		if len(part.tokenized) > 0 {
			part.model = newBM25Model(part.tokenized)
		}
	}
	stats.FrenchIndexed = len(next.partitions[models.LangFrench].documents)
	stats.ArabicIndexed = len(next.partitions[models.LangArabic].documents)

	idx.mu.Lock()
	idx.snap = next
	idx.mu.Unlock()

	idx.logger.Info("keyword index built",
		zap.Int("french_documents", stats.FrenchIndexed),
		zap.Int("arabic_documents", stats.ArabicIndexed),
		zap.Int("dropped_empty", stats.DroppedEmpty),
		zap.Int("dropped_language", stats.DroppedLanguage),
	)

	if idx.snapshotPath != "" {
		if err := saveSnapshot(idx.snapshotPath, next); err != nil {
			idx.logger.Error("keyword snapshot write failed", zap.String("path", idx.snapshotPath), zap.Error(err))
		} else {
			idx.logger.Info("keyword snapshot saved", zap.String("path", idx.snapshotPath))
		}
	}
	return stats, nil
}

// Search scores every document in the resolved language's corpus against the
// query and returns up to topK hits in descending score order with 1-based
// ranks. Zero-score documents are never returned: a BM25 score of zero means
// no query term occurs in the document, so it is not a match. A blank query or
// a query that tokenizes to nothing returns an empty result without error;
// a language with no built model returns ErrIndexNotBuilt.
func (idx *Index) Search(query string, topK int, lang string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = 3
	}
	if lang == "" {
		lang = idx.tokenizer.DetectLanguage(query)
	}

	tokens := idx.tokenizer.Preprocess(query, lang)
	if len(tokens) == 0 {
		idx.logger.Warn("query tokenized to nothing", zap.String("query", query), zap.String("language", lang))
		return nil, nil
	}

	idx.mu.RLock()
	snap := idx.snap
	idx.mu.RUnlock()

	part := snap.partitions[lang]
	if part == nil || part.model == nil {
		idx.logger.Warn("no keyword index for language", zap.String("language", lang))
		return nil, fmt.Errorf("%w: %s", ErrIndexNotBuilt, lang)
	}

	scores := part.model.scores(tokens)
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps original corpus order among equal scores.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	results := make([]Result, 0, topK)
	for _, docIdx := range order {
		if len(results) == topK {
			break
		}
		if scores[docIdx] <= 0 {
			break
		}
		results = append(results, Result{
			Document: part.documents[docIdx],
			Score:    scores[docIdx],
			Rank:     len(results) + 1,
		})
	}
	return results, nil
}

// Load replaces the index state from the persisted snapshot and rebuilds the
// ranking models. Returns false without touching in-memory state when the path
// is unset, the file is missing, or decoding fails.
func (idx *Index) Load() bool {
	if idx.snapshotPath == "" {
		idx.logger.Warn("keyword snapshot path not configured")
		return false
	}
	next, err := loadSnapshot(idx.snapshotPath)
	if err != nil {
		idx.logger.Warn("keyword snapshot load failed", zap.String("path", idx.snapshotPath), zap.Error(err))
		return false
	}
	for _, part := range next.partitions {
		if len(part.tokenized) > 0 {
			part.model = newBM25Model(part.tokenized)
		}
	}

	idx.mu.Lock()
	idx.snap = next
	idx.mu.Unlock()

	idx.logger.Info("keyword index loaded",
		zap.Int("french_documents", len(next.partitions[models.LangFrench].documents)),
		zap.Int("arabic_documents", len(next.partitions[models.LangArabic].documents)),
	)
	return true
}

// Stats returns document counts and model availability per language.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	snap := idx.snap
	idx.mu.RUnlock()

	fr := snap.partitions[models.LangFrench]
	ar := snap.partitions[models.LangArabic]
	return Stats{
		FrenchDocuments:  len(fr.documents),
		ArabicDocuments:  len(ar.documents),
		TotalDocuments:   len(fr.documents) + len(ar.documents),
		FrenchIndexBuilt: fr.model != nil,
		ArabicIndexBuilt: ar.model != nil,
	}
}
