package search

import (
	"context"
	"errors"

	"github.com/OuhabYouceff/RBOT/internal/keyword"
	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/OuhabYouceff/RBOT/internal/semantic"
	"github.com/OuhabYouceff/RBOT/internal/storage"
	"go.uber.org/zap"
)

// Engine runs hybrid retrieval: BM25 keyword search and embedding search in
// parallel scales, fused by weighted sum. The semantic retriever is optional;
// without it the engine degrades to keyword-only ranking.
type Engine struct {
	keyword        *keyword.Index
	semantic       *semantic.Retriever
	store          storage.DocumentStore
	keywordWeight  float64
	semanticWeight float64
	logger         *zap.Logger
}

// NewEngine builds a hybrid engine. semantic may be nil; store is required
// when semantic is set, to resolve semantic hits into documents.
func NewEngine(kw *keyword.Index, sem *semantic.Retriever, store storage.DocumentStore, keywordWeight, semanticWeight float64, logger *zap.Logger) (*Engine, error) {
	if kw == nil {
		return nil, errors.New("search: keyword index is required")
	}
	if sem != nil && store == nil {
		return nil, errors.New("search: document store is required with a semantic retriever")
	}
	if keywordWeight <= 0 && semanticWeight <= 0 {
		keywordWeight, semanticWeight = 0.5, 0.5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		keyword:        kw,
		semantic:       sem,
		store:          store,
		keywordWeight:  keywordWeight,
		semanticWeight: semanticWeight,
		logger:         logger,
	}, nil
}

// Search returns up to topK documents for the query. Each retriever is asked
// for more than topK so fusion has overlap to work with; a retriever that
// fails or has no index drops out and the other serves alone.
func (e *Engine) Search(ctx context.Context, query string, topK int, lang string) ([]models.SearchResult, error) {
	if topK <= 0 {
		topK = 3
	}
	internalTopK := topK * 2
	if internalTopK < 10 {
		internalTopK = 10
	}

	kwResults, err := e.keyword.Search(query, internalTopK, lang)
	if err != nil && !errors.Is(err, keyword.ErrIndexNotBuilt) {
		return nil, err
	}

	var semResults []semantic.Result
	if e.semantic != nil {
		semResults, err = e.semantic.Search(ctx, query, internalTopK, lang)
		if err != nil {
			// Embedding endpoint failures must not take retrieval down.
			e.logger.Warn("semantic search failed, using keyword only", zap.Error(err))
			semResults = nil
		}
	}

	if len(kwResults) == 0 && len(semResults) == 0 {
		return nil, nil
	}

	kwScores := minMaxNormalize(keywordScoreMap(kwResults))
	semScores := minMaxNormalize(semanticScoreMap(semResults))
	combined := fuse(kwScores, semScores, e.keywordWeight, e.semanticWeight)
	if len(combined) > topK {
		combined = combined[:topK]
	}

	docs, err := e.resolveDocuments(ctx, kwResults, combined)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(combined))
	for _, f := range combined {
		doc, ok := docs[f.id]
		if !ok {
			e.logger.Warn("fused hit has no document", zap.String("id", f.id))
			continue
		}
		results = append(results, models.SearchResult{
			Document:      doc,
			Score:         f.score,
			KeywordScore:  f.keywordScore,
			SemanticScore: f.semanticScore,
			Rank:          len(results) + 1,
		})
	}
	return results, nil
}

// resolveDocuments maps fused IDs to documents. Keyword hits already carry
// their documents; the rest are fetched from the store in one query.
func (e *Engine) resolveDocuments(ctx context.Context, kwResults []keyword.Result, combined []fused) (map[string]models.Document, error) {
	docs := make(map[string]models.Document, len(combined))
	for _, r := range kwResults {
		docs[r.Document.ID] = r.Document
	}
	var missing []string
	for _, f := range combined {
		if _, ok := docs[f.id]; !ok {
			missing = append(missing, f.id)
		}
	}
	if len(missing) > 0 && e.store != nil {
		fetched, err := e.store.GetDocuments(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, doc := range fetched {
			docs[doc.ID] = doc
		}
	}
	return docs, nil
}

// Weights reports the configured fusion weights.
func (e *Engine) Weights() (keywordWeight, semanticWeight float64) {
	return e.keywordWeight, e.semanticWeight
}

// Stats aggregates the state of both retrievers.
type Stats struct {
	Keyword        keyword.Stats   `json:"keyword"`
	Semantic       *semantic.Stats `json:"semantic,omitempty"`
	KeywordWeight  float64         `json:"keyword_weight"`
	SemanticWeight float64         `json:"semantic_weight"`
}

// Stats reports index sizes and fusion weights.
func (e *Engine) Stats() Stats {
	s := Stats{
		Keyword:        e.keyword.Stats(),
		KeywordWeight:  e.keywordWeight,
		SemanticWeight: e.semanticWeight,
	}
	if e.semantic != nil {
		semStats := e.semantic.Stats()
		s.Semantic = &semStats
	}
	return s
}
