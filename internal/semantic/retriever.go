package semantic

import (
	"context"
	"fmt"
	"strings"

	"github.com/OuhabYouceff/RBOT/internal/models"
	"go.uber.org/zap"
)

// embedBatchSize caps how many texts go to the embedding endpoint per request.
const embedBatchSize = 32

// Result is a single semantic search hit. The document is resolved by the
// caller from its ID; the index only stores identities and vectors.
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Stats reports the current retriever state.
type Stats struct {
	Vectors    int `json:"vectors"`
	Dimensions int `json:"dimensions"`
}

// Retriever pairs an embedder with a vector index and persists the index to
// disk across restarts so documents are not re-embedded on every start.
type Retriever struct {
	embedder  Embedder
	index     *Index
	indexPath string
	logger    *zap.Logger
}

// NewRetriever builds a retriever around the given embedder. indexPath may be
// empty to disable persistence.
func NewRetriever(embedder Embedder, indexPath string, logger *zap.Logger) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("semantic: embedder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	index, err := NewIndex(embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	return &Retriever{
		embedder:  embedder,
		index:     index,
		indexPath: indexPath,
		logger:    logger,
	}, nil
}

// Build embeds the aligned texts and replaces the index contents. Documents
// must carry IDs and language tags. When an index path is configured the new
// state is persisted; write failures are logged and swallowed.
func (r *Retriever) Build(ctx context.Context, texts []string, documents []models.Document) error {
	if len(texts) != len(documents) {
		return fmt.Errorf("semantic: texts/documents length mismatch: %d != %d", len(texts), len(documents))
	}
	ids := make([]string, len(documents))
	langs := make([]string, len(documents))
	for i, doc := range documents {
		if doc.ID == "" {
			return fmt.Errorf("semantic: document %d has no ID", i)
		}
		ids[i] = doc.ID
		langs[i] = doc.Language
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := r.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return fmt.Errorf("semantic: embed batch at %d: %w", start, err)
		}
		vectors = append(vectors, batch...)
	}
	if err := r.index.Replace(ids, langs, vectors); err != nil {
		return err
	}
	r.logger.Info("semantic index built", zap.Int("vectors", len(ids)))

	if r.indexPath != "" {
		if err := r.index.Save(r.indexPath); err != nil {
			r.logger.Error("semantic index write failed", zap.String("path", r.indexPath), zap.Error(err))
		} else {
			r.logger.Info("semantic index saved", zap.String("path", r.indexPath))
		}
	}
	return nil
}

// Search embeds the query and returns up to topK document IDs with cosine
// scores, restricted to lang when non-empty. A blank query returns nothing.
func (r *Retriever) Search(ctx context.Context, query string, topK int, lang string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = 3
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed query: %w", err)
	}
	hits, err := r.index.Search(vec, topK, lang)
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{ID: h.ID, Score: h.Score}
	}
	return results, nil
}

// Load restores the persisted index. Returns true when vectors were loaded.
func (r *Retriever) Load() bool {
	if r.indexPath == "" {
		return false
	}
	if err := r.index.Load(r.indexPath); err != nil {
		r.logger.Warn("semantic index load failed", zap.String("path", r.indexPath), zap.Error(err))
		return false
	}
	n := r.index.Size()
	if n > 0 {
		r.logger.Info("semantic index loaded", zap.String("path", r.indexPath), zap.Int("vectors", n))
	}
	return n > 0
}

// Stats reports the index size and dimension.
func (r *Retriever) Stats() Stats {
	return Stats{Vectors: r.index.Size(), Dimensions: r.index.Dimensions()}
}
