package semantic

import (
	"context"
	"fmt"

	"github.com/OuhabYouceff/RBOT/pkg/utils"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint. It works
// against the hosted API or any local server speaking the same protocol.
type OpenAIEmbedder struct {
	embedder   embeddings.Embedder
	dimensions int
}

// NewOpenAIEmbedder builds an embedder against the given host. token may be
// "none" for local servers that skip authentication.
func NewOpenAIEmbedder(host, token, model string, dimensions int) (*OpenAIEmbedder, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("semantic: dimensions must be positive, got %d", dimensions)
	}
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("semantic: create embedding client: %w", err)
	}
	emb, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("semantic: wrap embedder: %w", err)
	}
	return &OpenAIEmbedder{embedder: emb, dimensions: dimensions}, nil
}

// Embed returns the unit-normalized embedding of a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("semantic: embedding endpoint returned no vectors")
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request and normalizes each vector to unit
// length so that inner product equals cosine similarity.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed %d texts: %w", len(texts), err)
	}
	for i, v := range vecs {
		if len(v) != e.dimensions {
			return nil, fmt.Errorf("semantic: endpoint returned %d-dim vector, expected %d", len(v), e.dimensions)
		}
		utils.NormalizeL2(vecs[i])
	}
	return vecs, nil
}

// Dimensions returns the configured embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}
