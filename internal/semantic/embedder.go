// Package semantic provides embedding-based retrieval over the RNE document
// set. An Embedder turns text into unit vectors; the Index does brute-force
// inner product search with a language filter.
package semantic

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}
