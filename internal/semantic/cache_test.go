package semantic

import (
	"context"
	"sync/atomic"
	"testing"
)

// countingEmbedder wraps MockEmbedder and counts inner calls.
type countingEmbedder struct {
	*MockEmbedder
	embedCalls atomic.Int32
	batchCalls atomic.Int32
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.embedCalls.Add(1)
	return c.MockEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls.Add(1)
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedder_embedHitsCache(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	cached := NewCachedEmbedder(inner, 4)

	first, err := cached.Embed(context.Background(), "capital minimum sarl")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.Embed(context.Background(), "capital minimum sarl")
	if err != nil {
		t.Fatal(err)
	}
	if inner.embedCalls.Load() != 1 {
		t.Errorf("inner calls: %d", inner.embedCalls.Load())
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("cached vector differs from original")
		}
	}
}

func TestCachedEmbedder_batchServesMissesOnly(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	cached := NewCachedEmbedder(inner, 8)
	ctx := context.Background()

	if _, err := cached.Embed(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	out, err := cached.EmbedBatch(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("results: %d", len(out))
	}
	for i, v := range out {
		if len(v) != 8 {
			t.Errorf("result %d has %d dims", i, len(v))
		}
	}
	if inner.batchCalls.Load() != 1 {
		t.Errorf("batch calls: %d", inner.batchCalls.Load())
	}
	if cached.Len() != 3 {
		t.Errorf("cache size: %d", cached.Len())
	}

	// Fully cached batch never reaches the inner embedder.
	if _, err := cached.EmbedBatch(ctx, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if inner.batchCalls.Load() != 1 {
		t.Errorf("batch calls after cached batch: %d", inner.batchCalls.Load())
	}
}

func TestCachedEmbedder_evictsOldest(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	cached := NewCachedEmbedder(inner, 2)
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		if _, err := cached.Embed(ctx, text); err != nil {
			t.Fatal(err)
		}
	}
	if cached.Len() != 2 {
		t.Errorf("cache size: %d", cached.Len())
	}
	// "a" was evicted, so this misses and calls the inner embedder again.
	if _, err := cached.Embed(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if inner.embedCalls.Load() != 4 {
		t.Errorf("inner calls: %d", inner.embedCalls.Load())
	}
}
