package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/OuhabYouceff/RBOT/internal/keyword"
	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/OuhabYouceff/RBOT/internal/semantic"
	"github.com/OuhabYouceff/RBOT/internal/textproc"
	"go.uber.org/zap"
)

func buildKeywordIndex(b *testing.B, n int) *keyword.Index {
	b.Helper()
	processor := textproc.New([]string{"fr", "ar"}, "fr")
	idx, err := keyword.NewIndex(processor, "", zap.NewNop())
	if err != nil {
		b.Fatal(err)
	}
	texts := make([]string, n)
	docs := make([]models.Document, n)
	for i := 0; i < n; i++ {
		texts[i] = fmt.Sprintf("document immatriculation capital société numéro %d registre entreprise tunisie", i)
		docs[i] = models.Document{ID: fmt.Sprintf("doc-%d", i), Language: "fr", Content: texts[i]}
	}
	if _, err := idx.Build(texts, docs); err != nil {
		b.Fatal(err)
	}
	return idx
}

func BenchmarkKeywordSearch(b *testing.B) {
	idx := buildKeywordIndex(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := idx.Search("capital immatriculation société", 10, "fr"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVectorIndexSearch(b *testing.B) {
	const dims = 384
	idx, err := semantic.NewIndex(dims)
	if err != nil {
		b.Fatal(err)
	}
	n := 1000
	ids := make([]string, n)
	langs := make([]string, n)
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("doc-%d", i)
		langs[i] = "fr"
		vec := make([]float32, dims)
		vec[i%dims] = 1.0
		vectors[i] = vec
	}
	if err := idx.Replace(ids, langs, vectors); err != nil {
		b.Fatal(err)
	}
	query := make([]float32, dims)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := idx.Search(query, 10, ""); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMockEmbedder(b *testing.B) {
	e := semantic.NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Embed(ctx, "quel est le capital minimum d'une sarl"); err != nil {
			b.Fatal(err)
		}
	}
}
