package semantic

import (
	"math"
	"path/filepath"
	"testing"
)

func unit(vals ...float32) []float32 {
	var sum float64
	for _, v := range vals {
		sum += float64(v * v)
	}
	norm := float32(1.0 / math.Sqrt(sum))
	out := make([]float32, len(vals))
	for i, v := range vals {
		out[i] = v * norm
	}
	return out
}

func TestIndex_searchRanksByInnerProduct(t *testing.T) {
	ix, err := NewIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	err = ix.Replace(
		[]string{"a", "b", "c"},
		[]string{"fr", "fr", "fr"},
		[][]float32{unit(1, 0, 0), unit(0, 1, 0), unit(1, 1, 0)},
	)
	if err != nil {
		t.Fatal(err)
	}
	hits, err := ix.Search(unit(1, 0, 0), 2, "fr")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ID != "a" {
		t.Errorf("best hit: got %s, want a", hits[0].ID)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits not sorted descending")
	}
	if math.Abs(hits[0].Score-1.0) > 1e-5 {
		t.Errorf("identical vector should score ~1.0, got %f", hits[0].Score)
	}
}

func TestIndex_languageFilter(t *testing.T) {
	ix, _ := NewIndex(2)
	if err := ix.Replace(
		[]string{"fr-doc", "ar-doc"},
		[]string{"fr", "ar"},
		[][]float32{unit(1, 0), unit(1, 0)},
	); err != nil {
		t.Fatal(err)
	}
	hits, err := ix.Search(unit(1, 0), 10, "ar")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != "ar-doc" {
		t.Errorf("language filter: got %v", hits)
	}
	hits, _ = ix.Search(unit(1, 0), 10, "")
	if len(hits) != 2 {
		t.Errorf("empty language should match all, got %v", hits)
	}
}

func TestIndex_dimensionChecks(t *testing.T) {
	if _, err := NewIndex(0); err == nil {
		t.Error("expected error for zero dimensions")
	}
	ix, _ := NewIndex(3)
	if err := ix.Replace([]string{"a"}, []string{"fr"}, [][]float32{{1, 0}}); err == nil {
		t.Error("expected dimension mismatch on Replace")
	}
	if _, err := ix.Search([]float32{1, 0}, 1, ""); err == nil {
		t.Error("expected dimension mismatch on Search")
	}
}

func TestIndex_saveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors", "index.bin")
	ix, _ := NewIndex(3)
	if err := ix.Replace(
		[]string{"a", "b"},
		[]string{"fr", "ar"},
		[][]float32{unit(1, 2, 3), unit(3, 2, 1)},
	); err != nil {
		t.Fatal(err)
	}
	if err := ix.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewIndex(3)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded size: got %d, want 2", loaded.Size())
	}
	want, _ := ix.Search(unit(1, 2, 3), 2, "")
	got, _ := loaded.Search(unit(1, 2, 3), 2, "")
	if len(got) != len(want) {
		t.Fatalf("hit counts differ: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i].ID != want[i].ID || math.Abs(got[i].Score-want[i].Score) > 1e-6 {
			t.Errorf("hit %d differs after reload: %v vs %v", i, got[i], want[i])
		}
	}
}

func TestIndex_loadMissingFile(t *testing.T) {
	ix, _ := NewIndex(3)
	if err := ix.Load(filepath.Join(t.TempDir(), "absent.bin")); err != nil {
		t.Errorf("missing file should not error: %v", err)
	}
	if ix.Size() != 0 {
		t.Errorf("size after missing load: %d", ix.Size())
	}
}

func TestIndex_loadDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	ix, _ := NewIndex(3)
	if err := ix.Replace([]string{"a"}, []string{"fr"}, [][]float32{unit(1, 1, 1)}); err != nil {
		t.Fatal(err)
	}
	if err := ix.Save(path); err != nil {
		t.Fatal(err)
	}
	other, _ := NewIndex(4)
	if err := other.Load(path); err == nil {
		t.Error("expected dimension mismatch error")
	}
}
