package semantic

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// entry is one stored vector with its document identity and language tag.
type entry struct {
	id     string
	lang   string
	vector []float32
}

// Index is a brute-force inner product index. Vectors are unit-normalized by
// the embedder, so inner product equals cosine similarity. Entries carry a
// language tag and searches only score entries in the requested language.
type Index struct {
	dimensions int

	mu      sync.RWMutex
	entries []entry
}

// Hit is a scored index entry.
type Hit struct {
	ID    string
	Score float64
}

// NewIndex creates an empty index for vectors of the given dimension.
func NewIndex(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("semantic: dimensions must be positive, got %d", dimensions)
	}
	return &Index{dimensions: dimensions}, nil
}

// Replace swaps the index contents wholesale. ids, langs and vectors must be
// index-aligned; vectors are copied so callers may reuse their buffers.
func (ix *Index) Replace(ids, langs []string, vectors [][]float32) error {
	if len(ids) != len(vectors) || len(ids) != len(langs) {
		return fmt.Errorf("semantic: ids/langs/vectors length mismatch: %d/%d/%d", len(ids), len(langs), len(vectors))
	}
	next := make([]entry, len(ids))
	for i, id := range ids {
		if len(vectors[i]) != ix.dimensions {
			return fmt.Errorf("semantic: vector %d has dimension %d, expected %d", i, len(vectors[i]), ix.dimensions)
		}
		vec := make([]float32, ix.dimensions)
		copy(vec, vectors[i])
		next[i] = entry{id: id, lang: langs[i], vector: vec}
	}
	ix.mu.Lock()
	ix.entries = next
	ix.mu.Unlock()
	return nil
}

// Search returns up to k entries in the given language by descending inner
// product. lang "" scores every entry.
func (ix *Index) Search(query []float32, k int, lang string) ([]Hit, error) {
	if len(query) != ix.dimensions {
		return nil, fmt.Errorf("semantic: query dimension %d, expected %d", len(query), ix.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]Hit, 0, len(ix.entries))
	for _, e := range ix.entries {
		if lang != "" && e.lang != lang {
			continue
		}
		var dot float64
		for j := 0; j < ix.dimensions; j++ {
			dot += float64(query[j] * e.vector[j])
		}
		hits = append(hits, Hit{ID: e.id, Score: dot})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Size returns the number of stored vectors.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Dimensions returns the vector dimension.
func (ix *Index) Dimensions() int {
	return ix.dimensions
}

// Save persists the index to path. Format: dimensions (4), n (4), then per
// entry: idLen (4), id bytes, langLen (4), lang bytes, vector (dimensions*4).
func (ix *Index) Save(path string) error {
	if path == "" {
		return nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, uint32(ix.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(ix.entries))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for _, e := range ix.entries {
		if err := writeString(f, e.id); err != nil {
			return fmt.Errorf("write id: %w", err)
		}
		if err := writeString(f, e.lang); err != nil {
			return fmt.Errorf("write language: %w", err)
		}
		if _, err := f.Write(float32SliceToBytes(e.vector)); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// Load reads the index from path and replaces the in-memory contents.
// A missing file is not an error and leaves the index unchanged.
func (ix *Index) Load(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var dim, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	if int(dim) != ix.dimensions {
		return fmt.Errorf("dimension mismatch: file has %d, index expects %d", dim, ix.dimensions)
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("read count: %w", err)
	}
	next := make([]entry, 0, n)
	buf := make([]byte, ix.dimensions*4)
	for i := uint32(0); i < n; i++ {
		id, err := readString(f)
		if err != nil {
			return fmt.Errorf("read id: %w", err)
		}
		lang, err := readString(f)
		if err != nil {
			return fmt.Errorf("read language: %w", err)
		}
		if _, err := io.ReadFull(f, buf); err != nil {
			return fmt.Errorf("read vector: %w", err)
		}
		next = append(next, entry{id: id, lang: lang, vector: bytesToFloat32Slice(buf)})
	}
	ix.mu.Lock()
	ix.entries = next
	ix.mu.Unlock()
	return nil
}

func writeString(f *os.File, s string) error {
	b := []byte(s)
	if err := binary.Write(f, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := f.Write(b)
	return err
}

func readString(f *os.File) (string, error) {
	var n uint32
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(f, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
