package keyword

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OuhabYouceff/RBOT/internal/models"
)

// snapshotFile is the on-disk form of the index state. It records the
// tokenized corpora and document lists per language; the ranking models are
// cheap to rebuild and are not persisted. Internal cache format, not
// wire-stable.
type snapshotFile struct {
	TokenizedCorpusFR [][]string        `json:"tokenized_corpus_fr"`
	TokenizedCorpusAR [][]string        `json:"tokenized_corpus_ar"`
	DocumentsFR       []models.Document `json:"documents_fr"`
	DocumentsAR       []models.Document `json:"documents_ar"`
}

func saveSnapshot(path string, snap *snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	fr := snap.partitions[models.LangFrench]
	ar := snap.partitions[models.LangArabic]
	data, err := json.Marshal(snapshotFile{
		TokenizedCorpusFR: fr.tokenized,
		TokenizedCorpusAR: ar.tokenized,
		DocumentsFR:       fr.documents,
		DocumentsAR:       ar.documents,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	// Scoring indexes into the document list, so a snapshot whose corpora and
	// documents disagree is corrupt.
	if len(file.TokenizedCorpusFR) != len(file.DocumentsFR) {
		return nil, fmt.Errorf("corrupt snapshot: %d fr token lists for %d fr documents",
			len(file.TokenizedCorpusFR), len(file.DocumentsFR))
	}
	if len(file.TokenizedCorpusAR) != len(file.DocumentsAR) {
		return nil, fmt.Errorf("corrupt snapshot: %d ar token lists for %d ar documents",
			len(file.TokenizedCorpusAR), len(file.DocumentsAR))
	}
	snap := emptySnapshot()
	snap.partitions[models.LangFrench].tokenized = file.TokenizedCorpusFR
	snap.partitions[models.LangFrench].documents = file.DocumentsFR
	snap.partitions[models.LangArabic].tokenized = file.TokenizedCorpusAR
	snap.partitions[models.LangArabic].documents = file.DocumentsAR
	return snap, nil
}
