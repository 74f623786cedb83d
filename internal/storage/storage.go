// Package storage persists the loaded document set so individual documents
// can be served by ID without holding the raw corpus files in memory.
package storage

import (
	"context"

	"github.com/OuhabYouceff/RBOT/internal/models"
)

// DocumentStore is the persistence surface for RNE documents.
type DocumentStore interface {
	// ReplaceAll atomically replaces the stored document set. Used on every
	// index rebuild so the store always mirrors the current corpus.
	ReplaceAll(ctx context.Context, docs []models.Document) error

	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocuments(ctx context.Context, ids []string) ([]models.Document, error)
	ListDocuments(ctx context.Context, language string, offset, limit int) ([]models.Document, error)

	CountDocuments(ctx context.Context) (int64, error)
	CountByLanguage(ctx context.Context, language string) (int64, error)

	Close() error
}
