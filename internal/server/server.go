// Package server provides the HTTP API for the RNE assistant.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/OuhabYouceff/RBOT/internal/config"
	"github.com/OuhabYouceff/RBOT/internal/keyword"
	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/OuhabYouceff/RBOT/internal/semantic"
	"github.com/OuhabYouceff/RBOT/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ChatService answers one chat turn.
type ChatService interface {
	Process(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// Searcher is the direct retrieval surface.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, lang string) ([]models.SearchResult, error)
}

// Server is the HTTP server for the assistant API.
type Server struct {
	chat     ChatService
	searcher Searcher
	keyword  *keyword.Index
	semantic *semantic.Retriever
	store    storage.DocumentStore
	rebuild  func(ctx context.Context) error
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. semantic may be nil
// when the service runs keyword-only.
func NewServer(
	chat ChatService,
	searcher Searcher,
	kw *keyword.Index,
	sem *semantic.Retriever,
	store storage.DocumentStore,
	rebuild func(ctx context.Context) error,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		chat:     chat,
		searcher: searcher,
		keyword:  kw,
		semantic: sem,
		store:    store,
		rebuild:  rebuild,
		config:   cfg,
		logger:   logger,
	}
}

// Router assembles the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/chat", s.handleChat)
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/forms", s.handleListForms)
	r.Get("/api/v1/forms/{code}", s.handleGetForm)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Get("/api/v1/status", s.handleStatus)
	r.Post("/api/v1/index/rebuild", s.handleRebuild)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
