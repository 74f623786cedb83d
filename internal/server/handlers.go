package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/OuhabYouceff/RBOT/internal/forms"
	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	s.logger.Debug("chat request",
		zap.String("conversation_id", req.ConversationID),
		zap.Int("history", len(req.ConversationHistory)))
	resp, err := s.chat.Process(r.Context(), req)
	if err != nil {
		s.logger.Error("chat pipeline failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:  "Une erreur s'est produite. Veuillez réessayer.",
			Status: "error",
		})
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	start := time.Now()
	results, err := s.searcher.Search(r.Context(), req.Query, req.TopK, req.Language)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	lang := req.Language
	if lang == "" && len(results) > 0 {
		lang = results[0].Document.Language
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	s.respondJSON(w, http.StatusOK, models.SearchResponse{
		Results:   results,
		Total:     len(results),
		Language:  lang,
		QueryTime: time.Since(start).Milliseconds(),
		Query:     req.Query,
	})
}

func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"forms": forms.All()})
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	form, ok := forms.ByCode(code)
	if !ok {
		s.respondError(w, http.StatusNotFound, "form not found")
		return
	}
	s.respondJSON(w, http.StatusOK, form)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.store.CountDocuments(ctx)
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	kwStats := s.keyword.Stats()
	resp := map[string]interface{}{
		"documents":     docCount,
		"keyword_index": kwStats,
	}
	if s.semantic != nil {
		resp["semantic_index"] = s.semantic.Stats()
	}
	resp["config"] = map[string]interface{}{
		"supported_languages": s.config.Language.Supported,
		"default_language":    s.config.Language.Default,
		"top_k":               s.config.Retrieval.TopK,
		"keyword_weight":      s.config.Retrieval.KeywordWeight,
		"semantic_weight":     s.config.Retrieval.SemanticWeight,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if s.rebuild == nil {
		s.respondError(w, http.StatusNotImplemented, "rebuild not available")
		return
	}
	s.logger.Info("rebuild requested")
	if err := s.rebuild(r.Context()); err != nil {
		s.logger.Error("rebuild failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "rebuilt",
		"keyword_index": s.keyword.Stats(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
