package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/raphaelgruber/newsrag/internal/models"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query must not be empty"})
		return
	}

	// A missing session ID starts a fresh conversation.
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.rag.Sessions().CreateSession()
	}

	answer, sources, err := s.rag.Query(r.Context(), req.Query, sessionID)
	if err != nil {
		s.logger.Error("query failed", "session", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if sources == nil {
		sources = []models.Source{}
	}
	writeJSON(w, http.StatusOK, models.QueryResponse{
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	stats, err := s.rag.GetArticleAnalytics(r.Context())
	if err != nil {
		s.logger.Error("analytics failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if stats.ArticleTitles == nil {
		stats.ArticleTitles = []string{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
