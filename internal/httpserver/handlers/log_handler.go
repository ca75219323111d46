package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cipherlab/internal/models"
)

type AuditReader interface {
	SessionLogs(ctx context.Context, sessionID string, limit int) ([]models.AuditLog, error)
}

const maxLogs = 200

// GET /v1/sessions/{id}/logs returns the session's audit trail, newest first.
// ?limit= caps the row count at 200.
func SessionLogs(logs AuditReader, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := maxLogs
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, maxLogs)
		}
		rows, err := logs.SessionLogs(r.Context(), chi.URLParam(r, "id"), limit)
		if err != nil {
			lg.Errorw("load audit logs", "error", err)
			http.Error(w, "could not load logs", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []models.AuditLog{}
		}
		respondJSON(w, map[string]any{"data": rows, "count": len(rows)})
	}
}
