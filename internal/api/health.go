package api

import (
	"database/sql"
	"net/http"
)

// HealthHandler is a fixed, non-parameterized diagnostic. It replaces the
// arbitrary-SQL debug endpoint of earlier revisions, which must not be
// exposed.
type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *HealthHandler) HealthHandler(w http.ResponseWriter, r *http.Request) error {
	var one int
	if err := h.db.QueryRowContext(r.Context(), "SELECT 1").Scan(&one); err != nil {
		return err
	}
	return WriteJsonResponse(w, HealthResponse{Status: "ok"})
}
