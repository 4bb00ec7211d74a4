package handlers

import (
	"database/sql"
	"net/http"
)

// Health reports service liveness and database reachability.
type Health struct {
	db      *sql.DB
	service string
}

// NewHealth creates the health endpoint handler.
func NewHealth(db *sql.DB, service string) *Health {
	return &Health{db: db, service: service}
}

// Check handles GET /api/health.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.PingContext(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unavailable"
	}

	respondJSON(w, status, map[string]string{
		"status":   "ok",
		"service":  h.service,
		"database": dbStatus,
	})
}
