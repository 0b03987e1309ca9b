package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/stats"
	"github.com/erazemk/najdeno/internal/store"
)

// DashboardHandler serves aggregated statistics.
type DashboardHandler struct {
	DB *sql.DB
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilters{})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to load items")
		return
	}
	jsonResponse(w, http.StatusOK, stats.Compute(items, time.Now()))
}
