package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/najdeno/internal/store"
)

// BadgesHandler serves per-user badge records.
type BadgesHandler struct {
	DB *sql.DB
}

// Get handles GET /api/badges/{contact}. Unknown users get a zero-valued
// record rather than a 404, so the frontend can always render the widget.
func (h *BadgesHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := store.GetBadgeRecord(r.Context(), h.DB, r.PathValue("contact"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get badges")
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}
