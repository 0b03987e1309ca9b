package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// suggestionLimit caps autocomplete results.
const suggestionLimit = 10

// SearchHandler handles search and autocomplete endpoints.
type SearchHandler struct {
	DB *sql.DB
}

// Search handles GET /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := store.SearchItems(r.Context(), h.DB, q.Get("q"), store.SearchFilters{
		Category: q.Get("category"),
		Location: q.Get("location"),
		Type:     q.Get("type"),
		Status:   q.Get("status"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to search items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Suggestions handles GET /api/search/suggestions.
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := store.SearchSuggestions(r.Context(), h.DB, r.URL.Query().Get("q"), suggestionLimit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	jsonResponse(w, http.StatusOK, suggestions)
}
