package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	searchHandler := &SearchHandler{DB: db}
	badgesHandler := &BadgesHandler{DB: db}
	dashboardHandler := &DashboardHandler{DB: db}

	mux.HandleFunc("GET /api/health", health)

	// Items.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("GET /api/items/{id}/similar", itemsHandler.Similar)
	mux.HandleFunc("GET /api/items/{id}/qr", itemsHandler.QR)

	// Search.
	mux.HandleFunc("GET /api/search", searchHandler.Search)
	mux.HandleFunc("GET /api/search/suggestions", searchHandler.Suggestions)

	// Badges and dashboard.
	mux.HandleFunc("GET /api/badges/{contact}", badgesHandler.Get)
	mux.HandleFunc("GET /api/dashboard", dashboardHandler.Get)

	return mux
}

// health handles GET /api/health.
func health(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Lost and Found API is running",
	})
}
