package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/match"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
	"github.com/erazemk/najdeno/internal/validate"
)

// ItemsHandler handles item CRUD and matching endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilters{
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Location: q.Get("location"),
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. On success it also reports which existing
// items carry the same photo, so the frontend can prompt about duplicates.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeJSON(r, &payload); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.Item(payload); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := model.Item{
		Title:       strings.TrimSpace(field(payload, "title")),
		Description: strings.TrimSpace(field(payload, "description")),
		Category:    field(payload, "category"),
		Location:    field(payload, "location"),
		Date:        field(payload, "date"),
		Status:      field(payload, "status"),
		Type:        field(payload, "type"),
		Image:       field(payload, "image"),
		ContactName: strings.TrimSpace(field(payload, "contactName")),
		ContactInfo: strings.TrimSpace(field(payload, "contactInfo")),
	}
	if item.Image != "" {
		// Fingerprint the bytes as uploaded; normalization may re-encode.
		item.ImageFingerprint = imaging.Fingerprint(item.Image)
		item.Image = imaging.Normalize(item.Image)
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	// Badge awards ride on an already-persisted item; log failures instead
	// of failing the create.
	if err := store.AwardBadge(r.Context(), h.DB, created.ContactInfo, store.EventReport); err != nil {
		slog.Error("awarding report badge", "error", err, "contact", created.ContactInfo)
	}

	similar := []match.Candidate{}
	if created.ImageFingerprint != "" {
		items, err := store.ListItems(r.Context(), h.DB, store.ItemFilters{})
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to scan for matches")
			return
		}
		if found := match.FindSimilar(created.ImageFingerprint, items, created.ID); found != nil {
			similar = found
		}
	}
	if len(similar) > 0 {
		if err := store.AwardBadge(r.Context(), h.DB, created.ContactInfo, store.EventMatch); err != nil {
			slog.Error("awarding match badge", "error", err, "contact", created.ContactInfo)
		}
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"item":         created,
		"similarItems": similar,
		"hasMatch":     len(similar) > 0,
	})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}, primarily used for marking an item
// claimed. Unrecognized payload fields are ignored.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload map[string]any
	if err := decodeJSON(r, &payload); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := ""
	if _, ok := payload["status"]; ok {
		status = field(payload, "status")
		switch status {
		case model.StatusActive, model.StatusClaimed, model.StatusPending:
		default:
			jsonError(w, http.StatusBadRequest, "status must be 'active', 'claimed', or 'pending'")
			return
		}
	}

	item, err := store.UpdateItem(r.Context(), h.DB, id, payload)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if status == model.StatusClaimed {
		if err := store.AwardBadge(r.Context(), h.DB, item.ContactInfo, store.EventClaim); err != nil {
			slog.Error("awarding claim badge", "error", err, "contact", item.ContactInfo)
		}
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}. Idempotent.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteItem(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Similar handles GET /api/items/{id}/similar.
func (h *ItemsHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	similar := []match.Candidate{}
	if item.ImageFingerprint != "" {
		items, err := store.ListItems(r.Context(), h.DB, store.ItemFilters{})
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to scan for matches")
			return
		}
		if found := match.FindSimilar(item.ImageFingerprint, items, id); found != nil {
			similar = found
		}
	}
	jsonResponse(w, http.StatusOK, similar)
}

// QR handles GET /api/items/{id}/qr. It returns the payload the frontend
// encodes into a QR code; the code itself is generated client-side.
func (h *ItemsHandler) QR(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{
		"itemId": id,
		"url":    "/items/" + id,
		"title":  item.Title,
	})
}

// field coerces a payload value to a string.
func field(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
