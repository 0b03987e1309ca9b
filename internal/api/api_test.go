package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database))
	t.Cleanup(server.Close)
	return server
}

func itemPayload(title, itemType, contact string) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "description of " + title,
		"category":    "Bags",
		"location":    "Library",
		"date":        "2025-01-28",
		"type":        itemType,
		"contactName": "Sarah Johnson",
		"contactInfo": contact,
	}
}

// createItem posts a payload and returns the decoded response body.
func createItem(t *testing.T, server *httptest.Server, payload map[string]any) map[string]any {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := http.Post(server.URL+"/api/items", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var result map[string]any
	json.NewDecoder(resp.Body).Decode(&result)
	return result
}

func getJSON(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	defer resp.Body.Close()
	if target != nil {
		json.NewDecoder(resp.Body).Decode(target)
	}
	return resp.StatusCode
}

func itemID(t *testing.T, created map[string]any) string {
	t.Helper()
	item, ok := created["item"].(map[string]any)
	if !ok {
		t.Fatalf("expected item in response, got %v", created)
	}
	id, _ := item["id"].(string)
	if id == "" {
		t.Fatal("expected non-empty item id")
	}
	return id
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer(t)

	var body map[string]string
	if status := getJSON(t, server.URL+"/api/health", &body); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy status, got %q", body["status"])
	}
}

func TestCreateAndListItems(t *testing.T) {
	server := setupTestServer(t)

	created := createItem(t, server, itemPayload("Blue Backpack", "found", "sarah.j@campus.edu"))
	if created["hasMatch"] != false {
		t.Errorf("expected hasMatch false, got %v", created["hasMatch"])
	}

	var items []model.Item
	if status := getJSON(t, server.URL+"/api/items", &items); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(items) != 1 || items[0].Title != "Blue Backpack" {
		t.Errorf("expected the created item back, got %v", items)
	}

	// Filtered listing.
	createItem(t, server, itemPayload("Black Phone", "lost", "mike.chen@campus.edu"))
	getJSON(t, server.URL+"/api/items?type=lost", &items)
	if len(items) != 1 || items[0].Type != "lost" {
		t.Errorf("expected 1 lost item, got %d", len(items))
	}
	getJSON(t, server.URL+"/api/items?type=all", &items)
	if len(items) != 2 {
		t.Errorf("expected catch-all type to return 2 items, got %d", len(items))
	}
}

func TestCreateValidation(t *testing.T) {
	server := setupTestServer(t)

	payload := itemPayload("Backpack", "found", "sarah.j@campus.edu")
	delete(payload, "title")
	body, _ := json.Marshal(payload)
	resp, err := http.Post(server.URL+"/api/items", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var errBody map[string]string
	json.NewDecoder(resp.Body).Decode(&errBody)
	if errBody["error"] != "title is required" {
		t.Errorf("expected specific validation reason, got %q", errBody["error"])
	}
}

func TestGetItem(t *testing.T) {
	server := setupTestServer(t)

	id := itemID(t, createItem(t, server, itemPayload("Backpack", "found", "sarah.j@campus.edu")))

	var item model.Item
	if status := getJSON(t, server.URL+"/api/items/"+id, &item); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if item.ID != id {
		t.Errorf("expected item %q, got %q", id, item.ID)
	}

	if status := getJSON(t, server.URL+"/api/items/999999", nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", status)
	}
}

func TestClaimAwardsBadge(t *testing.T) {
	server := setupTestServer(t)

	id := itemID(t, createItem(t, server, itemPayload("Backpack", "found", "sarah.j@campus.edu")))

	body, _ := json.Marshal(map[string]string{"status": "claimed"})
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/items/"+id, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("update request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var rec model.BadgeRecord
	getJSON(t, server.URL+"/api/badges/sarah.j@campus.edu", &rec)
	if rec.ReportedCount != 1 || rec.ClaimedCount != 1 {
		t.Errorf("expected counters 1/1, got %d/%d", rec.ReportedCount, rec.ClaimedCount)
	}
	wantBadges := map[string]bool{model.BadgeFirstReport: true, model.BadgeFirstClaim: true}
	for _, b := range rec.Badges {
		if !wantBadges[b] {
			t.Errorf("unexpected badge %q", b)
		}
		delete(wantBadges, b)
	}
	if len(wantBadges) != 0 {
		t.Errorf("missing badges: %v", wantBadges)
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	server := setupTestServer(t)

	id := itemID(t, createItem(t, server, itemPayload("Backpack", "found", "sarah.j@campus.edu")))

	body, _ := json.Marshal(map[string]string{"status": "archived"})
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/items/"+id, bytes.NewReader(body))
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", resp.StatusCode)
	}
}

func TestUpdateNotFound(t *testing.T) {
	server := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"title": "x"})
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/items/999999", bytes.NewReader(body))
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	server := setupTestServer(t)

	id := itemID(t, createItem(t, server, itemPayload("Backpack", "found", "sarah.j@campus.edu")))

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/items/"+id, nil)
		resp, _ := http.DefaultClient.Do(req)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("delete %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}

	if status := getJSON(t, server.URL+"/api/items/"+id, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
}

func TestDuplicatePhotoDetection(t *testing.T) {
	server := setupTestServer(t)

	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("shared photo bytes"))

	first := itemPayload("Backpack", "found", "sarah.j@campus.edu")
	first["image"] = image
	firstID := itemID(t, createItem(t, server, first))

	second := itemPayload("My Lost Backpack", "lost", "mike.chen@campus.edu")
	second["image"] = image
	created := createItem(t, server, second)

	if created["hasMatch"] != true {
		t.Fatalf("expected hasMatch true, got %v", created["hasMatch"])
	}
	similar, _ := created["similarItems"].([]any)
	if len(similar) != 1 {
		t.Fatalf("expected 1 similar item, got %d", len(similar))
	}
	candidate := similar[0].(map[string]any)
	if candidate["id"] != firstID {
		t.Errorf("expected match with %q, got %v", firstID, candidate["id"])
	}
	if candidate["similarity"] != float64(100) {
		t.Errorf("expected similarity 100, got %v", candidate["similarity"])
	}

	// The similar endpoint reports the same pairing from the other side.
	var fromFirst []map[string]any
	if status := getJSON(t, server.URL+"/api/items/"+firstID+"/similar", &fromFirst); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(fromFirst) != 1 {
		t.Fatalf("expected 1 similar item, got %d", len(fromFirst))
	}

	// Finding a duplicate unlocks the matchmaker badge for the reporter.
	var rec model.BadgeRecord
	getJSON(t, server.URL+"/api/badges/mike.chen@campus.edu", &rec)
	if rec.MatchCount != 1 {
		t.Errorf("expected matchCount 1, got %d", rec.MatchCount)
	}
}

func TestSimilarWithoutImage(t *testing.T) {
	server := setupTestServer(t)

	id := itemID(t, createItem(t, server, itemPayload("Backpack", "found", "sarah.j@campus.edu")))

	var similar []any
	if status := getJSON(t, server.URL+"/api/items/"+id+"/similar", &similar); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(similar) != 0 {
		t.Errorf("expected no candidates without a fingerprint, got %v", similar)
	}
}

func TestSearchEndpoint(t *testing.T) {
	server := setupTestServer(t)

	createItem(t, server, itemPayload("Blue Backpack", "found", "sarah.j@campus.edu"))
	createItem(t, server, itemPayload("Black Phone", "lost", "mike.chen@campus.edu"))

	var items []model.Item
	if status := getJSON(t, server.URL+"/api/search?q=backpack", &items); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(items) != 1 || items[0].Title != "Blue Backpack" {
		t.Errorf("expected the backpack, got %v", items)
	}

	getJSON(t, server.URL+"/api/search?q=backpack&type=lost", &items)
	if len(items) != 0 {
		t.Errorf("expected no lost backpacks, got %d", len(items))
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	createItem(t, server, itemPayload("Blue Backpack", "found", "sarah.j@campus.edu"))

	var suggestions []string
	if status := getJSON(t, server.URL+"/api/search/suggestions?q=blu", &suggestions); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(suggestions) != 1 || suggestions[0] != "Blue Backpack" {
		t.Errorf("expected [Blue Backpack], got %v", suggestions)
	}

	getJSON(t, server.URL+"/api/search/suggestions?q=b", &suggestions)
	if len(suggestions) != 0 {
		t.Errorf("expected no suggestions for 1-char query, got %v", suggestions)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	server := setupTestServer(t)

	for _, title := range []string{"A", "B", "C"} {
		createItem(t, server, itemPayload(title, "lost", "sarah.j@campus.edu"))
	}
	id := itemID(t, createItem(t, server, itemPayload("D", "found", "mike.chen@campus.edu")))

	body, _ := json.Marshal(map[string]string{"status": "claimed"})
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/items/"+id, bytes.NewReader(body))
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()

	var dashboard struct {
		Stats struct {
			TotalItems int     `json:"totalItems"`
			ClaimRate  float64 `json:"claimRate"`
		} `json:"stats"`
		ItemsByDate map[string]int `json:"itemsByDate"`
	}
	if status := getJSON(t, server.URL+"/api/dashboard", &dashboard); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if dashboard.Stats.TotalItems != 4 {
		t.Errorf("expected 4 items, got %d", dashboard.Stats.TotalItems)
	}
	if dashboard.Stats.ClaimRate != 25.0 {
		t.Errorf("expected claim rate 25.0, got %v", dashboard.Stats.ClaimRate)
	}
	if dashboard.ItemsByDate["0"] != 4 {
		t.Errorf("expected 4 items bucketed today, got %d", dashboard.ItemsByDate["0"])
	}
}

func TestQRPayload(t *testing.T) {
	server := setupTestServer(t)

	id := itemID(t, createItem(t, server, itemPayload("Backpack", "found", "sarah.j@campus.edu")))

	var qr map[string]string
	if status := getJSON(t, server.URL+"/api/items/"+id+"/qr", &qr); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if qr["itemId"] != id || qr["url"] != "/items/"+id || qr["title"] != "Backpack" {
		t.Errorf("unexpected QR payload: %v", qr)
	}

	if status := getJSON(t, server.URL+"/api/items/999999/qr", nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", status)
	}
}
