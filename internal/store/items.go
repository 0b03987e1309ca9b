package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// itemColumns is the SELECT list shared by every item query.
const itemColumns = `id, title, description, category, location, date,
	status, type, image, image_fingerprint, contact_name, contact_info, created_at`

// ItemFilters narrows a listing. Empty values and the catch-all markers
// ("all" for status/type, "All" for category/location — the casing the
// frontend sends per field) mean no filtering on that field. Filters
// combine with AND semantics.
type ItemFilters struct {
	Status   string
	Type     string
	Category string
	Location string
}

// SearchFilters narrows a search on top of the free-text query.
// DateFrom/DateTo bound the item's calendar date (inclusive).
type SearchFilters struct {
	Category string
	Location string
	Type     string
	Status   string
	DateFrom string
	DateTo   string
}

// CreateItem assigns a new id and creation timestamp, then persists the item.
// The id is the current time in milliseconds, stringified; rapid creates
// within the same millisecond bump the candidate until it's free.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	if item.Status == "" {
		item.Status = model.StatusActive
	}
	item.CreatedAt = time.Now().Format(time.RFC3339)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	defer tx.Rollback()

	candidate := time.Now().UnixMilli()
	for {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE id = ?`, strconv.FormatInt(candidate, 10),
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("checking item id: %w", err)
		}
		if exists == 0 {
			break
		}
		candidate++
	}
	item.ID = strconv.FormatInt(candidate, 10)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, title, description, category, location, date,
		                    status, type, image, image_fingerprint, contact_name, contact_info, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Description, item.Category, item.Location, item.Date,
		item.Status, item.Type, item.Image, item.ImageFingerprint,
		item.ContactName, item.ContactInfo, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return &item, nil
}

// GetItem returns an item by id, or nil when no such item exists.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items in insertion order, narrowed by the given filters.
func ListItems(ctx context.Context, db *sql.DB, f ItemFilters) ([]model.Item, error) {
	var conds []string
	var args []any
	if f.Status != "" && f.Status != "all" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.Type != "" && f.Type != "all" {
		conds = append(conds, "type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" && f.Category != "All" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Location != "" && f.Location != "All" {
		conds = append(conds, "location = ?")
		args = append(args, f.Location)
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItem patches an item. Only status, title, description, category and
// location are recognized; title and description are trimmed; unrecognized
// fields are ignored. Returns the updated item, or nil when no such item
// exists. The caller is responsible for reacting to status transitions.
func UpdateItem(ctx context.Context, db *sql.DB, id string, patch map[string]any) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if v, ok := patch["status"]; ok {
		item.Status = asString(v)
	}
	if v, ok := patch["title"]; ok {
		item.Title = strings.TrimSpace(asString(v))
	}
	if v, ok := patch["description"]; ok {
		item.Description = strings.TrimSpace(asString(v))
	}
	if v, ok := patch["category"]; ok {
		item.Category = asString(v)
	}
	if v, ok := patch["location"]; ok {
		item.Location = asString(v)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET status = ?, title = ?, description = ?, category = ?, location = ?
		 WHERE id = ?`,
		item.Status, item.Title, item.Description, item.Category, item.Location, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item. Deleting a non-existent id is not an error.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SearchItems returns items matching the free-text query (case-insensitive
// substring over title, description, location, category and contact name)
// and the given filters, newest first.
func SearchItems(ctx context.Context, db *sql.DB, q string, f SearchFilters) ([]model.Item, error) {
	var conds []string
	var args []any

	q = strings.ToLower(q)
	if q != "" {
		conds = append(conds, `(instr(lower(title), ?) > 0
			OR instr(lower(description), ?) > 0
			OR instr(lower(location), ?) > 0
			OR instr(lower(category), ?) > 0
			OR instr(lower(contact_name), ?) > 0)`)
		args = append(args, q, q, q, q, q)
	}
	if f.Category != "" && f.Category != "All" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Location != "" && f.Location != "All" {
		conds = append(conds, "location = ?")
		args = append(args, f.Location)
	}
	if f.Type != "" && f.Type != "all" {
		conds = append(conds, "type = ?")
		args = append(args, f.Type)
	}
	if f.Status != "" && f.Status != "all" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.DateFrom != "" {
		conds = append(conds, "date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		conds = append(conds, "date <= ?")
		args = append(args, f.DateTo)
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// RFC 3339 timestamps sort lexicographically; rowid breaks same-second ties.
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchSuggestions returns up to limit distinct titles, categories and
// locations containing the query (case-insensitive), in first-encountered
// order. Queries shorter than two characters yield nothing.
func SearchSuggestions(ctx context.Context, db *sql.DB, q string, limit int) ([]string, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if len(q) < 2 {
		return nil, nil
	}

	items, err := ListItems(ctx, db, ItemFilters{})
	if err != nil {
		return nil, fmt.Errorf("collecting suggestions: %w", err)
	}

	seen := make(map[string]bool)
	var suggestions []string
	collect := func(value string) {
		if value == "" || seen[value] {
			return
		}
		if strings.Contains(strings.ToLower(value), q) {
			seen[value] = true
			suggestions = append(suggestions, value)
		}
	}
	for _, item := range items {
		collect(item.Title)
		collect(item.Category)
		collect(item.Location)
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// CountItems returns the total number of stored items.
func CountItems(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	err := s.Scan(
		&item.ID, &item.Title, &item.Description, &item.Category, &item.Location, &item.Date,
		&item.Status, &item.Type, &item.Image, &item.ImageFingerprint,
		&item.ContactName, &item.ContactInfo, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// asString coerces a patch value to a string.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
