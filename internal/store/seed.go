package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// sampleItems are inserted into an empty catalog so a fresh install has
// something to browse.
var sampleItems = []model.Item{
	{
		Title:       "Blue Backpack",
		Description: "A blue JanSport backpack with laptop compartment. Contains some textbooks.",
		Category:    "Bags",
		Location:    "Library - 2nd Floor",
		Date:        "2025-01-28",
		Status:      model.StatusActive,
		Type:        model.TypeFound,
		ContactName: "Sarah Johnson",
		ContactInfo: "sarah.j@campus.edu",
	},
	{
		Title:       "iPhone 14 Pro",
		Description: "Black iPhone with a cracked screen protector. Has a purple case.",
		Category:    "Electronics",
		Location:    "Student Center",
		Date:        "2025-01-29",
		Status:      model.StatusActive,
		Type:        model.TypeLost,
		ContactName: "Mike Chen",
		ContactInfo: "mike.chen@campus.edu",
	},
}

// SeedSampleItems inserts the sample catalog if no items exist yet.
func SeedSampleItems(ctx context.Context, db *sql.DB) error {
	n, err := CountItems(ctx, db)
	if err != nil {
		return fmt.Errorf("seeding sample items: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, item := range sampleItems {
		if _, err := CreateItem(ctx, db, item); err != nil {
			return fmt.Errorf("seeding sample items: %w", err)
		}
	}
	return nil
}
