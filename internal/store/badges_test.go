package store

import (
	"context"
	"slices"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func TestFirstReportBadge(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := AwardBadge(ctx, database, "sarah.j@campus.edu", EventReport); err != nil {
		t.Fatalf("AwardBadge: %v", err)
	}

	rec, err := GetBadgeRecord(ctx, database, "sarah.j@campus.edu")
	if err != nil {
		t.Fatalf("GetBadgeRecord: %v", err)
	}
	if rec.ReportedCount != 1 {
		t.Errorf("expected reportedCount 1, got %d", rec.ReportedCount)
	}
	if len(rec.Badges) != 1 || rec.Badges[0] != model.BadgeFirstReport {
		t.Errorf("expected badges [first_report], got %v", rec.Badges)
	}
}

func TestReporterMilestones(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := AwardBadge(ctx, database, "mike.chen@campus.edu", EventReport); err != nil {
			t.Fatalf("AwardBadge %d: %v", i, err)
		}
	}

	rec, _ := GetBadgeRecord(ctx, database, "mike.chen@campus.edu")
	if rec.ReportedCount != 10 {
		t.Errorf("expected reportedCount 10, got %d", rec.ReportedCount)
	}
	want := []string{model.BadgeFirstReport, model.BadgeReporter10}
	if !slices.Equal(rec.Badges, want) {
		t.Errorf("expected badges %v, got %v", want, rec.Badges)
	}

	// A report event never unlocks claim or match badges.
	for _, b := range rec.Badges {
		if b == model.BadgeFirstClaim || b == model.BadgeClaimer5 || b == model.BadgeMatchmaker {
			t.Errorf("unexpected badge %q from report events", b)
		}
	}
}

func TestClaimMilestones(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		AwardBadge(ctx, database, "sarah.j@campus.edu", EventClaim)
	}

	rec, _ := GetBadgeRecord(ctx, database, "sarah.j@campus.edu")
	if rec.ClaimedCount != 5 {
		t.Errorf("expected claimedCount 5, got %d", rec.ClaimedCount)
	}
	want := []string{model.BadgeFirstClaim, model.BadgeClaimer5}
	if !slices.Equal(rec.Badges, want) {
		t.Errorf("expected badges %v, got %v", want, rec.Badges)
	}
}

func TestMatchmakerAwardedOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	AwardBadge(ctx, database, "sarah.j@campus.edu", EventMatch)
	AwardBadge(ctx, database, "sarah.j@campus.edu", EventMatch)

	rec, _ := GetBadgeRecord(ctx, database, "sarah.j@campus.edu")
	// The counter keeps incrementing, the badge is added at most once.
	if rec.MatchCount != 2 {
		t.Errorf("expected matchCount 2, got %d", rec.MatchCount)
	}
	want := []string{model.BadgeMatchmaker}
	if !slices.Equal(rec.Badges, want) {
		t.Errorf("expected badges %v, got %v", want, rec.Badges)
	}
}

func TestCountersAreIndependent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	AwardBadge(ctx, database, "sarah.j@campus.edu", EventReport)
	AwardBadge(ctx, database, "sarah.j@campus.edu", EventClaim)

	rec, _ := GetBadgeRecord(ctx, database, "sarah.j@campus.edu")
	if rec.ReportedCount != 1 || rec.ClaimedCount != 1 || rec.MatchCount != 0 {
		t.Errorf("expected counters 1/1/0, got %d/%d/%d",
			rec.ReportedCount, rec.ClaimedCount, rec.MatchCount)
	}
	want := []string{model.BadgeFirstReport, model.BadgeFirstClaim}
	if !slices.Equal(rec.Badges, want) {
		t.Errorf("expected badges %v, got %v", want, rec.Badges)
	}
}

func TestUnknownUserZeroRecord(t *testing.T) {
	database := db.NewTestDB(t)

	rec, err := GetBadgeRecord(context.Background(), database, "nobody@campus.edu")
	if err != nil {
		t.Fatalf("GetBadgeRecord: %v", err)
	}
	if rec.ReportedCount != 0 || rec.ClaimedCount != 0 || rec.MatchCount != 0 {
		t.Errorf("expected zero counters, got %+v", rec)
	}
	if len(rec.Badges) != 0 {
		t.Errorf("expected no badges, got %v", rec.Badges)
	}
}

func TestUnknownEventRejected(t *testing.T) {
	database := db.NewTestDB(t)

	if err := AwardBadge(context.Background(), database, "sarah.j@campus.edu", "promote"); err == nil {
		t.Error("expected error for unknown event")
	}
}
