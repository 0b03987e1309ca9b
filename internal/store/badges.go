package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/erazemk/najdeno/internal/model"
)

// Badge engine events.
const (
	EventReport = "report"
	EventClaim  = "claim"
	EventMatch  = "match"
)

// AwardBadge records an activity event for a user and unlocks any milestone
// badge the event reaches. The user's record is created lazily on the first
// event. Counters increment on every call; badges are added at most once.
//
// Milestones are exclusive branches checked against the counter's new value:
// report 1/10/50 and claim 1/5 fire on exact equality, match fires at one or
// more. A counter that skips a milestone value never earns that badge.
func AwardBadge(ctx context.Context, db *sql.DB, userKey, event string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	defer tx.Rollback()

	rec, err := getBadgeRecord(ctx, tx, userKey)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}

	switch event {
	case EventReport:
		rec.ReportedCount++
		switch rec.ReportedCount {
		case 1:
			rec.Badges = addBadge(rec.Badges, model.BadgeFirstReport)
		case 10:
			rec.Badges = addBadge(rec.Badges, model.BadgeReporter10)
		case 50:
			rec.Badges = addBadge(rec.Badges, model.BadgeReporter50)
		}
	case EventClaim:
		rec.ClaimedCount++
		switch rec.ClaimedCount {
		case 1:
			rec.Badges = addBadge(rec.Badges, model.BadgeFirstClaim)
		case 5:
			rec.Badges = addBadge(rec.Badges, model.BadgeClaimer5)
		}
	case EventMatch:
		rec.MatchCount++
		if rec.MatchCount >= 1 {
			rec.Badges = addBadge(rec.Badges, model.BadgeMatchmaker)
		}
	default:
		return fmt.Errorf("awarding badge: unknown event %q", event)
	}

	badges, err := json.Marshal(rec.Badges)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO badges (contact_info, reported_count, claimed_count, match_count, badges)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(contact_info) DO UPDATE SET
		     reported_count = excluded.reported_count,
		     claimed_count  = excluded.claimed_count,
		     match_count    = excluded.match_count,
		     badges         = excluded.badges`,
		userKey, rec.ReportedCount, rec.ClaimedCount, rec.MatchCount, string(badges),
	)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	return nil
}

// GetBadgeRecord returns a user's badge record. Unknown users get a
// zero-valued record, not an error.
func GetBadgeRecord(ctx context.Context, db *sql.DB, userKey string) (*model.BadgeRecord, error) {
	rec, err := getBadgeRecord(ctx, db, userKey)
	if err != nil {
		return nil, fmt.Errorf("getting badge record: %w", err)
	}
	return rec, nil
}

// querier covers *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getBadgeRecord(ctx context.Context, q querier, userKey string) (*model.BadgeRecord, error) {
	rec := &model.BadgeRecord{Badges: []string{}}
	var badges string
	err := q.QueryRowContext(ctx,
		`SELECT reported_count, claimed_count, match_count, badges
		 FROM badges WHERE contact_info = ?`, userKey,
	).Scan(&rec.ReportedCount, &rec.ClaimedCount, &rec.MatchCount, &badges)
	if err == sql.ErrNoRows {
		return rec, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(badges), &rec.Badges); err != nil {
		return nil, fmt.Errorf("decoding badge list: %w", err)
	}
	return rec, nil
}

// addBadge appends a badge unless already present, preserving order.
func addBadge(badges []string, badge string) []string {
	if slices.Contains(badges, badge) {
		return badges
	}
	return append(badges, badge)
}
