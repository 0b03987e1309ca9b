package model

// BadgeRecord tracks a single user's activity counters and earned badges,
// keyed by their contact info. Counters only ever increase; badges keep
// insertion order and contain no duplicates.
type BadgeRecord struct {
	ReportedCount int      `json:"reported_count"`
	ClaimedCount  int      `json:"claimed_count"`
	MatchCount    int      `json:"match_count"`
	Badges        []string `json:"badges"`
}

// Badge identifiers.
const (
	BadgeFirstReport = "first_report"
	BadgeReporter10  = "reporter_10"
	BadgeReporter50  = "reporter_50"
	BadgeFirstClaim  = "first_claim"
	BadgeClaimer5    = "claimer_5"
	BadgeMatchmaker  = "matchmaker"
)
