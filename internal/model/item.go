package model

// Item represents a single lost-or-found report.
//
// ID is a millisecond-timestamp string assigned at creation and immutable
// afterwards. Date is the calendar date (YYYY-MM-DD) the item was lost or
// found; CreatedAt is an RFC 3339 timestamp of when the report was filed.
// Image holds the uploaded photo as a data-URL payload, ImageFingerprint a
// short digest of its bytes used for exact-duplicate detection. ContactInfo
// (email or 10-digit phone) doubles as the reporter's user key.
type Item struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Location         string `json:"location"`
	Date             string `json:"date"`
	Status           string `json:"status"`
	Type             string `json:"type"`
	Image            string `json:"image"`
	ImageFingerprint string `json:"imageFingerprint"`
	ContactName      string `json:"contactName"`
	ContactInfo      string `json:"contactInfo"`
	CreatedAt        string `json:"createdAt"`
}

// Item statuses.
const (
	StatusActive  = "active"
	StatusClaimed = "claimed"
	StatusPending = "pending"
)

// Item types.
const (
	TypeLost  = "lost"
	TypeFound = "found"
)
