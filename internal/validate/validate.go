// Package validate checks submitted item payloads for completeness and
// format correctness before they reach the store.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// requiredFields are checked in order; the first blank one is reported.
var requiredFields = []string{
	"title", "description", "category", "location",
	"date", "type", "contactName", "contactInfo",
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// Item validates a submitted item payload. It returns nil when the payload
// is acceptable, or an error naming the first failing field. Pure function,
// no side effects.
func Item(payload map[string]any) error {
	for _, field := range requiredFields {
		if strings.TrimSpace(stringValue(payload[field])) == "" {
			return fmt.Errorf("%s is required", field)
		}
	}

	if t := stringValue(payload["type"]); t != model.TypeLost && t != model.TypeFound {
		return fmt.Errorf("type must be 'lost' or 'found'")
	}

	if v, ok := payload["status"]; ok {
		switch stringValue(v) {
		case model.StatusActive, model.StatusClaimed, model.StatusPending:
		default:
			return fmt.Errorf("status must be 'active', 'claimed', or 'pending'")
		}
	}

	contact := strings.TrimSpace(stringValue(payload["contactInfo"]))
	if !emailPattern.MatchString(contact) && !phonePattern.MatchString(contact) {
		return fmt.Errorf("contactInfo must be a valid email or 10-digit phone number")
	}

	if _, err := time.Parse("2006-01-02", stringValue(payload["date"])); err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format")
	}

	return nil
}

// stringValue coerces a payload value to a string, matching how clients may
// send numbers where text is expected.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
