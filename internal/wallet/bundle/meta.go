package bundle

import (
	"strings"
	"time"
)

// Meta describes a bundle. ExpiresAt and SharedWith are informational.
type Meta struct {
	ExportedAt time.Time `json:"exported_at"`
	ExpiresAt  *string   `json:"expires_at"`
	SharedWith *string   `json:"shared_with"`
	CardCount  int       `json:"card_count"`
}

const expiryDateLayout = "2006-01-02"

// Expired reports whether ExpiresAt lies before now. A date without a time
// stays valid through the end of that day (UTC). Unparseable values never
// expire.
func (m Meta) Expired(now time.Time) bool {
	if m.ExpiresAt == nil {
		return false
	}
	s := strings.TrimSpace(*m.ExpiresAt)
	if s == "" {
		return false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return now.After(t)
	}
	if d, err := time.Parse(expiryDateLayout, s); err == nil {
		return !now.UTC().Before(d.AddDate(0, 0, 1))
	}
	return false
}
