package domain

import (
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// MaxVisitorIDLength bounds identifiers accepted from the cookie. Generated
// identifiers are UUID strings (36 bytes); the limit leaves headroom for
// clients that minted their own tokens against earlier versions.
const MaxVisitorIDLength = 128

// DayCount is the aggregate view counter for one calendar day.
type DayCount struct {
	Day   time.Time
	Count int64
}

// Visitor is one browser/client, identified by the token carried in its
// long-lived cookie. Country and Locale are best-effort enrichment and may
// be empty.
type Visitor struct {
	ID        string
	LastVisit time.Time
	Country   string
	Locale    string
	CreatedAt time.Time
}

// DayOf truncates t to local midnight, the key used for day buckets. An
// event at 23:59:59 counts for that day; one at 00:00:00 for the next.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NewVisitorID mints a fresh visitor identifier. Random UUIDs rather than
// timestamps: two visitors arriving in the same clock tick must not share
// an identity.
func NewVisitorID() string {
	return uuid.NewString()
}

// ValidateVisitorID rejects identifiers that are empty, oversized, or
// carry non-printable characters. Callers recover by minting a new one.
func ValidateVisitorID(id string) error {
	if id == "" {
		return fmt.Errorf("empty: %w", ErrInvalidIdentifier)
	}
	if len(id) > MaxVisitorIDLength {
		return fmt.Errorf("longer than %d bytes: %w", MaxVisitorIDLength, ErrInvalidIdentifier)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return fmt.Errorf("contains control or whitespace character: %w", ErrInvalidIdentifier)
		}
	}
	return nil
}
