package domain

import (
	"context"
	"time"
)

// DayCountRepository persists per-day view counters.
type DayCountRepository interface {
	// IncrementToday atomically finds-or-creates the bucket for day and adds
	// one view, returning the new count. Safe under concurrent callers for
	// the same day. It must never touch any other day's bucket.
	IncrementToday(ctx context.Context, day time.Time) (int64, error)
	// CountFor returns the count stored for day, or 0 when no bucket exists.
	CountFor(ctx context.Context, day time.Time) (int64, error)
}

// VisitorRepository persists visitor identities and their last visit.
type VisitorRepository interface {
	// Upsert creates the visitor or refreshes its last visit. Country and
	// locale are optional enrichment; empty values never erase stored ones.
	// The bool reports whether the visitor was newly created.
	Upsert(ctx context.Context, visitorID string, now time.Time, country, locale string) (*Visitor, bool, error)
	// CountDistinct returns the number of visitors ever recorded.
	CountDistinct(ctx context.Context) (int64, error)
}
