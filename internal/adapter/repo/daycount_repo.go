package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"viewtracker/internal/domain"
)

// DayCountRepositoryPG implements domain.DayCountRepository using PostgreSQL.
type DayCountRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDayCountRepository constructs the repository.
func NewDayCountRepository(pool *pgxpool.Pool) *DayCountRepositoryPG {
	return &DayCountRepositoryPG{pool: pool}
}

// IncrementToday bumps the bucket for day by one view in a single upsert, so
// concurrent increments for the same day serialize in the database and no
// update is lost. Only the given day's row is ever written.
func (r *DayCountRepositoryPG) IncrementToday(ctx context.Context, day time.Time) (int64, error) {
	query := `
INSERT INTO day_counts (day, count)
VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE
SET count = day_counts.count + 1
RETURNING count;
`
	var count int64
	if err := r.pool.QueryRow(ctx, query, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment day count: %w", err)
	}
	return count, nil
}

// CountFor returns the stored count for day, or 0 when no bucket exists.
// Reads never create or mutate a bucket.
func (r *DayCountRepositoryPG) CountFor(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count FROM day_counts WHERE day = $1`, day).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("day count for %s: %w", day.Format("2006-01-02"), err)
	}
	return count, nil
}

var _ domain.DayCountRepository = (*DayCountRepositoryPG)(nil)
