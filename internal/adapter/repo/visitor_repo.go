package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"viewtracker/internal/domain"
)

// VisitorRepositoryPG implements domain.VisitorRepository backed by PostgreSQL.
type VisitorRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewVisitorRepository creates a new VisitorRepositoryPG.
func NewVisitorRepository(pool *pgxpool.Pool) *VisitorRepositoryPG {
	return &VisitorRepositoryPG{pool: pool}
}

// Upsert inserts the visitor or refreshes last_visit. Country and locale are
// only filled in when previously unknown, so a VPN hop or changed browser
// language does not rewrite history. The single statement keeps concurrent
// upserts for one identifier from corrupting the row; (xmax = 0) reports
// whether the row was freshly inserted.
func (r *VisitorRepositoryPG) Upsert(ctx context.Context, visitorID string, now time.Time, country, locale string) (*domain.Visitor, bool, error) {
	if err := domain.ValidateVisitorID(visitorID); err != nil {
		return nil, false, err
	}

	query := `
INSERT INTO visitors (visitor_id, last_visit, country, locale, created_at)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $2)
ON CONFLICT (visitor_id) DO UPDATE
SET last_visit = EXCLUDED.last_visit,
    country = COALESCE(visitors.country, EXCLUDED.country),
    locale = COALESCE(visitors.locale, EXCLUDED.locale)
RETURNING visitor_id, last_visit, COALESCE(country, ''), COALESCE(locale, ''), created_at, (xmax = 0);
`
	row := r.pool.QueryRow(ctx, query, visitorID, now, country, locale)
	return scanVisitor(row)
}

// CountDistinct returns the number of visitors ever recorded.
func (r *VisitorRepositoryPG) CountDistinct(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM visitors`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count visitors: %w", err)
	}
	return total, nil
}

func scanVisitor(row pgx.Row) (*domain.Visitor, bool, error) {
	var v domain.Visitor
	var inserted bool
	if err := row.Scan(&v.ID, &v.LastVisit, &v.Country, &v.Locale, &v.CreatedAt, &inserted); err != nil {
		return nil, false, fmt.Errorf("upsert visitor: %w", err)
	}
	return &v, inserted, nil
}

var _ domain.VisitorRepository = (*VisitorRepositoryPG)(nil)
