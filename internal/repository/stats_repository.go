package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// StatsRepository aggregates the practitioner dashboard counters.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountPendingReviews counts check-ins submitted by the practitioner's
// clients since the given cutoff.
func (r *StatsRepository) CountPendingReviews(ctx context.Context, practitionerID int64, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM data_entries e
		JOIN clients c ON c.id = e.client_id
		WHERE c.practitioner_id = $1 AND e.created_at >= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, practitionerID, since); err != nil {
		return 0, fmt.Errorf("count pending reviews: %w", err)
	}
	return count, nil
}
