package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/carelog-api/internal/models"
)

// EntryRepository provides database access for self-reported check-ins.
// Entries are insert-only; there is no update or delete path.
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository creates a new instance of EntryRepository.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `id, client_id, mood, anxiety_level, sleep_quality, challenges, notes, created_at`

// Create inserts a check-in and fills in the generated id and timestamp.
func (r *EntryRepository) Create(ctx context.Context, entry *models.DataEntry) error {
	const query = `INSERT INTO data_entries (client_id, mood, anxiety_level, sleep_quality, challenges, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		entry.ClientID, entry.Mood, entry.AnxietyLevel, entry.SleepQuality,
		entry.Challenges, entry.Notes)
	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("create data entry: %w", err)
	}
	return nil
}

// ListByClient returns the client's check-ins, newest first.
func (r *EntryRepository) ListByClient(ctx context.Context, clientID int64) ([]models.DataEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM data_entries WHERE client_id = $1 ORDER BY created_at DESC`, entryColumns)
	var entries []models.DataEntry
	if err := r.db.SelectContext(ctx, &entries, query, clientID); err != nil {
		return nil, fmt.Errorf("list data entries: %w", err)
	}
	return entries, nil
}
