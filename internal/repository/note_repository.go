package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/carelog-api/internal/models"
)

// NoteRepository provides database access for client note logs.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new instance of NoteRepository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, client_id, title, entries, last_updated, created_at`

// FindByID returns a note by identifier.
func (r *NoteRepository) FindByID(ctx context.Context, id int64) (*models.ClientNote, error) {
	query := fmt.Sprintf(`SELECT %s FROM client_notes WHERE id = $1 LIMIT 1`, noteColumns)
	var note models.ClientNote
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find note by id: %w", err)
	}
	return &note, nil
}

// ListByClient returns the client's note logs, most recently updated first.
func (r *NoteRepository) ListByClient(ctx context.Context, clientID int64) ([]models.ClientNote, error) {
	query := fmt.Sprintf(`SELECT %s FROM client_notes WHERE client_id = $1 ORDER BY last_updated DESC`, noteColumns)
	var notes []models.ClientNote
	if err := r.db.SelectContext(ctx, &notes, query, clientID); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Create inserts a note log and fills in the generated id and timestamps.
func (r *NoteRepository) Create(ctx context.Context, note *models.ClientNote) error {
	const query = `INSERT INTO client_notes (client_id, title, entries, last_updated)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if note.LastUpdated.IsZero() {
		note.LastUpdated = time.Now().UTC()
	}
	row := r.db.QueryRowxContext(ctx, query, note.ClientID, note.Title, note.Entries, note.LastUpdated)
	if err := row.Scan(&note.ID, &note.CreatedAt); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// ReplaceEntries overwrites the entry list, refreshes last_updated, and
// returns the updated row. Every entry mutation funnels through here.
func (r *NoteRepository) ReplaceEntries(ctx context.Context, id int64, entries models.NoteEntryList, updatedAt time.Time) (*models.ClientNote, error) {
	query := fmt.Sprintf(`UPDATE client_notes SET entries = $2, last_updated = $3 WHERE id = $1 RETURNING %s`, noteColumns)
	var note models.ClientNote
	if err := r.db.GetContext(ctx, &note, query, id, entries, updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("replace note entries: %w", err)
	}
	return &note, nil
}

// Delete removes the note log wholesale.
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM client_notes WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
