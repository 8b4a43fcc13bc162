package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/carelog-api/internal/models"
)

func noteRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "client_id", "title", "entries", "last_updated", "created_at"}).
		AddRow(int64(4), int64(10), "Progress", []byte(`[{"text":"first entry","date":"2026-08-01T10:00:00Z"}]`), now, now)
}

func TestNoteFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM client_notes WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(noteRows(time.Now()))

	note, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Progress", note.Title)
	require.Len(t, note.Entries, 1)
	assert.Equal(t, "first entry", note.Entries[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteCreateDefaultsLastUpdated(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO client_notes`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), now))

	note := &models.ClientNote{ClientID: 10, Title: "Progress", Entries: models.NoteEntryList{}}
	err := repo.Create(context.Background(), note)
	require.NoError(t, err)
	assert.Equal(t, int64(4), note.ID)
	assert.False(t, note.LastUpdated.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteReplaceEntries(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	now := time.Now()
	mock.ExpectQuery(`UPDATE client_notes SET entries = \$2, last_updated = \$3 WHERE id = \$1 RETURNING`).
		WillReturnRows(noteRows(now))

	entries := models.NoteEntryList{{Text: "first entry", Date: now}}
	note, err := repo.ReplaceEntries(context.Background(), 4, entries, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), note.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectExec(`DELETE FROM client_notes WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCountPendingReviews(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	since := time.Now().Add(-7 * 24 * time.Hour)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM data_entries e`).
		WithArgs(int64(1), since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountPendingReviews(context.Background(), 1, since)
	require.NoError(t, err)
	assert.Equal(t, 12, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
