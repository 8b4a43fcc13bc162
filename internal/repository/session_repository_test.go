package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/carelog-api/internal/models"
)

func sessionRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "client_id", "practitioner_id", "date", "status", "notes", "created_at"}).
		AddRow(int64(3), int64(10), int64(1), now.Add(24*time.Hour), string(models.SessionPending), nil, now)
}

func TestSessionListByPractitioner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM sessions WHERE practitioner_id = \$1 ORDER BY date ASC`).
		WithArgs(int64(1)).
		WillReturnRows(sessionRows(time.Now()))

	sessions, err := repo.ListByPractitioner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.SessionPending, sessions[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCountActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM sessions WHERE practitioner_id = $1 AND status IN ('pending', 'confirmed') AND date >= $2`)).
		WithArgs(int64(1), now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountActiveByPractitioner(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO sessions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))

	session := &models.Session{ClientID: 10, PractitionerID: 1, Date: now.Add(24 * time.Hour), Status: models.SessionPending}
	err := repo.Create(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, int64(3), session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionUpdateStatusOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	status := models.SessionConfirmed
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE sessions SET status = $1 WHERE id = $2 RETURNING`)).
		WithArgs(status, int64(3)).
		WillReturnRows(sessionRows(time.Now()))

	_, err := repo.Update(context.Background(), 3, SessionPatch{Status: &status})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
