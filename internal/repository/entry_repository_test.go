package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/carelog-api/internal/models"
)

func TestEntryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO data_entries`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now))

	entry := &models.DataEntry{
		ClientID:     10,
		Mood:         models.MoodGood,
		AnxietyLevel: 2,
		SleepQuality: 4,
		Challenges:   models.StringList{"school"},
	}
	err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(5), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryListByClient(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "client_id", "mood", "anxiety_level", "sleep_quality", "challenges", "notes", "created_at"}).
		AddRow(int64(6), int64(10), string(models.MoodNeutral), 3, 3, []byte(`[]`), nil, now).
		AddRow(int64(5), int64(10), string(models.MoodGood), 2, 4, []byte(`["school"]`), "better day", now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT .+ FROM data_entries WHERE client_id = \$1 ORDER BY created_at DESC`).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	entries, err := repo.ListByClient(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.MoodNeutral, entries[0].Mood)
	assert.Equal(t, models.StringList{"school"}, entries[1].Challenges)
	assert.NoError(t, mock.ExpectationsWereMet())
}
