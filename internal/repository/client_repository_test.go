package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/carelog-api/internal/models"
)

func clientRows(now time.Time, practitionerID int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "practitioner_id", "first_name", "last_name", "date_of_birth", "diagnosis", "guardian_name", "guardian_phone", "guardian_email", "treatment_plan", "treatment_goals", "avatar_url", "notes", "archived", "created_at"}).
		AddRow(int64(10), int64(2), practitionerID, "Alex", "Doe", nil, "anxiety", nil, nil, nil, []byte(`["CBT"]`), []byte(`["sleep hygiene"]`), nil, nil, false, now)
}

func TestClientFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM clients WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(clientRows(time.Now(), 1))

	client, err := repo.FindByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), client.ID)
	assert.Equal(t, models.StringList{"CBT"}, client.TreatmentPlan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientListByPractitionerAttachesUsers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM clients WHERE practitioner_id = \$1 AND archived = FALSE ORDER BY created_at DESC`).
		WithArgs(int64(1)).
		WillReturnRows(clientRows(now, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password_hash, role, name, first_name, last_name, phone, bio, avatar_url, created_at FROM users WHERE id = ANY($1)`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "name", "first_name", "last_name", "phone", "bio", "avatar_url", "created_at"}).
			AddRow(int64(2), "alexd", nil, "hash", string(models.RoleClient), "Alex Doe", nil, nil, nil, nil, nil, now))

	clients, err := repo.ListByPractitioner(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.NotNil(t, clients[0].User)
	assert.Equal(t, "alexd", clients[0].User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientListByPractitionerIncludesArchived(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM clients WHERE practitioner_id = \$1 ORDER BY created_at DESC`).
		WithArgs(int64(1)).
		WillReturnRows(clientRows(now, 1))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "name", "first_name", "last_name", "phone", "bio", "avatar_url", "created_at"}).
			AddRow(int64(2), "alexd", nil, "hash", string(models.RoleClient), "Alex Doe", nil, nil, nil, nil, nil, now))

	clients, err := repo.ListByPractitioner(context.Background(), 1, true)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientListByPractitionerEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM clients WHERE practitioner_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	clients, err := repo.ListByPractitioner(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Empty(t, clients)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO clients`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), now))

	client := &models.Client{UserID: 2, PractitionerID: 1, FirstName: "Alex", LastName: "Doe"}
	err := repo.Create(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, int64(10), client.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientUpdatePartialPatch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	diagnosis := "updated"
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE clients SET diagnosis = $1 WHERE id = $2 RETURNING`)).
		WithArgs(diagnosis, int64(10)).
		WillReturnRows(clientRows(time.Now(), 1))

	_, err := repo.Update(context.Background(), 10, ClientPatch{Diagnosis: &diagnosis})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientSetArchived(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	mock.ExpectQuery(`UPDATE clients SET archived = \$2 WHERE id = \$1 RETURNING`).
		WithArgs(int64(10), true).
		WillReturnRows(clientRows(time.Now(), 1))

	_, err := repo.SetArchived(context.Background(), 10, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDeleteCascades(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id FROM clients WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(2)))
	mock.ExpectExec(`DELETE FROM client_notes WHERE client_id = \$1`).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM data_entries WHERE client_id = \$1`).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM sessions WHERE client_id = \$1`).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM clients WHERE id = \$1`).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDeleteMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id FROM clients WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
