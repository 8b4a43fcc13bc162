package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/carelog-api/internal/models"
)

// ClientRepository provides database access for client records.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, user_id, practitioner_id, first_name, last_name, date_of_birth, diagnosis, guardian_name, guardian_phone, guardian_email, treatment_plan, treatment_goals, avatar_url, notes, archived, created_at`

// FindByID returns a client by identifier.
func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1 LIMIT 1`, clientColumns)
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return &client, nil
}

// FindByUserID returns the client row linked to the given client-role user.
func (r *ClientRepository) FindByUserID(ctx context.Context, userID int64) (*models.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE user_id = $1 LIMIT 1`, clientColumns)
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find client by user id: %w", err)
	}
	return &client, nil
}

// ListByPractitioner returns the clients owned by the practitioner together
// with their linked user accounts. Archived clients are soft-hidden unless
// includeArchived is set.
func (r *ClientRepository) ListByPractitioner(ctx context.Context, practitionerID int64, includeArchived bool) ([]models.ClientWithUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE practitioner_id = $1 ORDER BY created_at DESC`, clientColumns)
	if !includeArchived {
		query = fmt.Sprintf(`SELECT %s FROM clients WHERE practitioner_id = $1 AND archived = FALSE ORDER BY created_at DESC`, clientColumns)
	}
	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, query, practitionerID); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	if len(clients) == 0 {
		return []models.ClientWithUser{}, nil
	}

	userIDs := make([]int64, 0, len(clients))
	for _, c := range clients {
		userIDs = append(userIDs, c.UserID)
	}
	userQuery := fmt.Sprintf(`SELECT %s FROM users WHERE id = ANY($1)`, userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, userQuery, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("list client users: %w", err)
	}
	byID := make(map[int64]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	result := make([]models.ClientWithUser, 0, len(clients))
	for _, c := range clients {
		result = append(result, models.ClientWithUser{Client: c, User: byID[c.UserID]})
	}
	return result, nil
}

// CountByPractitioner returns the number of clients owned by the practitioner.
func (r *ClientRepository) CountByPractitioner(ctx context.Context, practitionerID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM clients WHERE practitioner_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, practitionerID); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return count, nil
}

// Create inserts a new client and fills in the generated id and timestamp.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	const query = `INSERT INTO clients (user_id, practitioner_id, first_name, last_name, date_of_birth, diagnosis, guardian_name, guardian_phone, guardian_email, treatment_plan, treatment_goals, avatar_url, notes, archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		client.UserID, client.PractitionerID, client.FirstName, client.LastName,
		client.DateOfBirth, client.Diagnosis, client.GuardianName, client.GuardianPhone,
		client.GuardianEmail, client.TreatmentPlan, client.TreatmentGoals,
		client.AvatarURL, client.Notes, client.Archived)
	if err := row.Scan(&client.ID, &client.CreatedAt); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// ClientPatch carries the mutable client fields; nil fields are untouched.
type ClientPatch struct {
	FirstName      *string
	LastName       *string
	DateOfBirth    *time.Time
	Diagnosis      *string
	GuardianName   *string
	GuardianPhone  *string
	GuardianEmail  *string
	TreatmentPlan  *models.StringList
	TreatmentGoals *models.StringList
	AvatarURL      *string
	Notes          *string
}

// Update applies the non-nil patch fields and returns the updated row.
func (r *ClientRepository) Update(ctx context.Context, id int64, patch ClientPatch) (*models.Client, error) {
	sets := make([]string, 0, 11)
	args := make([]interface{}, 0, 12)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}
	if patch.Diagnosis != nil {
		add("diagnosis", *patch.Diagnosis)
	}
	if patch.GuardianName != nil {
		add("guardian_name", *patch.GuardianName)
	}
	if patch.GuardianPhone != nil {
		add("guardian_phone", *patch.GuardianPhone)
	}
	if patch.GuardianEmail != nil {
		add("guardian_email", *patch.GuardianEmail)
	}
	if patch.TreatmentPlan != nil {
		add("treatment_plan", *patch.TreatmentPlan)
	}
	if patch.TreatmentGoals != nil {
		add("treatment_goals", *patch.TreatmentGoals)
	}
	if patch.AvatarURL != nil {
		add("avatar_url", *patch.AvatarURL)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE clients SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), clientColumns)

	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	return &client, nil
}

// SetArchived toggles the archived flag and returns the updated row.
func (r *ClientRepository) SetArchived(ctx context.Context, id int64, archived bool) (*models.Client, error) {
	query := fmt.Sprintf(`UPDATE clients SET archived = $2 WHERE id = $1 RETURNING %s`, clientColumns)
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, id, archived); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("set client archived: %w", err)
	}
	return &client, nil
}

// Delete removes the client and everything hanging off it: notes, data
// entries, sessions, the client row, and finally the linked user account.
// The whole cascade runs in a single transaction so a mid-cascade failure
// leaves no orphaned rows.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete client: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var userID int64
	if err := tx.GetContext(ctx, &userID, `SELECT user_id FROM clients WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("load client for delete: %w", err)
	}

	steps := []struct {
		query string
		arg   int64
	}{
		{`DELETE FROM client_notes WHERE client_id = $1`, id},
		{`DELETE FROM data_entries WHERE client_id = $1`, id},
		{`DELETE FROM sessions WHERE client_id = $1`, id},
		{`DELETE FROM clients WHERE id = $1`, id},
		{`DELETE FROM users WHERE id = $1`, userID},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, step.arg); err != nil {
			return fmt.Errorf("cascade delete client: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete client: %w", err)
	}
	return nil
}
