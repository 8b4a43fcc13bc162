package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/carelog-api/internal/models"
)

// SessionRepository provides database access for scheduled appointments.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, client_id, practitioner_id, date, status, notes, created_at`

// FindByID returns a session by identifier.
func (r *SessionRepository) FindByID(ctx context.Context, id int64) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1 LIMIT 1`, sessionColumns)
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session by id: %w", err)
	}
	return &session, nil
}

// ListByPractitioner returns the practitioner's sessions ordered by date.
func (r *SessionRepository) ListByPractitioner(ctx context.Context, practitionerID int64) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE practitioner_id = $1 ORDER BY date ASC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, practitionerID); err != nil {
		return nil, fmt.Errorf("list sessions by practitioner: %w", err)
	}
	return sessions, nil
}

// ListByClient returns the client's sessions ordered by date.
func (r *SessionRepository) ListByClient(ctx context.Context, clientID int64) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE client_id = $1 ORDER BY date ASC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, clientID); err != nil {
		return nil, fmt.Errorf("list sessions by client: %w", err)
	}
	return sessions, nil
}

// CountActiveByPractitioner counts upcoming pending or confirmed sessions.
func (r *SessionRepository) CountActiveByPractitioner(ctx context.Context, practitionerID int64, now time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM sessions WHERE practitioner_id = $1 AND status IN ('pending', 'confirmed') AND date >= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, practitionerID, now); err != nil {
		return 0, fmt.Errorf("count active sessions: %w", err)
	}
	return count, nil
}

// Create inserts a session and fills in the generated id and timestamp.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	const query = `INSERT INTO sessions (client_id, practitioner_id, date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		session.ClientID, session.PractitionerID, session.Date, session.Status, session.Notes)
	if err := row.Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionPatch carries the mutable session fields; nil fields are untouched.
type SessionPatch struct {
	Date   *time.Time
	Status *models.SessionStatus
	Notes  *string
}

// Update applies the non-nil patch fields and returns the updated row.
func (r *SessionRepository) Update(ctx context.Context, id int64, patch SessionPatch) (*models.Session, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE sessions SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), sessionColumns)

	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update session: %w", err)
	}
	return &session, nil
}
