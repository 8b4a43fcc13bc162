package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/carelog-api/internal/models"
	"github.com/noah-isme/carelog-api/internal/repository"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
)

type sessionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Session, error)
	ListByPractitioner(ctx context.Context, practitionerID int64) ([]models.Session, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, id int64, patch repository.SessionPatch) (*models.Session, error)
}

// CreateSessionRequest schedules an appointment with one of the caller's clients.
type CreateSessionRequest struct {
	ClientID int64                `json:"client_id" validate:"required"`
	Date     time.Time            `json:"date" validate:"required"`
	Status   models.SessionStatus `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes    *string              `json:"notes"`
}

// UpdateSessionRequest carries a partial session update.
type UpdateSessionRequest struct {
	Date   *time.Time            `json:"date"`
	Status *models.SessionStatus `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes  *string               `json:"notes"`
}

// SessionService orchestrates appointment scheduling. Sessions are created
// and updated only by the owning practitioner; client-role users see their own.
type SessionService struct {
	repo      sessionRepository
	clients   clientAuthorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService creates a new session service instance.
func NewSessionService(repo sessionRepository, clients clientAuthorizer, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, clients: clients, validator: validate, logger: logger}
}

// List returns the sessions visible to the actor: all of a practitioner's,
// or only those of the client's own record.
func (s *SessionService) List(ctx context.Context, actor models.Actor) ([]models.Session, error) {
	var (
		sessions []models.Session
		err      error
	)
	switch a := actor.(type) {
	case models.PractitionerActor:
		sessions, err = s.repo.ListByPractitioner(ctx, a.UserID)
	case models.ClientActor:
		sessions, err = s.repo.ListByClient(ctx, a.ClientID)
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// Create schedules a session with a client the practitioner owns.
func (s *SessionService) Create(ctx context.Context, practitionerID int64, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if _, err := s.clients.Authorize(ctx, models.PractitionerActor{UserID: practitionerID}, req.ClientID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.SessionPending
	}

	session := &models.Session{
		ClientID:       req.ClientID,
		PractitionerID: practitionerID,
		Date:           req.Date,
		Status:         status,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// Update applies a partial update to a session the practitioner owns.
func (s *SessionService) Update(ctx context.Context, practitionerID int64, sessionID int64, req UpdateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.PractitionerID != practitionerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	updated, err := s.repo.Update(ctx, sessionID, repository.SessionPatch{
		Date:   req.Date,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	return updated, nil
}
