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

type clientRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Client, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Client, error)
	ListByPractitioner(ctx context.Context, practitionerID int64, includeArchived bool) ([]models.ClientWithUser, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, id int64, patch repository.ClientPatch) (*models.Client, error)
	SetArchived(ctx context.Context, id int64, archived bool) (*models.Client, error)
	Delete(ctx context.Context, id int64) error
}

type clientUserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type statsInvalidator interface {
	Invalidate(ctx context.Context, practitionerID int64)
}

// CreateClientRequest links an existing client-role user into the caller's roster.
type CreateClientRequest struct {
	UserID         int64             `json:"user_id" validate:"required"`
	FirstName      string            `json:"first_name" validate:"required"`
	LastName       string            `json:"last_name" validate:"required"`
	DateOfBirth    *time.Time        `json:"date_of_birth"`
	Diagnosis      *string           `json:"diagnosis"`
	GuardianName   *string           `json:"guardian_name"`
	GuardianPhone  *string           `json:"guardian_phone"`
	GuardianEmail  *string           `json:"guardian_email" validate:"omitempty,email"`
	TreatmentPlan  models.StringList `json:"treatment_plan"`
	TreatmentGoals models.StringList `json:"treatment_goals"`
	AvatarURL      *string           `json:"avatar_url"`
	Notes          *string           `json:"notes"`
}

// CreateClientWithUserRequest creates the user account and the client record
// in one operation.
type CreateClientWithUserRequest struct {
	User   CreateClientUserPayload `json:"user" validate:"required"`
	Client CreateClientPayload     `json:"client" validate:"required"`
}

// CreateClientUserPayload is the nested account part of a with-user create.
type CreateClientUserPayload struct {
	Username string  `json:"username" validate:"required,min=3"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     string  `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// CreateClientPayload is the nested client part of a with-user create.
type CreateClientPayload struct {
	FirstName      string            `json:"first_name" validate:"required"`
	LastName       string            `json:"last_name" validate:"required"`
	DateOfBirth    *time.Time        `json:"date_of_birth"`
	Diagnosis      *string           `json:"diagnosis"`
	GuardianName   *string           `json:"guardian_name"`
	GuardianPhone  *string           `json:"guardian_phone"`
	GuardianEmail  *string           `json:"guardian_email" validate:"omitempty,email"`
	TreatmentPlan  models.StringList `json:"treatment_plan"`
	TreatmentGoals models.StringList `json:"treatment_goals"`
	Notes          *string           `json:"notes"`
}

// UpdateClientRequest carries a partial client update; nil fields are untouched.
type UpdateClientRequest struct {
	FirstName      *string            `json:"first_name"`
	LastName       *string            `json:"last_name"`
	DateOfBirth    *time.Time         `json:"date_of_birth"`
	Diagnosis      *string            `json:"diagnosis"`
	GuardianName   *string            `json:"guardian_name"`
	GuardianPhone  *string            `json:"guardian_phone"`
	GuardianEmail  *string            `json:"guardian_email" validate:"omitempty,email"`
	TreatmentPlan  *models.StringList `json:"treatment_plan"`
	TreatmentGoals *models.StringList `json:"treatment_goals"`
	AvatarURL      *string            `json:"avatar_url"`
	Notes          *string            `json:"notes"`
}

// ClientService orchestrates client roster workflows and owns the
// per-resource access decision for client rows.
type ClientService struct {
	repo      clientRepository
	users     clientUserRepository
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	hash      func(string) (string, error)
}

// NewClientService creates a new client service instance.
func NewClientService(repo clientRepository, users clientUserRepository, stats statsInvalidator, hash func(string) (string, error), validate *validator.Validate, logger *zap.Logger) *ClientService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{repo: repo, users: users, stats: stats, hash: hash, validator: validate, logger: logger}
}

// Authorize resolves the client row the actor may access. Both a missing row
// and a row owned by someone else surface as forbidden, so the existence of
// other practitioners' clients is never revealed.
func (s *ClientService) Authorize(ctx context.Context, actor models.Actor, clientID int64) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client")
	}

	switch a := actor.(type) {
	case models.PractitionerActor:
		if client.PractitionerID != a.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
	case models.ClientActor:
		if client.UserID != a.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}
	return client, nil
}

// List returns the practitioner's clients with their linked user accounts.
// Archived clients are excluded unless includeArchived is set.
func (s *ClientService) List(ctx context.Context, practitionerID int64, includeArchived bool) ([]models.ClientWithUser, error) {
	clients, err := s.repo.ListByPractitioner(ctx, practitionerID, includeArchived)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clients")
	}
	return clients, nil
}

// Get returns a single client; practitioners also receive the linked user.
func (s *ClientService) Get(ctx context.Context, actor models.Actor, clientID int64) (*models.ClientWithUser, error) {
	client, err := s.Authorize(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}

	result := &models.ClientWithUser{Client: *client}
	if _, ok := actor.(models.PractitionerActor); ok {
		user, err := s.users.FindByID(ctx, client.UserID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client user")
		}
		result.User = user
	}
	return result, nil
}

// Create links an existing client-role user into the practitioner's roster.
func (s *ClientService) Create(ctx context.Context, practitionerID int64, req CreateClientRequest) (*models.Client, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid client payload")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "linked user does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load linked user")
	}
	if user.Role != models.RoleClient {
		return nil, appErrors.Clone(appErrors.ErrValidation, "linked user must have the client role")
	}

	client := &models.Client{
		UserID:         req.UserID,
		PractitionerID: practitionerID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		Diagnosis:      req.Diagnosis,
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
		GuardianEmail:  req.GuardianEmail,
		TreatmentPlan:  req.TreatmentPlan,
		TreatmentGoals: req.TreatmentGoals,
		AvatarURL:      req.AvatarURL,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create client")
	}

	s.invalidateStats(ctx, practitionerID)
	return client, nil
}

// CreateWithUser creates the client's user account and the client record in
// one combined operation.
func (s *ClientService) CreateWithUser(ctx context.Context, practitionerID int64, req CreateClientWithUserRequest) (*models.Client, *models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid client payload")
	}

	hash, err := s.hash(req.User.Password)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     req.User.Username,
		Email:        req.User.Email,
		PasswordHash: hash,
		Role:         models.RoleClient,
		Name:         req.User.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if dup := duplicateUserError(err); dup != nil {
			return nil, nil, dup
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create client user")
	}

	client := &models.Client{
		UserID:         user.ID,
		PractitionerID: practitionerID,
		FirstName:      req.Client.FirstName,
		LastName:       req.Client.LastName,
		DateOfBirth:    req.Client.DateOfBirth,
		Diagnosis:      req.Client.Diagnosis,
		GuardianName:   req.Client.GuardianName,
		GuardianPhone:  req.Client.GuardianPhone,
		GuardianEmail:  req.Client.GuardianEmail,
		TreatmentPlan:  req.Client.TreatmentPlan,
		TreatmentGoals: req.Client.TreatmentGoals,
		Notes:          req.Client.Notes,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		s.logger.Error("client create failed after user create", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create client")
	}

	s.invalidateStats(ctx, practitionerID)
	return client, user, nil
}

// Update applies a partial update to a client the practitioner owns.
func (s *ClientService) Update(ctx context.Context, practitionerID int64, clientID int64, req UpdateClientRequest) (*models.Client, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid client payload")
	}
	if _, err := s.Authorize(ctx, models.PractitionerActor{UserID: practitionerID}, clientID); err != nil {
		return nil, err
	}

	client, err := s.repo.Update(ctx, clientID, repository.ClientPatch{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		Diagnosis:      req.Diagnosis,
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
		GuardianEmail:  req.GuardianEmail,
		TreatmentPlan:  req.TreatmentPlan,
		TreatmentGoals: req.TreatmentGoals,
		AvatarURL:      req.AvatarURL,
		Notes:          req.Notes,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update client")
	}
	return client, nil
}

// SetArchived soft-hides or restores a client the practitioner owns.
func (s *ClientService) SetArchived(ctx context.Context, practitionerID int64, clientID int64, archived bool) (*models.Client, error) {
	if _, err := s.Authorize(ctx, models.PractitionerActor{UserID: practitionerID}, clientID); err != nil {
		return nil, err
	}
	client, err := s.repo.SetArchived(ctx, clientID, archived)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive client")
	}
	return client, nil
}

// Delete removes a client and all dependent records.
func (s *ClientService) Delete(ctx context.Context, practitionerID int64, clientID int64, ip, userAgent string) error {
	if _, err := s.Authorize(ctx, models.PractitionerActor{UserID: practitionerID}, clientID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete client")
	}

	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:    &practitionerID,
		Action:    models.AuditActionClientDelete,
		Resource:  "clients",
		IPAddress: ip,
		UserAgent: userAgent,
	}); err != nil {
		s.logger.Warn("failed to record client delete audit log", zap.Error(err))
	}

	s.invalidateStats(ctx, practitionerID)
	return nil
}

func (s *ClientService) invalidateStats(ctx context.Context, practitionerID int64) {
	if s.stats != nil {
		s.stats.Invalidate(ctx, practitionerID)
	}
}
