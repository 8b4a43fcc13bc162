package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/carelog-api/internal/models"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
)

type entryRepository interface {
	Create(ctx context.Context, entry *models.DataEntry) error
	ListByClient(ctx context.Context, clientID int64) ([]models.DataEntry, error)
}

// clientAuthorizer resolves the client row an actor may access.
type clientAuthorizer interface {
	Authorize(ctx context.Context, actor models.Actor, clientID int64) (*models.Client, error)
}

// CreateEntryRequest is one self-reported mood/anxiety/sleep check-in.
// Anxiety and sleep are bounded 1-5.
type CreateEntryRequest struct {
	Mood         models.Mood       `json:"mood" validate:"required,oneof=very_low low neutral good very_good"`
	AnxietyLevel int               `json:"anxiety_level" validate:"required,min=1,max=5"`
	SleepQuality int               `json:"sleep_quality" validate:"required,min=1,max=5"`
	Challenges   models.StringList `json:"challenges"`
	Notes        *string           `json:"notes"`
}

// EntryService orchestrates check-in workflows. Entries inherit the
// ownership of their parent client and are immutable once created.
type EntryService struct {
	repo      entryRepository
	clients   clientAuthorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEntryService creates a new entry service instance.
func NewEntryService(repo entryRepository, clients clientAuthorizer, validate *validator.Validate, logger *zap.Logger) *EntryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{repo: repo, clients: clients, validator: validate, logger: logger}
}

// List returns a client's check-ins, newest first.
func (s *EntryService) List(ctx context.Context, actor models.Actor, clientID int64) ([]models.DataEntry, error) {
	if _, err := s.clients.Authorize(ctx, actor, clientID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list data entries")
	}
	return entries, nil
}

// Create records a check-in for the client, by the client themself or by
// their practitioner.
func (s *EntryService) Create(ctx context.Context, actor models.Actor, clientID int64, req CreateEntryRequest) (*models.DataEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid data entry payload")
	}
	if _, err := s.clients.Authorize(ctx, actor, clientID); err != nil {
		return nil, err
	}

	entry := &models.DataEntry{
		ClientID:     clientID,
		Mood:         req.Mood,
		AnxietyLevel: req.AnxietyLevel,
		SleepQuality: req.SleepQuality,
		Challenges:   req.Challenges,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create data entry")
	}
	return entry, nil
}
