package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/carelog-api/internal/models"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
)

type noteRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ClientNote, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.ClientNote, error)
	Create(ctx context.Context, note *models.ClientNote) error
	ReplaceEntries(ctx context.Context, id int64, entries models.NoteEntryList, updatedAt time.Time) (*models.ClientNote, error)
	Delete(ctx context.Context, id int64) error
}

// CreateNoteRequest opens a new titled note log, optionally seeded with a
// first entry.
type CreateNoteRequest struct {
	Title string  `json:"title" validate:"required"`
	Text  *string `json:"text"`
}

// Note mutation actions accepted by UpdateNoteRequest.
const (
	NoteActionAddEntry    = "add_entry"
	NoteActionEditEntry   = "edit_entry"
	NoteActionDeleteEntry = "delete_entry"
)

// UpdateNoteRequest mutates the entry list of a note log. Add prepends;
// edit and delete address an entry by its current index.
type UpdateNoteRequest struct {
	Action string `json:"action" validate:"required,oneof=add_entry edit_entry delete_entry"`
	Text   string `json:"text"`
	Index  *int   `json:"index"`
}

// NoteService orchestrates the append-only client note logs. Reads follow
// the parent client's ownership; mutations are practitioner-only.
type NoteService struct {
	repo      noteRepository
	clients   clientAuthorizer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewNoteService creates a new note service instance.
func NewNoteService(repo noteRepository, clients clientAuthorizer, validate *validator.Validate, logger *zap.Logger) *NoteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{repo: repo, clients: clients, validator: validate, logger: logger, now: time.Now}
}

// List returns the client's note logs.
func (s *NoteService) List(ctx context.Context, actor models.Actor, clientID int64) ([]models.ClientNote, error) {
	if _, err := s.clients.Authorize(ctx, actor, clientID); err != nil {
		return nil, err
	}
	notes, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	return notes, nil
}

// Create opens a new note log for a client the practitioner owns.
func (s *NoteService) Create(ctx context.Context, practitionerID int64, clientID int64, req CreateNoteRequest) (*models.ClientNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if _, err := s.clients.Authorize(ctx, models.PractitionerActor{UserID: practitionerID}, clientID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	note := &models.ClientNote{
		ClientID:    clientID,
		Title:       req.Title,
		Entries:     models.NoteEntryList{},
		LastUpdated: now,
	}
	if req.Text != nil && *req.Text != "" {
		note.Entries = models.NoteEntryList{{Text: *req.Text, Date: now}}
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create note")
	}
	return note, nil
}

// Update applies one entry mutation and refreshes lastUpdated.
func (s *NoteService) Update(ctx context.Context, practitionerID int64, noteID int64, req UpdateNoteRequest) (*models.ClientNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}

	note, err := s.authorizeNote(ctx, practitionerID, noteID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entries := note.Entries

	switch req.Action {
	case NoteActionAddEntry:
		if req.Text == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "text is required")
		}
		// Newest entry first.
		entries = append(models.NoteEntryList{{Text: req.Text, Date: now}}, entries...)
	case NoteActionEditEntry:
		if req.Index == nil || *req.Index < 0 || *req.Index >= len(entries) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "entry index out of range")
		}
		if req.Text == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "text is required")
		}
		entries[*req.Index].Text = req.Text
	case NoteActionDeleteEntry:
		if req.Index == nil || *req.Index < 0 || *req.Index >= len(entries) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "entry index out of range")
		}
		entries = append(entries[:*req.Index], entries[*req.Index+1:]...)
	}

	updated, err := s.repo.ReplaceEntries(ctx, noteID, entries, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update note")
	}
	return updated, nil
}

// Delete removes a note log wholesale.
func (s *NoteService) Delete(ctx context.Context, practitionerID int64, noteID int64) error {
	if _, err := s.authorizeNote(ctx, practitionerID, noteID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, noteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete note")
	}
	return nil
}

func (s *NoteService) authorizeNote(ctx context.Context, practitionerID int64, noteID int64) (*models.ClientNote, error) {
	note, err := s.repo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load note")
	}
	if _, err := s.clients.Authorize(ctx, models.PractitionerActor{UserID: practitionerID}, note.ClientID); err != nil {
		return nil, err
	}
	return note, nil
}
