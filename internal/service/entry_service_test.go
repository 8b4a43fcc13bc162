package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/carelog-api/internal/models"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
)

type stubAuthorizer struct {
	client *models.Client
	err    error
	calls  int
}

func (s *stubAuthorizer) Authorize(ctx context.Context, actor models.Actor, clientID int64) (*models.Client, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

type mockEntryRepo struct {
	entries   []models.DataEntry
	createErr error
	nextID    int64
}

func (m *mockEntryRepo) Create(ctx context.Context, entry *models.DataEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	entry.ID = m.nextID
	m.entries = append([]models.DataEntry{*entry}, m.entries...)
	return nil
}

func (m *mockEntryRepo) ListByClient(ctx context.Context, clientID int64) ([]models.DataEntry, error) {
	return m.entries, nil
}

func TestEntryCreateValidatesBounds(t *testing.T) {
	auth := &stubAuthorizer{client: &models.Client{ID: 10, PractitionerID: 1}}
	svc := NewEntryService(&mockEntryRepo{}, auth, nil, nil)

	cases := []CreateEntryRequest{
		{Mood: "happy", AnxietyLevel: 2, SleepQuality: 3},
		{Mood: models.MoodGood, AnxietyLevel: 0, SleepQuality: 3},
		{Mood: models.MoodGood, AnxietyLevel: 6, SleepQuality: 3},
		{Mood: models.MoodGood, AnxietyLevel: 2, SleepQuality: 0},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), models.PractitionerActor{UserID: 1}, 10, req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Zero(t, auth.calls)
}

func TestEntryCreateByClientActor(t *testing.T) {
	repo := &mockEntryRepo{}
	auth := &stubAuthorizer{client: &models.Client{ID: 10, UserID: 5, PractitionerID: 1}}
	svc := NewEntryService(repo, auth, nil, nil)

	actor := models.ClientActor{UserID: 5, ClientID: 10, PractitionerID: 1}
	entry, err := svc.Create(context.Background(), actor, 10, CreateEntryRequest{
		Mood:         models.MoodLow,
		AnxietyLevel: 4,
		SleepQuality: 2,
		Challenges:   models.StringList{"sleep"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), entry.ClientID)
	assert.Equal(t, models.MoodLow, entry.Mood)
	assert.Equal(t, 1, auth.calls)
}

func TestEntryListForbiddenPropagates(t *testing.T) {
	auth := &stubAuthorizer{err: appErrors.Clone(appErrors.ErrForbidden, "")}
	svc := NewEntryService(&mockEntryRepo{}, auth, nil, nil)

	_, err := svc.List(context.Background(), models.PractitionerActor{UserID: 2}, 10)
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}
