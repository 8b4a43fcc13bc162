package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/carelog-api/internal/middleware"
	"github.com/noah-isme/carelog-api/internal/models"
	"github.com/noah-isme/carelog-api/internal/service"
	"github.com/noah-isme/carelog-api/internal/session"
)

type routerSessionStore struct {
	sessions map[string]int64
}

func (s *routerSessionStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	return "", nil
}

func (s *routerSessionStore) Resolve(ctx context.Context, id string) (int64, error) {
	userID, ok := s.sessions[id]
	if !ok {
		return 0, session.ErrNotFound
	}
	return userID, nil
}

func (s *routerSessionStore) Destroy(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type routerUserRepo struct {
	users map[int64]*models.User
}

func (r *routerUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (r *routerUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (r *routerUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (r *routerUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (r *routerUserRepo) UpdateProfile(ctx context.Context, id int64, req models.UpdateProfileRequest) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (r *routerUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (r *routerUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

type routerClientRepo struct{}

func (r *routerClientRepo) FindByUserID(ctx context.Context, userID int64) (*models.Client, error) {
	return nil, sql.ErrNoRows
}

func newLogoutTestRouter(store *routerSessionStore, users *routerUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cookie := SessionCookie{Name: "carelog_session"}
	authSvc := service.NewAuthService(users, store, nil, nil, service.AuthServiceConfig{SessionTTL: time.Hour})
	h := Handlers{Auth: NewAuthHandler(authSvc, nil, cookie)}

	r := gin.New()
	requireAuth := middleware.Session(store, cookie.Name, users, &routerClientRepo{})
	RegisterRoutes(r, "/api", h, requireAuth, middleware.RequirePractitioner())
	return r
}

func TestLogoutSucceedsWithoutSession(t *testing.T) {
	r := newLogoutTestRouter(&routerSessionStore{sessions: map[string]int64{}}, &routerUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestLogoutDestroysSessionAndStaysIdempotent(t *testing.T) {
	store := &routerSessionStore{sessions: map[string]int64{"sess-1": 1}}
	users := &routerUserRepo{users: map[int64]*models.User{1: {ID: 1, Role: models.RolePractitioner, Name: "Dr. Smith"}}}
	r := newLogoutTestRouter(store, users)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: "carelog_session", Value: "sess-1"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.sessions)

	// A second logout with the now-stale cookie still returns 200.
	req = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: "carelog_session", Value: "sess-1"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
