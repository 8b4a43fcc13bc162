package middleware

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

	"github.com/noah-isme/carelog-api/internal/models"
	"github.com/noah-isme/carelog-api/internal/session"
)

const testCookie = "carelog_session"

type fakeStore struct {
	sessions map[string]int64
}

func (f *fakeStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	return "", nil
}

func (f *fakeStore) Resolve(ctx context.Context, id string) (int64, error) {
	userID, ok := f.sessions[id]
	if !ok {
		return 0, session.ErrNotFound
	}
	return userID, nil
}

func (f *fakeStore) Destroy(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

type fakeClientRepo struct {
	clients map[int64]*models.Client
}

func (f *fakeClientRepo) FindByUserID(ctx context.Context, userID int64) (*models.Client, error) {
	client, ok := f.clients[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return client, nil
}

func newTestRouter(store *fakeStore, users *fakeUserRepo, clients *fakeClientRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("", Session(store, testCookie, users, clients))
	protected.GET("/whoami", func(c *gin.Context) {
		actor := c.MustGet(ContextActorKey).(models.Actor)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.ActorUserID()})
	})
	protected.GET("/practitioner-only", RequirePractitioner(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(r *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionMiddlewareRejectsMissingCookie(t *testing.T) {
	r := newTestRouter(&fakeStore{}, &fakeUserRepo{}, &fakeClientRepo{})
	rec := request(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddlewareRejectsUnknownSession(t *testing.T) {
	r := newTestRouter(&fakeStore{sessions: map[string]int64{}}, &fakeUserRepo{}, &fakeClientRepo{})
	rec := request(r, "/whoami", "expired")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddlewareResolvesPractitioner(t *testing.T) {
	store := &fakeStore{sessions: map[string]int64{"sess-1": 1}}
	users := &fakeUserRepo{users: map[int64]*models.User{1: {ID: 1, Role: models.RolePractitioner, Name: "Dr. Smith"}}}
	r := newTestRouter(store, users, &fakeClientRepo{})

	rec := request(r, "/whoami", "sess-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":1`)

	rec = request(r, "/practitioner-only", "sess-1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionMiddlewareResolvesClientActor(t *testing.T) {
	store := &fakeStore{sessions: map[string]int64{"sess-2": 5}}
	users := &fakeUserRepo{users: map[int64]*models.User{5: {ID: 5, Role: models.RoleClient, Name: "Alex Doe"}}}
	clients := &fakeClientRepo{clients: map[int64]*models.Client{5: {ID: 10, UserID: 5, PractitionerID: 1}}}
	r := newTestRouter(store, users, clients)

	rec := request(r, "/whoami", "sess-2")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(r, "/practitioner-only", "sess-2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSessionMiddlewareClientWithoutRecordKeepsIdentity(t *testing.T) {
	store := &fakeStore{sessions: map[string]int64{"sess-3": 6}}
	users := &fakeUserRepo{users: map[int64]*models.User{6: {ID: 6, Role: models.RoleClient, Name: "Alex New"}}}
	r := newTestRouter(store, users, &fakeClientRepo{clients: map[int64]*models.Client{}})

	// A self-registered client account with no linked client row still
	// resolves its own identity.
	rec := request(r, "/whoami", "sess-3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":6`)

	rec = request(r, "/practitioner-only", "sess-3")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSessionMiddlewareStaleUserUnauthorized(t *testing.T) {
	store := &fakeStore{sessions: map[string]int64{"sess-4": 9}}
	r := newTestRouter(store, &fakeUserRepo{users: map[int64]*models.User{}}, &fakeClientRepo{})

	rec := request(r, "/whoami", "sess-4")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
