package middleware

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/carelog-api/internal/models"
	"github.com/noah-isme/carelog-api/internal/session"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
	"github.com/noah-isme/carelog-api/pkg/response"
)

// Context keys set by Session for downstream handlers.
const (
	ContextUserKey  = "currentUser"
	ContextActorKey = "currentActor"
)

type sessionUserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type sessionClientRepository interface {
	FindByUserID(ctx context.Context, userID int64) (*models.Client, error)
}

// Session protects routes by requiring a valid session cookie. On success it
// stores the authenticated user and their actor in the gin context.
func Session(store session.Store, cookieName string, users sessionUserRepository, clients sessionClientRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		userID, err := store.Resolve(c.Request.Context(), cookie)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				response.Error(c, appErrors.ErrUnauthorized)
			} else {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve session"))
			}
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Session outlived its user.
				response.Error(c, appErrors.ErrUnauthorized)
			} else {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user"))
			}
			c.Abort()
			return
		}

		actor, err := buildActor(c.Request.Context(), user, clients)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

func buildActor(ctx context.Context, user *models.User, clients sessionClientRepository) (models.Actor, error) {
	if user.Role != models.RoleClient {
		return models.PractitionerActor{UserID: user.ID}, nil
	}
	client, err := clients.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Self-registered client accounts have no client row until a
			// practitioner links one. Identity routes still work; resource
			// access is denied by the ownership checks downstream.
			return models.ClientActor{UserID: user.ID}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client record")
	}
	return models.ClientActor{UserID: user.ID, ClientID: client.ID, PractitionerID: client.PractitionerID}, nil
}
