package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/carelog-api/internal/models"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
	"github.com/noah-isme/carelog-api/pkg/response"
)

// RequirePractitioner restricts a route to practitioner accounts. It must
// run after Session.
func RequirePractitioner() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorValue, exists := c.Get(ContextActorKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := actorValue.(models.PractitionerActor); !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
