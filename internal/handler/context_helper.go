package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/carelog-api/internal/middleware"
	"github.com/noah-isme/carelog-api/internal/models"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
)

func currentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, appErrors.ErrUnauthorized
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return user, nil
}

func currentActor(c *gin.Context) (models.Actor, error) {
	value, exists := c.Get(middleware.ContextActorKey)
	if !exists {
		return nil, appErrors.ErrUnauthorized
	}
	actor, ok := value.(models.Actor)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return actor, nil
}

// currentPractitioner requires the actor to be a practitioner.
func currentPractitioner(c *gin.Context) (models.PractitionerActor, error) {
	actor, err := currentActor(c)
	if err != nil {
		return models.PractitionerActor{}, err
	}
	practitioner, ok := actor.(models.PractitionerActor)
	if !ok {
		return models.PractitionerActor{}, appErrors.ErrForbidden
	}
	return practitioner, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id parameter")
	}
	return id, nil
}
