package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/carelog-api/internal/service"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
	"github.com/noah-isme/carelog-api/pkg/response"
)

// ClientHandler wires HTTP endpoints to the client service.
type ClientHandler struct {
	service *service.ClientService
}

// NewClientHandler creates a new handler.
func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{service: svc}
}

// List godoc
// @Summary List clients
// @Description List the caller's active client roster with linked account info
// @Tags Clients
// @Produce json
// @Param include_archived query bool false "Include archived clients"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	practitioner, err := currentPractitioner(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	includeArchived := c.Query("include_archived") == "true"
	clients, err := h.service.List(c.Request.Context(), practitioner.UserID, includeArchived)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clients, nil)
}

// Get godoc
// @Summary Get client
// @Description Fetch a single client the caller may access
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	client, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Create godoc
// @Summary Add client
// @Description Link an existing client-role account into the caller's roster
// @Tags Clients
// @Accept json
// @Produce json
// @Param payload body service.CreateClientRequest true "Client payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	practitioner, err := currentPractitioner(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid client payload"))
		return
	}

	client, err := h.service.Create(c.Request.Context(), practitioner.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, client)
}

// CreateWithUser godoc
// @Summary Add client with account
// @Description Create a client account and its client record in one call
// @Tags Clients
// @Accept json
// @Produce json
// @Param payload body service.CreateClientWithUserRequest true "Client and account payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /clients/with-user [post]
func (h *ClientHandler) CreateWithUser(c *gin.Context) {
	practitioner, err := currentPractitioner(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateClientWithUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid client payload"))
		return
	}

	client, user, err := h.service.CreateWithUser(c.Request.Context(), practitioner.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"client": client, "user": user})
}

// Update godoc
// @Summary Update client
// @Description Patch fields of a client the caller owns
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param payload body service.UpdateClientRequest true "Client patch"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clients/{id} [patch]
func (h *ClientHandler) Update(c *gin.Context) {
	practitioner, err := currentPractitioner(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid client payload"))
		return
	}

	client, err := h.service.Update(c.Request.Context(), practitioner.UserID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Archive godoc
// @Summary Archive client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/archive [patch]
func (h *ClientHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

// Unarchive godoc
// @Summary Unarchive client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/unarchive [patch]
func (h *ClientHandler) Unarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *ClientHandler) setArchived(c *gin.Context, archived bool) {
	practitioner, err := currentPractitioner(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	client, err := h.service.SetArchived(c.Request.Context(), practitioner.UserID, id, archived)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Delete godoc
// @Summary Delete client
// @Description Remove a client together with its account and all dependent records
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	practitioner, err := currentPractitioner(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), practitioner.UserID, id, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}
