package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/carelog-api/internal/service"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
	"github.com/noah-isme/carelog-api/pkg/response"
)

// EntryHandler wires HTTP endpoints to the entry service.
type EntryHandler struct {
	service *service.EntryService
}

// NewEntryHandler creates a new handler.
func NewEntryHandler(svc *service.EntryService) *EntryHandler {
	return &EntryHandler{service: svc}
}

// List godoc
// @Summary List check-ins
// @Description List a client's check-in entries, newest first
// @Tags Entries
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clients/{id}/data [get]
func (h *EntryHandler) List(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	clientID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, err := h.service.List(c.Request.Context(), actor, clientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Record check-in
// @Description Record a mood/anxiety/sleep check-in for a client
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param payload body service.CreateEntryRequest true "Check-in payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clients/{id}/data [post]
func (h *EntryHandler) Create(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	clientID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid entry payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), actor, clientID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}
