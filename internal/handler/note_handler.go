package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/carelog-api/internal/service"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
	"github.com/noah-isme/carelog-api/pkg/response"
)

// NoteHandler wires HTTP endpoints to the note service.
type NoteHandler struct {
	service *service.NoteService
}

// NewNoteHandler creates a new handler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{service: svc}
}

// List godoc
// @Summary List note logs
// @Description List a client's note logs, most recently updated first
// @Tags Notes
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clients/{id}/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
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

	notes, err := h.service.List(c.Request.Context(), actor, clientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}

// Create godoc
// @Summary Open note log
// @Description Open a titled note log for a client, optionally with a first entry
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param payload body service.CreateNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clients/{id}/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	practitioner, err := currentPractitioner(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	clientID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}

	note, err := h.service.Create(c.Request.Context(), practitioner.UserID, clientID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// Update godoc
// @Summary Mutate note log
// @Description Add, edit, or delete one entry of a note log
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param payload body service.UpdateNoteRequest true "Mutation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notes/{id} [patch]
func (h *NoteHandler) Update(c *gin.Context) {
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

	var req service.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}

	note, err := h.service.Update(c.Request.Context(), practitioner.UserID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note, nil)
}

// Delete godoc
// @Summary Delete note log
// @Tags Notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
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

	if err := h.service.Delete(c.Request.Context(), practitioner.UserID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}
