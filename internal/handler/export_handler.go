package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/carelog-api/internal/service"
	"github.com/noah-isme/carelog-api/pkg/response"
)

// ExportHandler serves rendered client exports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export client data
// @Description Download a client's check-in history as CSV or a PDF summary
// @Tags Export
// @Produce text/csv,application/pdf
// @Param id path int true "Client ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /clients/{id}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
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

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	result, err := h.service.Export(c.Request.Context(), practitioner.UserID, clientID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
