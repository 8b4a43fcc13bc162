package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/carelog-api/internal/service"
	"github.com/noah-isme/carelog-api/pkg/response"
)

// StatisticsHandler wires HTTP endpoints to the statistics service.
type StatisticsHandler struct {
	service *service.StatisticsService
	metrics *service.MetricsService
}

// NewStatisticsHandler creates a new handler.
func NewStatisticsHandler(svc *service.StatisticsService, metrics *service.MetricsService) *StatisticsHandler {
	return &StatisticsHandler{service: svc, metrics: metrics}
}

// Get godoc
// @Summary Dashboard statistics
// @Description Aggregated counts for the caller's dashboard
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	practitioner, err := currentPractitioner(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, cached, err := h.service.Get(c.Request.Context(), practitioner.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordCacheLookup(cached)
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{"cached": cached})
}
