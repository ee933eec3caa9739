package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dealerboard/server/errors"
	"dealerboard/server/services"
)

// MapHandler отдает точки дилеров для карты
type MapHandler struct {
	maps    *services.MapService
	metrics *apperrors.ErrorMetricsCollector
}

// NewMapHandler создает обработчик карты
func NewMapHandler(maps *services.MapService, metrics *apperrors.ErrorMetricsCollector) *MapHandler {
	return &MapHandler{maps: maps, metrics: metrics}
}

// Points GET /api/map/points — дилеры с координатами и сводкой
func (h *MapHandler) Points(c *gin.Context) {
	kind, err := KindFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	criteria := CriteriaFromQuery(c)
	points := h.maps.Points(kind, criteria)
	SendJSONResponse(c, http.StatusOK, gin.H{
		"count":  len(points),
		"points": points,
	})
}
