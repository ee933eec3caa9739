package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dealerboard/server/errors"
	"dealerboard/server/services"
)

// SyncHandler управляет интеграциями с внешними системами
type SyncHandler struct {
	sync    *services.SyncService
	metrics *apperrors.ErrorMetricsCollector
}

// NewSyncHandler создает обработчик интеграций
func NewSyncHandler(sync *services.SyncService, metrics *apperrors.ErrorMetricsCollector) *SyncHandler {
	return &SyncHandler{sync: sync, metrics: metrics}
}

// List GET /api/integrations — состояние всех провайдеров
func (h *SyncHandler) List(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, gin.H{
		"integrations": h.sync.Statuses(),
	})
}

// Run POST /api/integrations/:name/sync — ручной запуск синхронизации
func (h *SyncHandler) Run(c *gin.Context) {
	result, err := h.sync.RunOnce(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, result)
}
