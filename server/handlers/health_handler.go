package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dealerboard/database"
	apperrors "dealerboard/server/errors"
	"dealerboard/server/services"
)

// HealthHandler проверка здоровья сервера
type HealthHandler struct {
	dashboard *services.DashboardService
	store     *database.Store
	metrics   *apperrors.ErrorMetricsCollector
	startedAt time.Time
}

// NewHealthHandler создает обработчик здоровья
func NewHealthHandler(dashboard *services.DashboardService, store *database.Store, metrics *apperrors.ErrorMetricsCollector) *HealthHandler {
	return &HealthHandler{
		dashboard: dashboard,
		store:     store,
		metrics:   metrics,
		startedAt: time.Now(),
	}
}

// Health GET /api/health — состояние сервера и наборов данных
func (h *HealthHandler) Health(c *gin.Context) {
	datasets := gin.H{}
	for _, kind := range []database.DatasetKind{database.DatasetSales, database.DatasetInventory} {
		status := gin.H{"loaded": false}
		if doc := h.dashboard.Document(kind); doc != nil {
			status["loaded"] = true
			status["dealers"] = len(doc.Items)
			status["records"] = len(h.dashboard.Records(kind))
			if updatedAt, err := h.store.DocumentUpdatedAt(kind); err == nil {
				status["updated_at"] = updatedAt.Format(time.RFC3339)
			}
		}
		datasets[string(kind)] = status
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"time":      time.Now().Format(time.RFC3339),
		"uptime_s":  int64(time.Since(h.startedAt).Seconds()),
		"datasets":  datasets,
		"errors":    h.metrics.Snapshot(),
	})
}
