package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealerboard/analytics"
	"dealerboard/database"
	apperrors "dealerboard/server/errors"
)

// FiltersHandler хранит выбранные пользователем фильтры между сессиями
type FiltersHandler struct {
	store   *database.Store
	metrics *apperrors.ErrorMetricsCollector
}

// NewFiltersHandler создает обработчик состояния фильтров
func NewFiltersHandler(store *database.Store, metrics *apperrors.ErrorMetricsCollector) *FiltersHandler {
	return &FiltersHandler{store: store, metrics: metrics}
}

// Get GET /api/filters/state — сохраненные критерии.
// Отсутствие сохраненного состояния отдает критерии по умолчанию.
func (h *FiltersHandler) Get(c *gin.Context) {
	criteria, err := h.store.LoadFilterState()
	if err != nil {
		HandleError(c, h.metrics, apperrors.NewInternalError("не удалось прочитать состояние фильтров", err))
		return
	}
	SendJSONResponse(c, http.StatusOK, criteria)
}

// Put PUT /api/filters/state — перезаписывает сохраненные критерии целиком
func (h *FiltersHandler) Put(c *gin.Context) {
	payload, err := readBody(c, 1<<20)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}

	var criteria analytics.Criteria
	if err := json.Unmarshal(payload, &criteria); err != nil {
		HandleError(c, h.metrics, apperrors.NewValidationError("некорректный JSON критериев", err))
		return
	}

	if err := h.store.SaveFilterState(criteria); err != nil {
		HandleError(c, h.metrics, apperrors.NewInternalError("не удалось сохранить состояние фильтров", err))
		return
	}
	SendJSONResponse(c, http.StatusOK, gin.H{"status": "ok"})
}
