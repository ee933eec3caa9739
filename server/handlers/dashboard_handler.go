package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealerboard/analytics"
	"dealerboard/format"
	apperrors "dealerboard/server/errors"
	"dealerboard/server/services"
)

// DashboardHandler отдает сводки, списки фильтров и агрегаты
type DashboardHandler struct {
	dashboard *services.DashboardService
	metrics   *apperrors.ErrorMetricsCollector
}

// NewDashboardHandler создает обработчик дашборда
func NewDashboardHandler(dashboard *services.DashboardService, metrics *apperrors.ErrorMetricsCollector) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, metrics: metrics}
}

// summaryView KPI-панель: числа для графиков плюс готовые подписи
// в русской локали
type summaryView struct {
	analytics.Summary
	UnitsLabel    string `json:"units_label"`
	RevenueLabel  string `json:"revenue_label"`
	MarginLabel   string `json:"margin_label"`
	AvgCheckLabel string `json:"avg_check_label"`
}

// Summary GET /api/dashboard/summary — KPI по активным критериям
func (h *DashboardHandler) Summary(c *gin.Context) {
	kind, err := KindFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	criteria := CriteriaFromQuery(c)

	summary := h.dashboard.Summary(kind, criteria)
	SendJSONResponse(c, http.StatusOK, summaryView{
		Summary:       summary,
		UnitsLabel:    format.Integer(summary.Units),
		RevenueLabel:  format.Currency(summary.Revenue),
		MarginLabel:   format.Currency(summary.Margin),
		AvgCheckLabel: format.Currency(summary.AvgCheck),
	})
}

// Options GET /api/dashboard/options — доступные значения фильтров
func (h *DashboardHandler) Options(c *gin.Context) {
	kind, err := KindFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	criteria := CriteriaFromQuery(c)
	SendJSONResponse(c, http.StatusOK, h.dashboard.Options(kind, criteria))
}

// Records GET /api/dashboard/records — плоские записи с постраничной выдачей
func (h *DashboardHandler) Records(c *gin.Context) {
	kind, err := KindFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	criteria := CriteriaFromQuery(c)
	records := h.dashboard.Filtered(kind, criteria)

	// Отрицательные значения пагинации приравниваются к отсутствующим,
	// иначе срез уходит за границы
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	total := len(records)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"total":   total,
		"offset":  offset,
		"records": records[offset:end],
	})
}

// Group GET /api/dashboard/group — агрегаты по ключу группировки
func (h *DashboardHandler) Group(c *gin.Context) {
	kind, err := KindFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	key, err := groupKeyFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	criteria := CriteriaFromQuery(c)

	rows := h.dashboard.Group(kind, criteria, key)
	if metric, ok := metricFromQuery(c); ok {
		rows = analytics.SortRows(rows, metric, true)
	}
	SendJSONResponse(c, http.StatusOK, rows)
}

// Top GET /api/dashboard/top — топ-N по метрике с долями
func (h *DashboardHandler) Top(c *gin.Context) {
	kind, err := KindFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	key, err := groupKeyFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	criteria := CriteriaFromQuery(c)
	metric, _ := metricFromQuery(c)
	n := intQuery(c, "limit", 5)

	rows := h.dashboard.Top(kind, criteria, key, metric, n)
	view := make([]topRowView, len(rows))
	for i, row := range rows {
		view[i] = topRowView{AggRow: row, ShareLabel: format.Percent(row.Share)}
	}
	SendJSONResponse(c, http.StatusOK, view)
}

// topRowView строка топа с подписанной долей
type topRowView struct {
	analytics.AggRow
	ShareLabel string `json:"share_label"`
}

func groupKeyFromQuery(c *gin.Context) (analytics.GroupKey, error) {
	key := analytics.GroupKey(c.DefaultQuery("by", string(analytics.GroupByDealer)))
	switch key {
	case analytics.GroupByDealer, analytics.GroupByModel, analytics.GroupByOffer,
		analytics.GroupByMonth, analytics.GroupByWeekday:
		return key, nil
	}
	return "", apperrors.NewValidationError("неизвестный ключ группировки: "+string(key), nil)
}

// metricFromQuery возвращает метрику сортировки; по умолчанию выручка
func metricFromQuery(c *gin.Context) (analytics.Metric, bool) {
	v := c.Query("metric")
	switch analytics.Metric(v) {
	case analytics.MetricRevenue, analytics.MetricMargin, analytics.MetricUnits:
		return analytics.Metric(v), true
	}
	return analytics.MetricRevenue, v == ""
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}
