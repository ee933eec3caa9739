package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "dealerboard/server/errors"
	"dealerboard/server/services"
)

// ExportHandler отдает выгрузки в CSV и Excel
type ExportHandler struct {
	export  *services.ExportService
	metrics *apperrors.ErrorMetricsCollector
}

// NewExportHandler создает обработчик выгрузок
func NewExportHandler(export *services.ExportService, metrics *apperrors.ErrorMetricsCollector) *ExportHandler {
	return &ExportHandler{export: export, metrics: metrics}
}

// Download GET /api/export/:file — файл вида "records.csv" или "dealers.xlsx".
// Критерии фильтрации те же, что у дашборда: выгрузка видит то же,
// что пользователь на экране.
func (h *ExportHandler) Download(c *gin.Context) {
	kind, err := KindFromQuery(c)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	criteria := CriteriaFromQuery(c)

	file := c.Param("file")
	view, format, ok := strings.Cut(file, ".")
	if !ok {
		HandleError(c, h.metrics, apperrors.NewValidationError("имя файла должно содержать расширение", nil))
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", view, time.Now().Format("2006-01-02"), format)

	switch format {
	case "csv":
		data, err := h.export.CSV(kind, criteria, view)
		if err != nil {
			HandleError(c, h.metrics, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	case "xlsx":
		data, err := h.export.Excel(kind, criteria, view)
		if err != nil {
			HandleError(c, h.metrics, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		HandleError(c, h.metrics, apperrors.NewValidationError("неизвестный формат выгрузки: "+format, nil))
	}
}
