package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dealerboard/server/errors"
	"dealerboard/server/services"
)

// Лимиты на размер загружаемых данных
const (
	maxJSONBodySize = 32 << 20
	maxCSVFileSize  = 16 << 20
)

// UploadHandler принимает документы продаж и склада
type UploadHandler struct {
	upload    *services.UploadService
	dashboard *services.DashboardService
	metrics   *apperrors.ErrorMetricsCollector
}

// NewUploadHandler создает обработчик загрузок
func NewUploadHandler(upload *services.UploadService, dashboard *services.DashboardService, metrics *apperrors.ErrorMetricsCollector) *UploadHandler {
	return &UploadHandler{upload: upload, dashboard: dashboard, metrics: metrics}
}

// UploadJSON POST /api/data/:kind — документ в исходном JSON-формате
func (h *UploadHandler) UploadJSON(c *gin.Context) {
	kind, err := services.ValidKind(c.Param("kind"))
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	payload, err := readBody(c, maxJSONBodySize)
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	if err := h.upload.UploadJSON(kind, payload); err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, gin.H{
		"status":  "ok",
		"kind":    string(kind),
		"records": len(h.dashboard.Records(kind)),
	})
}

// UploadCSV POST /api/data/:kind/csv — CSV-файл в multipart-форме
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	kind, err := services.ValidKind(c.Param("kind"))
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		HandleError(c, h.metrics, apperrors.NewValidationError("файл не найден в форме", err))
		return
	}
	if fileHeader.Size > maxCSVFileSize {
		HandleError(c, h.metrics, apperrors.NewValidationError("файл слишком большой", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		HandleError(c, h.metrics, apperrors.NewInternalError("не удалось открыть файл", err))
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, h.metrics, apperrors.NewInternalError("не удалось прочитать файл", err))
		return
	}

	if err := h.upload.UploadCSV(kind, payload); err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, gin.H{
		"status":  "ok",
		"kind":    string(kind),
		"file":    fileHeader.Filename,
		"records": len(h.dashboard.Records(kind)),
	})
}

// GetDocument GET /api/data/:kind — текущий активный документ
func (h *UploadHandler) GetDocument(c *gin.Context) {
	kind, err := services.ValidKind(c.Param("kind"))
	if err != nil {
		HandleError(c, h.metrics, err)
		return
	}
	doc := h.dashboard.Document(kind)
	if doc == nil {
		HandleError(c, h.metrics, apperrors.NewNotFoundError("документ еще не загружен", nil))
		return
	}
	SendJSONResponse(c, http.StatusOK, doc)
}
