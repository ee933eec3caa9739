// Package handlers HTTP-обработчики дашборда
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dealerboard/server/errors"
	"dealerboard/server/middleware"
)

// SendJSONResponse отправляет JSON-ответ
func SendJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendJSONError отправляет JSON-ошибку и логирует ее
func SendJSONError(c *gin.Context, statusCode int, message string) {
	slog.Error("HTTP error",
		"error", message,
		"status_code", statusCode,
		"request_id", middleware.GetRequestID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// HandleError разворачивает ошибку сервиса в HTTP-ответ.
// AppError несет свой статус и сообщение, остальное прячется за 500.
func HandleError(c *gin.Context, metrics *apperrors.ErrorMetricsCollector, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("необработанная ошибка", err)
	}
	if metrics != nil {
		metrics.RecordError(appErr, c.FullPath())
	}
	SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
}

// readBody читает тело запроса с ограничением размера
func readBody(c *gin.Context, limit int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	data, err := c.GetRawData()
	if err != nil {
		return nil, apperrors.NewValidationError("не удалось прочитать тело запроса", err)
	}
	return data, nil
}
