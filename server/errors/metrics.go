package errors

import (
	"sync"
	"time"
)

// ErrorMetricsCollector копит счетчики ошибок по статусам и эндпоинтам.
// Снимок отдается панелью состояния сервера.
type ErrorMetricsCollector struct {
	mu          sync.Mutex
	byStatus    map[int]int
	byEndpoint  map[string]int
	total       int
	lastError   string
	lastErrorAt time.Time
}

// NewErrorMetricsCollector создает сборщик
func NewErrorMetricsCollector() *ErrorMetricsCollector {
	return &ErrorMetricsCollector{
		byStatus:   map[int]int{},
		byEndpoint: map[string]int{},
	}
}

// RecordError учитывает ошибку
func (c *ErrorMetricsCollector) RecordError(err *AppError, endpoint string) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.byStatus[err.Code]++
	c.byEndpoint[endpoint]++
	c.lastError = err.Message
	c.lastErrorAt = time.Now()
}

// Snapshot текущее состояние счетчиков
func (c *ErrorMetricsCollector) Snapshot() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	byStatus := map[int]int{}
	for k, v := range c.byStatus {
		byStatus[k] = v
	}
	byEndpoint := map[string]int{}
	for k, v := range c.byEndpoint {
		byEndpoint[k] = v
	}

	snapshot := map[string]interface{}{
		"total":       c.total,
		"by_status":   byStatus,
		"by_endpoint": byEndpoint,
	}
	if c.total > 0 {
		snapshot["last_error"] = c.lastError
		snapshot["last_error_at"] = c.lastErrorAt.Format(time.RFC3339)
	}
	return snapshot
}
