package integration

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"dealerboard/analytics"
)

// AmoCRMProvider имитация выгрузки сделок из AmoCRM.
// Доступность читается из HTTP-обработчика параллельно с фоновой
// синхронизацией, поэтому хранится в atomic.Bool.
type AmoCRMProvider struct {
	fab       fabricator
	limiter   *rate.Limiter
	latency   time.Duration
	available atomic.Bool
}

// NewAmoCRMProvider создает провайдера AmoCRM
func NewAmoCRMProvider(rateLimit, latency time.Duration) *AmoCRMProvider {
	p := &AmoCRMProvider{
		fab:     fabricator{providerName: "amocrm"},
		limiter: rate.NewLimiter(rate.Every(rateLimit), 1),
		latency: latency,
	}
	p.available.Store(true)
	return p
}

// Name возвращает машинное имя провайдера
func (p *AmoCRMProvider) Name() string { return "amocrm" }

// Title возвращает название для UI
func (p *AmoCRMProvider) Title() string { return "AmoCRM" }

// IsAvailable проверяет доступность провайдера
func (p *AmoCRMProvider) IsAvailable() bool { return p.available.Load() }

// FetchDocument имитирует запрос к API: выдерживает rate limit и
// сетевую задержку, затем фабрикует документ для данного курсора
func (p *AmoCRMProvider) FetchDocument(ctx context.Context, cursor int64) (*analytics.RawDocument, int64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, cursor, fmt.Errorf("rate limit wait failed: %w", err)
	}
	if err := simulateLatency(ctx, p.latency); err != nil {
		p.available.Store(false)
		return nil, cursor, err
	}

	p.available.Store(true)
	doc := p.fab.fabricate(cursor+1, 4)
	return doc, cursor + 1, nil
}
