package integration

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"dealerboard/analytics"
)

// Bitrix24Provider имитация выгрузки из Битрикс24.
// Отличается от AmoCRM периодичностью данных: Битрикс24 отдает
// обновление только на каждый второй опрос, имитируя редкие выгрузки.
type Bitrix24Provider struct {
	fab       fabricator
	limiter   *rate.Limiter
	latency   time.Duration
	available atomic.Bool
}

// NewBitrix24Provider создает провайдера Битрикс24
func NewBitrix24Provider(rateLimit, latency time.Duration) *Bitrix24Provider {
	p := &Bitrix24Provider{
		fab:     fabricator{providerName: "bitrix24"},
		limiter: rate.NewLimiter(rate.Every(rateLimit), 1),
		latency: latency,
	}
	p.available.Store(true)
	return p
}

// Name возвращает машинное имя провайдера
func (p *Bitrix24Provider) Name() string { return "bitrix24" }

// Title возвращает название для UI
func (p *Bitrix24Provider) Title() string { return "Битрикс24" }

// IsAvailable проверяет доступность провайдера
func (p *Bitrix24Provider) IsAvailable() bool { return p.available.Load() }

// FetchDocument имитирует запрос к REST API Битрикс24
func (p *Bitrix24Provider) FetchDocument(ctx context.Context, cursor int64) (*analytics.RawDocument, int64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, cursor, fmt.Errorf("rate limit wait failed: %w", err)
	}
	if err := simulateLatency(ctx, p.latency); err != nil {
		p.available.Store(false)
		return nil, cursor, err
	}
	p.available.Store(true)

	// Нечетный курсор — "новых данных нет"
	if cursor%2 == 1 {
		return nil, cursor, nil
	}

	doc := p.fab.fabricate(cursor+1, 3)
	return doc, cursor + 1, nil
}
