package integration

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"dealerboard/analytics"
)

// PIKProvider имитация складской выгрузки PIK API: документ описывает
// остатки, поэтому у части единиц нет даты продажи — они еще на складе.
type PIKProvider struct {
	fab       fabricator
	limiter   *rate.Limiter
	latency   time.Duration
	available atomic.Bool
}

// NewPIKProvider создает провайдера PIK API
func NewPIKProvider(rateLimit, latency time.Duration) *PIKProvider {
	p := &PIKProvider{
		fab:     fabricator{providerName: "pik"},
		limiter: rate.NewLimiter(rate.Every(rateLimit), 1),
		latency: latency,
	}
	p.available.Store(true)
	return p
}

// Name возвращает машинное имя провайдера
func (p *PIKProvider) Name() string { return "pik" }

// Title возвращает название для UI
func (p *PIKProvider) Title() string { return "PIK API" }

// IsAvailable проверяет доступность провайдера
func (p *PIKProvider) IsAvailable() bool { return p.available.Load() }

// FetchDocument имитирует запрос складских остатков
func (p *PIKProvider) FetchDocument(ctx context.Context, cursor int64) (*analytics.RawDocument, int64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, cursor, fmt.Errorf("rate limit wait failed: %w", err)
	}
	if err := simulateLatency(ctx, p.latency); err != nil {
		p.available.Store(false)
		return nil, cursor, err
	}
	p.available.Store(true)

	doc := p.fab.fabricate(cursor+1, 5)

	// Складские единицы: каждая вторая без даты продажи
	strip := false
	for dealerID, dealer := range doc.Items {
		for modelID, model := range dealer.Models {
			for offerID, offer := range model.Offers {
				for vehicleID, vehicle := range offer.Vehicles {
					strip = !strip
					if strip {
						vehicle.SaleDate = ""
						offer.Vehicles[vehicleID] = vehicle
					}
				}
				model.Offers[offerID] = offer
			}
			dealer.Models[modelID] = model
		}
		doc.Items[dealerID] = dealer
	}

	return doc, cursor + 1, nil
}
