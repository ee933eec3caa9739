// Package integration имитации внешних интеграций (AmoCRM, Битрикс24,
// PIK API, Telegram). Реальной сети нет: провайдеры выдерживают паузу
// по таймеру и фабрикуют правдоподобный документ. Корректность их
// данных не гарантируется — это демонстрационный контур.
package integration

import (
	"context"
	"fmt"
	"sort"

	"dealerboard/analytics"
)

// Provider источник документов продаж. Курсор дедупликации принадлежит
// вызывающей стороне: он передается внутрь и возвращается обновленным,
// провайдер не держит изменяемого состояния между опросами.
type Provider interface {
	// Name машинное имя провайдера ("amocrm", "bitrix24", "pik")
	Name() string
	// Title человекочитаемое название для UI
	Title() string
	// IsAvailable доступность провайдера на последний момент обращения
	IsAvailable() bool
	// FetchDocument возвращает очередной документ и следующий курсор.
	// Если новых данных нет, документ nil и курсор не меняется.
	FetchDocument(ctx context.Context, cursor int64) (*analytics.RawDocument, int64, error)
}

// Registry реестр подключенных провайдеров
type Registry struct {
	providers map[string]Provider
}

// NewRegistry создает реестр
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: map[string]Provider{}}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get находит провайдера по имени
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("неизвестный провайдер интеграции: %q", name)
	}
	return p, nil
}

// Names отсортированный список имен провайдеров
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status снимок состояния провайдера для панели интеграций
type Status struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Available bool   `json:"available"`
}

// Statuses снимки всех провайдеров
func (r *Registry) Statuses() []Status {
	statuses := make([]Status, 0, len(r.providers))
	for _, name := range r.Names() {
		p := r.providers[name]
		statuses = append(statuses, Status{
			Name:      p.Name(),
			Title:     p.Title(),
			Available: p.IsAvailable(),
		})
	}
	return statuses
}
