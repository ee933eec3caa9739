package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"dealerboard/database"
	"dealerboard/integration"
	apperrors "dealerboard/server/errors"
)

// SyncService опрашивает имитированные интеграции и применяет
// полученные документы. Курсор каждого провайдера живет в базе и
// передается в провайдера явно — провайдеры не держат состояния.
// Фоновая синхронизация не пересекается с ядром: она лишь подает
// готовый документ через UploadService.
type SyncService struct {
	registry *integration.Registry
	store    *database.Store
	upload   *UploadService
	notifier *integration.TelegramNotifier
	cron     *cron.Cron
	timeout  time.Duration
}

// SyncResult итог одного прогона синхронизации
type SyncResult struct {
	Provider string `json:"provider"`
	Applied  bool   `json:"applied"`
	Cursor   int64  `json:"cursor"`
	Dealers  int    `json:"dealers,omitempty"`
}

// NewSyncService создает сервис синхронизации
func NewSyncService(
	registry *integration.Registry,
	store *database.Store,
	upload *UploadService,
	notifier *integration.TelegramNotifier,
	timeout time.Duration,
) *SyncService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SyncService{
		registry: registry,
		store:    store,
		upload:   upload,
		notifier: notifier,
		cron:     cron.New(),
		timeout:  timeout,
	}
}

// Statuses состояния провайдеров для панели интеграций
func (s *SyncService) Statuses() []integration.Status {
	return s.registry.Statuses()
}

// RunOnce выполняет один цикл синхронизации провайдера.
// Полученный документ уходит в набор продаж; провайдер без новых
// данных оставляет курсор на месте.
func (s *SyncService) RunOnce(ctx context.Context, providerName string) (SyncResult, error) {
	provider, err := s.registry.Get(providerName)
	if err != nil {
		return SyncResult{}, apperrors.NewNotFoundError(err.Error(), err)
	}

	cursor, err := s.store.LoadSyncCursor(providerName)
	if err != nil {
		return SyncResult{}, apperrors.NewInternalError("не удалось прочитать курсор синхронизации", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, nextCursor, err := provider.FetchDocument(ctx, cursor)
	if err != nil {
		return SyncResult{}, apperrors.NewServiceUnavailableError(
			fmt.Sprintf("провайдер %s недоступен", provider.Title()), err)
	}

	result := SyncResult{Provider: providerName, Cursor: nextCursor}
	if doc == nil {
		return result, nil
	}

	if err := s.upload.Apply(database.DatasetSales, doc); err != nil {
		return SyncResult{}, err
	}
	if err := s.store.SaveSyncCursor(providerName, nextCursor); err != nil {
		return SyncResult{}, apperrors.NewInternalError("не удалось сохранить курсор синхронизации", err)
	}

	result.Applied = true
	result.Dealers = len(doc.Items)

	if s.notifier != nil {
		s.notifier.Notify(fmt.Sprintf("Синхронизация %s: загружено дилеров — %d", provider.Title(), result.Dealers))
	}
	return result, nil
}

// Schedule запускает фоновый опрос всех провайдеров по cron-расписанию
func (s *SyncService) Schedule(spec string) error {
	for _, name := range s.registry.Names() {
		providerName := name
		_, err := s.cron.AddFunc(spec, func() {
			result, err := s.RunOnce(context.Background(), providerName)
			if err != nil {
				slog.Warn("background sync failed", "provider", providerName, "error", err)
				return
			}
			slog.Info("background sync finished",
				"provider", providerName,
				"applied", result.Applied,
				"cursor", result.Cursor,
			)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule sync for %s: %w", providerName, err)
		}
	}
	s.cron.Start()
	return nil
}

// Stop останавливает фоновый опрос и ждет завершения текущих задач
func (s *SyncService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
