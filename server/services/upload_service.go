package services

import (
	"encoding/json"
	"errors"
	"log/slog"

	"dealerboard/analytics"
	"dealerboard/database"
	"dealerboard/importer"
	apperrors "dealerboard/server/errors"
)

// UploadService принимает документы из загрузок и синхронизаций,
// валидирует их, сохраняет в базу и подменяет активный документ
// дашборда. При ошибке импорта прежнее состояние не трогается.
type UploadService struct {
	store     *database.Store
	dashboard *DashboardService
}

// NewUploadService создает сервис загрузок
func NewUploadService(store *database.Store, dashboard *DashboardService) *UploadService {
	return &UploadService{store: store, dashboard: dashboard}
}

// ValidKind проверяет вид набора данных
func ValidKind(kind string) (database.DatasetKind, error) {
	switch database.DatasetKind(kind) {
	case database.DatasetSales:
		return database.DatasetSales, nil
	case database.DatasetInventory:
		return database.DatasetInventory, nil
	}
	return "", apperrors.NewNotFoundError("неизвестный вид набора данных: "+kind, nil)
}

// UploadJSON принимает документ в исходном JSON-формате
func (s *UploadService) UploadJSON(kind database.DatasetKind, payload []byte) error {
	var doc analytics.RawDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return apperrors.NewValidationError("некорректный JSON документа", err)
	}
	if err := analytics.ValidateDocument(&doc); err != nil {
		return apperrors.NewValidationError(err.Error(), err)
	}
	return s.Apply(kind, &doc)
}

// UploadCSV принимает CSV-выгрузку и прогоняет ее через импортер
func (s *UploadService) UploadCSV(kind database.DatasetKind, payload []byte) error {
	doc, err := importer.ParseCSV(payload)
	if err != nil {
		var importErr *importer.ImportError
		if errors.As(err, &importErr) {
			return apperrors.NewValidationError(importErr.Message, err)
		}
		return apperrors.NewInternalError("не удалось разобрать CSV", err)
	}
	return s.Apply(kind, doc)
}

// Apply сохраняет валидный документ и делает его активным
func (s *UploadService) Apply(kind database.DatasetKind, doc *analytics.RawDocument) error {
	if err := s.store.SaveDocument(kind, doc); err != nil {
		return apperrors.NewInternalError("не удалось сохранить документ", err)
	}
	s.dashboard.SetDocument(kind, doc)

	slog.Info("document applied",
		"kind", string(kind),
		"dealers", len(doc.Items),
		"count_sold", doc.Total.CountSold,
	)
	return nil
}

// RestorePersisted поднимает сохраненные документы при старте сервера.
// Отсутствие сохраненного документа — не ошибка, дашборд стартует пустым.
func (s *UploadService) RestorePersisted() error {
	for _, kind := range []database.DatasetKind{database.DatasetSales, database.DatasetInventory} {
		doc, err := s.store.LoadDocument(kind)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		s.dashboard.SetDocument(kind, doc)
		slog.Info("document restored", "kind", string(kind), "dealers", len(doc.Items))
	}
	return nil
}
