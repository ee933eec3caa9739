package services

import (
	"dealerboard/analytics"
	"dealerboard/database"
	"dealerboard/export"
	apperrors "dealerboard/server/errors"
)

// ExportService собирает таблицы выгрузок по активным критериям
type ExportService struct {
	dashboard *DashboardService
}

// NewExportService создает сервис выгрузок
func NewExportService(dashboard *DashboardService) *ExportService {
	return &ExportService{dashboard: dashboard}
}

// ExportView виды выгрузок
const (
	ViewDealers = "dealers"
	ViewModels  = "models"
	ViewRecords = "records"
)

// Table строит таблицу для вида выгрузки
func (s *ExportService) Table(kind database.DatasetKind, c analytics.Criteria, view string) (export.Table, error) {
	switch view {
	case ViewDealers:
		rows := analytics.SortRows(s.dashboard.Group(kind, c, analytics.GroupByDealer), analytics.MetricRevenue, true)
		return export.DealersTable(rows), nil
	case ViewModels:
		rows := analytics.SortRows(s.dashboard.Group(kind, c, analytics.GroupByModel), analytics.MetricRevenue, true)
		return export.ModelsTable(rows), nil
	case ViewRecords:
		return export.RecordsTable(s.dashboard.Filtered(kind, c)), nil
	}
	return export.Table{}, apperrors.NewNotFoundError("неизвестный вид выгрузки: "+view, nil)
}

// CSV выгрузка в CSV
func (s *ExportService) CSV(kind database.DatasetKind, c analytics.Criteria, view string) ([]byte, error) {
	table, err := s.Table(kind, c, view)
	if err != nil {
		return nil, err
	}
	data, err := export.ToCSV(table)
	if err != nil {
		return nil, apperrors.NewInternalError("не удалось сформировать CSV", err)
	}
	return data, nil
}

// Excel выгрузка в XLSX
func (s *ExportService) Excel(kind database.DatasetKind, c analytics.Criteria, view string) ([]byte, error) {
	table, err := s.Table(kind, c, view)
	if err != nil {
		return nil, err
	}
	data, err := export.ToExcel(table)
	if err != nil {
		return nil, apperrors.NewInternalError("не удалось сформировать Excel", err)
	}
	return data, nil
}
