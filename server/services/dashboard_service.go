package services

import (
	"encoding/json"
	"sync"

	"dealerboard/analytics"
	"dealerboard/database"
)

// DashboardService владеет текущими документами и производными от них
// плоскими наборами. Ядро чистое, поэтому сервис только кэширует:
// плоский набор пересчитывается при смене документа, отфильтрованное
// подмножество мемоизируется по (вид, критерии), чтобы не гонять
// полный пересчет на каждый чих UI.
type DashboardService struct {
	mu       sync.RWMutex
	docs     map[database.DatasetKind]*analytics.RawDocument
	records  map[database.DatasetKind][]analytics.FlatRecord
	memoKey  map[database.DatasetKind]string
	memoized map[database.DatasetKind][]analytics.FlatRecord
}

// NewDashboardService создает сервис с пустыми наборами
func NewDashboardService() *DashboardService {
	return &DashboardService{
		docs:     map[database.DatasetKind]*analytics.RawDocument{},
		records:  map[database.DatasetKind][]analytics.FlatRecord{},
		memoKey:  map[database.DatasetKind]string{},
		memoized: map[database.DatasetKind][]analytics.FlatRecord{},
	}
}

// SetDocument заменяет документ и пересчитывает плоский набор.
// Последняя запись побеждает, частичных обновлений нет.
func (s *DashboardService) SetDocument(kind database.DatasetKind, doc *analytics.RawDocument) {
	records := analytics.Flatten(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[kind] = doc
	s.records[kind] = records
	delete(s.memoKey, kind)
	delete(s.memoized, kind)
}

// Document текущий документ вида; nil, если еще не загружен
func (s *DashboardService) Document(kind database.DatasetKind) *analytics.RawDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[kind]
}

// Records полный плоский набор вида
func (s *DashboardService) Records(kind database.DatasetKind) []analytics.FlatRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[kind]
}

func criteriaKey(c analytics.Criteria) string {
	// Критерии маленькие, JSON-ключ дешевле structural-сравнения
	payload, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(payload)
}

// Filtered отфильтрованное подмножество с мемоизацией последних критериев
func (s *DashboardService) Filtered(kind database.DatasetKind, c analytics.Criteria) []analytics.FlatRecord {
	key := criteriaKey(c)

	s.mu.RLock()
	if key != "" && s.memoKey[kind] == key {
		cached := s.memoized[kind]
		s.mu.RUnlock()
		return cached
	}
	records := s.records[kind]
	s.mu.RUnlock()

	filtered := analytics.FilterRecords(records, c)

	s.mu.Lock()
	s.memoKey[kind] = key
	s.memoized[kind] = filtered
	s.mu.Unlock()

	return filtered
}

// Summary KPI-панель по активным критериям
func (s *DashboardService) Summary(kind database.DatasetKind, c analytics.Criteria) analytics.Summary {
	return analytics.Summarize(s.Filtered(kind, c))
}

// Options доступные значения фильтров. Год и диапазон дат применяются
// до вычисления, чтобы списки строились от активного набора.
// Список годов при этом не сужается выбранным годом: выше года в цепочке
// фильтров ничего нет, и пользователь должен видеть остальные годы,
// чтобы переключиться на них.
func (s *DashboardService) Options(kind database.DatasetKind, c analytics.Criteria) analytics.FilterOptions {
	records := s.Records(kind)

	base := analytics.FilterRecords(records, analytics.Criteria{
		Year: c.Year, Brand: analytics.All, City: analytics.All, Dealer: analytics.All,
		DateFrom: c.DateFrom, DateTo: c.DateTo,
	})
	opts := analytics.Options(base, c)

	yearBase := analytics.FilterRecords(records, analytics.Criteria{
		Year: analytics.All, Brand: analytics.All, City: analytics.All, Dealer: analytics.All,
		DateFrom: c.DateFrom, DateTo: c.DateTo,
	})
	opts.Years = analytics.YearsOf(yearBase)
	return opts
}

// Group агрегаты по ключу группировки под активными критериями
func (s *DashboardService) Group(kind database.DatasetKind, c analytics.Criteria, key analytics.GroupKey) []analytics.AggRow {
	return analytics.GroupBy(s.Filtered(kind, c), key)
}

// Top топ-N по метрике с долями от общего по отфильтрованному набору
func (s *DashboardService) Top(kind database.DatasetKind, c analytics.Criteria, key analytics.GroupKey, metric analytics.Metric, n int) []analytics.AggRow {
	rows := s.Group(kind, c, key)
	total := analytics.TotalOf(rows, metric)
	return analytics.TopN(rows, n, metric, total)
}
