package analytics

import (
	"fmt"
	"sort"
)

// GroupKey измерение группировки
type GroupKey string

const (
	GroupByDealer  GroupKey = "dealer"
	GroupByModel   GroupKey = "model"
	GroupByOffer   GroupKey = "offer"
	GroupByMonth   GroupKey = "month"
	GroupByWeekday GroupKey = "weekday"
)

// Metric метрика сортировки и ранжирования
type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricMargin  Metric = "margin"
	MetricUnits   Metric = "units"
)

// AggRow накопленный агрегат по одному значению ключа группировки
type AggRow struct {
	Key     string  `json:"key"`   // значение ключа: имя дилера, "0".."11" для месяца и т.п.
	Label   string  `json:"label"` // человекочитаемая подпись
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"` // сумма sold_price
	Margin  float64 `json:"margin"`
	Share   float64 `json:"share,omitempty"` // заполняется в TopN, процент от общего
}

var monthLabels = []string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

var weekdayLabels = []string{
	"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота",
}

func groupKeyOf(r *FlatRecord, key GroupKey) (string, string) {
	switch key {
	case GroupByDealer:
		return r.Dealer, r.Dealer
	case GroupByModel:
		return r.Model, r.Model
	case GroupByOffer:
		return r.Offer, r.Offer
	case GroupByMonth:
		return fmt.Sprintf("%02d", r.Month), monthLabels[((r.Month%12)+12)%12]
	case GroupByWeekday:
		wd := int(r.SaleDate.Weekday())
		return fmt.Sprintf("%d", wd), weekdayLabels[wd]
	}
	return r.Dealer, r.Dealer
}

// GroupBy накапливает количество, выручку и маржу по значениям ключа.
// Для месяца и дня недели ключи упорядочены календарно, для остальных
// измерений — по возрастанию ключа; вызывающий досортировывает
// через SortRows под нужную метрику.
func GroupBy(records []FlatRecord, key GroupKey) []AggRow {
	acc := map[string]*AggRow{}
	order := []string{}
	for i := range records {
		k, label := groupKeyOf(&records[i], key)
		row, ok := acc[k]
		if !ok {
			row = &AggRow{Key: k, Label: label}
			acc[k] = row
			order = append(order, k)
		}
		row.Units++
		row.Revenue += records[i].SoldPrice
		row.Margin += records[i].Margin
	}

	sort.Strings(order)
	rows := make([]AggRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, *acc[k])
	}
	return rows
}

func metricOf(row *AggRow, m Metric) float64 {
	switch m {
	case MetricMargin:
		return row.Margin
	case MetricUnits:
		return float64(row.Units)
	default:
		return row.Revenue
	}
}

// SortRows сортирует агрегаты по метрике. Сортировка стабильная,
// равные значения сохраняют исходный порядок.
func SortRows(rows []AggRow, m Metric, desc bool) []AggRow {
	sorted := make([]AggRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return metricOf(&sorted[i], m) > metricOf(&sorted[j], m)
		}
		return metricOf(&sorted[i], m) < metricOf(&sorted[j], m)
	})
	return sorted
}

// TotalOf сумма метрики по всем строкам
func TotalOf(rows []AggRow, m Metric) float64 {
	var total float64
	for i := range rows {
		total += metricOf(&rows[i], m)
	}
	return total
}

// TopN возвращает первые n строк по метрике (по убыванию) с долей
// каждой строки от total в процентах. Доля считается от суммы по всему
// отфильтрованному набору, а не по срезанному топу. Нулевой знаменатель
// дает долю 0, а не NaN/Inf.
func TopN(rows []AggRow, n int, m Metric, total float64) []AggRow {
	sorted := SortRows(rows, m, true)
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	for i := range sorted {
		if total != 0 {
			sorted[i].Share = metricOf(&sorted[i], m) / total * 100
		} else {
			sorted[i].Share = 0
		}
	}
	return sorted
}

// Summary сводные KPI по набору записей
type Summary struct {
	Units    int     `json:"units"`
	Revenue  float64 `json:"revenue"`
	Margin   float64 `json:"margin"`
	AvgCheck float64 `json:"avg_check"` // средний чек, 0 при пустом наборе
}

// Summarize считает KPI-панель по отфильтрованному набору
func Summarize(records []FlatRecord) Summary {
	var s Summary
	for i := range records {
		s.Units++
		s.Revenue += records[i].SoldPrice
		s.Margin += records[i].Margin
	}
	if s.Units > 0 {
		s.AvgCheck = s.Revenue / float64(s.Units)
	}
	return s
}
