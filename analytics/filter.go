package analytics

import (
	"sort"
	"strconv"
	"time"
)

// All значение фильтра "без ограничения" для скалярных измерений
const All = "all"

// Criteria активные критерии фильтрации, приходят из UI.
// Скалярные измерения сравниваются на точное совпадение либо All.
// Мультивыбор (модели, офферы) — принадлежность множеству; пустой
// список означает отсутствие ограничения, а не пустой результат.
type Criteria struct {
	Year     string     `json:"year"`   // "all" или год строкой, напр. "2024"
	Brand    string     `json:"brand"`  // "all" или бренд
	City     string     `json:"city"`   // "all" или город
	Dealer   string     `json:"dealer"` // "all" или дилер
	Models   []string   `json:"models"`
	Offers   []string   `json:"offers"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"` // включительно, до конца дня
}

// DefaultCriteria критерии без единого ограничения
func DefaultCriteria() Criteria {
	return Criteria{Year: All, Brand: All, City: All, Dealer: All}
}

func scalarMatch(selected, value string) bool {
	return selected == "" || selected == All || selected == value
}

func setMatch(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

// matchMeta чистый предикат по бренду/городу/дилеру/моделям/офферам
func matchMeta(r *FlatRecord, c *Criteria) bool {
	return scalarMatch(c.Brand, r.Brand) &&
		scalarMatch(c.City, r.City) &&
		scalarMatch(c.Dealer, r.Dealer) &&
		setMatch(c.Models, r.Model) &&
		setMatch(c.Offers, r.Offer)
}

// FilterByMeta фильтрует только по метаданным, без года и диапазона дат
func FilterByMeta(records []FlatRecord, c Criteria) []FlatRecord {
	result := []FlatRecord{}
	for i := range records {
		if matchMeta(&records[i], &c) {
			result = append(result, records[i])
		}
	}
	return result
}

// EndOfDay нормализует конец диапазона к 23:59:59.999999999 того же
// календарного дня, чтобы "дата окончания = день записи" включала запись.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// FilterRecords применяет полный набор критериев: метаданные, год
// и включительный диапазон дат. Функция чистая и идемпотентная,
// на некорректных данных деградирует до пустого результата.
func FilterRecords(records []FlatRecord, c Criteria) []FlatRecord {
	var yearFilter int
	if c.Year != "" && c.Year != All {
		y, err := strconv.Atoi(c.Year)
		if err == nil {
			yearFilter = y
		}
	}

	var dateTo time.Time
	if c.DateTo != nil {
		dateTo = EndOfDay(*c.DateTo)
	}

	result := []FlatRecord{}
	for i := range records {
		r := &records[i]
		if !matchMeta(r, &c) {
			continue
		}
		if yearFilter != 0 && r.Year != yearFilter {
			continue
		}
		if c.DateFrom != nil && r.SaleDate.Before(*c.DateFrom) {
			continue
		}
		if c.DateTo != nil && r.SaleDate.After(dateTo) {
			continue
		}
		result = append(result, records[i])
	}
	return result
}

// FilterOptions доступные значения фильтров для текущего набора данных
type FilterOptions struct {
	Years   []int    `json:"years"`
	Brands  []string `json:"brands"`
	Cities  []string `json:"cities"`
	Dealers []string `json:"dealers"`
	Models  []string `json:"models"`
	Offers  []string `json:"offers"`
}

// YearsOf отсортированный список годов, встречающихся в наборе
func YearsOf(records []FlatRecord) []int {
	years := map[int]struct{}{}
	for i := range records {
		years[records[i].Year] = struct{}{}
	}
	out := make([]int, 0, len(years))
	for y := range years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Options вычисляет списки доступных значений по каждому измерению.
// Зависимые списки строятся от уже отфильтрованного набора, а не от
// полного, чтобы не предлагать невозможные комбинации: бренды и города
// не зависят от выбора моделей; модели зависят от бренд+город; офферы —
// от бренд+город+модели; дилеры — от города.
func Options(records []FlatRecord, c Criteria) FilterOptions {
	opts := FilterOptions{
		Years:   []int{},
		Brands:  []string{},
		Cities:  []string{},
		Dealers: []string{},
		Models:  []string{},
		Offers:  []string{},
	}

	brands := map[string]struct{}{}
	cities := map[string]struct{}{}
	for i := range records {
		brands[records[i].Brand] = struct{}{}
		if records[i].City != "" {
			cities[records[i].City] = struct{}{}
		}
	}

	dealers := map[string]struct{}{}
	byCity := FilterByMeta(records, Criteria{Brand: All, City: c.City, Dealer: All})
	for i := range byCity {
		dealers[byCity[i].Dealer] = struct{}{}
	}

	models := map[string]struct{}{}
	byBrandCity := FilterByMeta(records, Criteria{Brand: c.Brand, City: c.City, Dealer: All})
	for i := range byBrandCity {
		models[byBrandCity[i].Model] = struct{}{}
	}

	offers := map[string]struct{}{}
	byModels := FilterByMeta(records, Criteria{Brand: c.Brand, City: c.City, Dealer: All, Models: c.Models})
	for i := range byModels {
		offers[byModels[i].Offer] = struct{}{}
	}

	opts.Years = YearsOf(records)
	opts.Brands = sortedKeys(brands)
	opts.Cities = sortedKeys(cities)
	opts.Dealers = sortedKeys(dealers)
	opts.Models = sortedKeys(models)
	opts.Offers = sortedKeys(offers)
	return opts
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
