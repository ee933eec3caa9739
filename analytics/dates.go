package analytics

import (
	"strconv"
	"strings"
	"time"
)

// Epoch возвращает дату-заглушку для отсутствующих или битых дат продажи.
// Записи с такой датой сортируются в конец и попадают в "эпохальный" год,
// что выглядит странно на графиках, но не роняет дашборд.
func Epoch() time.Time {
	return time.Unix(0, 0)
}

// ParseSaleDate разбирает дату продажи в формате DD.MM.YYYY.
// Пустая строка или строка, которая не делится ровно на три части
// по точкам, дает эпоху, а не ошибку: выгрузки валидируются слабо,
// и одна битая дата не должна гасить весь набор данных.
func ParseSaleDate(s string) time.Time {
	if s == "" {
		return Epoch()
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Epoch()
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Epoch()
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Epoch()
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Epoch()
	}

	// Дата строится в локальном времени, без нормализации таймзон.
	// time.Date нормализует выход за границы месяца так же,
	// как это делал источник данных.
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
}

// FormatSaleDate обратная операция к ParseSaleDate
func FormatSaleDate(t time.Time) string {
	return t.Format("02.01.2006")
}
