// Package geo приближенное геокодирование городов для карты дилеров.
// Вместо внешнего геосервиса используется фиксированная таблица городов
// и детерминированный разброс от хэша имени дилера: один и тот же дилер
// всегда оказывается в одной и той же точке.
package geo

import "math"

// Point координаты на карте
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// defaultCenter центр фолбэк-разброса для неизвестных городов (Москва)
var defaultCenter = Point{Lat: 55.7558, Lng: 37.6173}

// cityTable приближенные координаты известных городов
var cityTable = map[string]Point{
	"Москва":          {Lat: 55.7558, Lng: 37.6173},
	"Санкт-Петербург": {Lat: 59.9343, Lng: 30.3351},
	"Новосибирск":     {Lat: 55.0084, Lng: 82.9357},
	"Екатеринбург":    {Lat: 56.8389, Lng: 60.6057},
	"Казань":          {Lat: 55.7963, Lng: 49.1088},
	"Нижний Новгород": {Lat: 56.2965, Lng: 43.9361},
	"Челябинск":       {Lat: 55.1644, Lng: 61.4368},
	"Самара":          {Lat: 53.1959, Lng: 50.1002},
	"Омск":            {Lat: 54.9885, Lng: 73.3242},
	"Ростов-на-Дону":  {Lat: 47.2357, Lng: 39.7015},
	"Уфа":             {Lat: 54.7388, Lng: 55.9721},
	"Красноярск":      {Lat: 56.0090, Lng: 92.8526},
	"Воронеж":         {Lat: 51.6608, Lng: 39.2003},
	"Пермь":           {Lat: 58.0105, Lng: 56.2502},
	"Волгоград":       {Lat: 48.7071, Lng: 44.5169},
	"Краснодар":       {Lat: 45.0355, Lng: 38.9753},
	"Саратов":         {Lat: 51.5336, Lng: 46.0343},
	"Тюмень":          {Lat: 57.1530, Lng: 65.5343},
	"Владивосток":     {Lat: 43.1155, Lng: 131.8855},
	"Иркутск":         {Lat: 52.2870, Lng: 104.3050},
}

// CityPoint возвращает координаты известного города
func CityPoint(city string) (Point, bool) {
	p, ok := cityTable[city]
	return p, ok
}

// nameHash сумма кодов символов имени — тот же примитив, что и в
// исходной системе, его стабильность гарантирует стабильность точек
func nameHash(name string) int {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return sum
}

// Locate вычисляет точку дилера на карте. Для известного города к
// табличным координатам добавляется небольшой детерминированный сдвиг,
// чтобы несколько дилеров одного города не слипались в одну точку.
// Для неизвестного города точка разбрасывается вокруг центра по углу
// и дистанции, выведенным из хэша имени дилера. Нефинитные координаты
// означают "точки нет" — маркер пропускается, а не рисуется в NaN.
func Locate(city, dealerName string) (Point, bool) {
	hash := nameHash(dealerName)

	var p Point
	if base, ok := cityTable[city]; ok {
		jitterLat := float64(hash%100)/100.0*0.12 - 0.06
		jitterLng := float64((hash/100)%100)/100.0*0.18 - 0.09
		p = Point{Lat: base.Lat + jitterLat, Lng: base.Lng + jitterLng}
	} else {
		angle := float64(hash%360) * math.Pi / 180.0
		dist := 1.5 + float64(hash%17)/10.0
		p = Point{
			Lat: defaultCenter.Lat + math.Sin(angle)*dist,
			Lng: defaultCenter.Lng + math.Cos(angle)*dist*1.6,
		}
	}

	if !finite(p.Lat) || !finite(p.Lng) {
		return Point{}, false
	}
	return p, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
