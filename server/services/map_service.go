package services

import (
	"sort"

	"dealerboard/analytics"
	"dealerboard/database"
	"dealerboard/geo"
)

// DealerGeoPoint дилер на карте со сводной статистикой.
// Пересчитывается на каждую смену записей, не персистится.
type DealerGeoPoint struct {
	Dealer  string         `json:"dealer"`
	City    string         `json:"city,omitempty"`
	Lat     float64        `json:"lat"`
	Lng     float64        `json:"lng"`
	Units   int            `json:"units"`
	Revenue float64        `json:"revenue"`
	Margin  float64        `json:"margin"`
	Brands  []string       `json:"brands"`
	Models  []ModelOffers  `json:"models"`
}

// ModelOffers модель с числом офферов у дилера
type ModelOffers struct {
	Model  string `json:"model"`
	Offers int    `json:"offers"`
}

// MapService строит точки дилеров для карты
type MapService struct {
	dashboard *DashboardService
}

// NewMapService создает сервис карты
func NewMapService(dashboard *DashboardService) *MapService {
	return &MapService{dashboard: dashboard}
}

// Points точки дилеров по активным критериям. Дилер без валидных
// координат пропускается: маркер с NaN хуже отсутствующего маркера.
func (s *MapService) Points(kind database.DatasetKind, c analytics.Criteria) []DealerGeoPoint {
	records := s.dashboard.Filtered(kind, c)

	type dealerAcc struct {
		point  *DealerGeoPoint
		brands map[string]struct{}
		offers map[string]map[string]struct{} // модель → офферы
	}
	acc := map[string]*dealerAcc{}

	for i := range records {
		r := &records[i]
		a, ok := acc[r.Dealer]
		if !ok {
			a = &dealerAcc{
				point:  &DealerGeoPoint{Dealer: r.Dealer, City: r.City},
				brands: map[string]struct{}{},
				offers: map[string]map[string]struct{}{},
			}
			acc[r.Dealer] = a
		}
		a.point.Units++
		a.point.Revenue += r.SoldPrice
		a.point.Margin += r.Margin
		a.brands[r.Brand] = struct{}{}
		if a.offers[r.Model] == nil {
			a.offers[r.Model] = map[string]struct{}{}
		}
		a.offers[r.Model][r.Offer] = struct{}{}
	}

	points := make([]DealerGeoPoint, 0, len(acc))
	for _, a := range acc {
		p, ok := geo.Locate(a.point.City, a.point.Dealer)
		if !ok {
			continue
		}
		a.point.Lat = p.Lat
		a.point.Lng = p.Lng

		for b := range a.brands {
			a.point.Brands = append(a.point.Brands, b)
		}
		sort.Strings(a.point.Brands)

		for model, offers := range a.offers {
			a.point.Models = append(a.point.Models, ModelOffers{Model: model, Offers: len(offers)})
		}
		sort.Slice(a.point.Models, func(i, j int) bool {
			return a.point.Models[i].Model < a.point.Models[j].Model
		})

		points = append(points, *a.point)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Dealer < points[j].Dealer
	})
	return points
}
