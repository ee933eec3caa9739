package integration

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"dealerboard/analytics"
)

// fabricator генерирует правдоподобные документы продаж.
// Сид выводится из имени провайдера и курсора, поэтому один и тот же
// опрос всегда фабрикует один и тот же документ — удобно для отладки
// и воспроизводимых демо.
type fabricator struct {
	providerName string
}

var demoCities = []string{
	"Москва", "Санкт-Петербург", "Казань", "Екатеринбург",
	"Новосибирск", "Краснодар", "Воронеж",
}

var demoModels = []string{
	"VOGE 525 DSX", "VOGE 300 Rally", "VOGE AC350",
	"Racer RC300-GY8", "Racer Ranger 300",
	"Honda CB500X", "Yamaha MT-07", "BMW G310GS",
}

var demoOffers = []string{"Базовая", "Black Edition", "Туринг", "Акция"}

func seedFor(name string, cursor int64) int64 {
	var sum int64
	for _, r := range name {
		sum += int64(r)
	}
	return sum*1000003 + cursor
}

// fabricate строит документ из dealers дилеров со случайным наполнением
func (f *fabricator) fabricate(cursor int64, dealers int) *analytics.RawDocument {
	faker := gofakeit.New(seedFor(f.providerName, cursor))

	doc := &analytics.RawDocument{Items: map[string]analytics.DealerNode{}}

	vehicleSeq := 0
	for d := 0; d < dealers; d++ {
		dealerID := fmt.Sprintf("%s-d%d", f.providerName, d+1)
		dealer := analytics.DealerNode{
			Name:   fmt.Sprintf("Мото%s", faker.LastName()),
			City:   demoCities[faker.Number(0, len(demoCities)-1)],
			Models: map[string]analytics.ModelNode{},
		}

		modelCount := faker.Number(1, 3)
		for m := 0; m < modelCount; m++ {
			modelID := fmt.Sprintf("m%d-%d", d+1, m+1)
			model := analytics.ModelNode{
				Name:   demoModels[faker.Number(0, len(demoModels)-1)],
				Offers: map[string]analytics.OfferNode{},
			}

			offerCount := faker.Number(1, 2)
			for o := 0; o < offerCount; o++ {
				offerID := fmt.Sprintf("o%d-%d-%d", d+1, m+1, o+1)
				sold := faker.Number(1, 4)
				buyUnit := float64(faker.Number(180, 620)) * 1000
				marginUnit := float64(faker.Number(20, 90)) * 1000

				offer := analytics.OfferNode{
					Name:           demoOffers[faker.Number(0, len(demoOffers)-1)],
					CountSold:      sold,
					TotalBuyPrice:  buyUnit * float64(sold),
					TotalSoldPrice: (buyUnit + marginUnit) * float64(sold),
					Vehicles:       map[string]analytics.VehicleNode{},
				}

				for v := 0; v < sold; v++ {
					vehicleSeq++
					saleDate := time.Date(
						time.Now().Year(),
						time.Month(faker.Number(1, 12)),
						faker.Number(1, 28),
						0, 0, 0, 0, time.Local,
					)
					offer.Vehicles[fmt.Sprintf("v%d", vehicleSeq)] = analytics.VehicleNode{
						VIN:      fmt.Sprintf("LZV%s%05d", faker.LetterN(3), faker.Number(10000, 99999)),
						SaleDate: analytics.FormatSaleDate(saleDate),
					}
				}

				model.Offers[offerID] = offer
			}
			dealer.Models[modelID] = model
		}
		doc.Items[dealerID] = dealer
	}

	// Сводка пересчитывается от фактически нафабрикованного дерева
	for _, dealer := range doc.Items {
		for _, model := range dealer.Models {
			for _, offer := range model.Offers {
				doc.Total.CountSold += offer.CountSold
				doc.Total.TotalBuyPrice += offer.TotalBuyPrice
				doc.Total.TotalSoldPrice += offer.TotalSoldPrice
			}
		}
	}

	return doc
}
