package analytics

import (
	"fmt"
	"sort"
	"time"
)

// PlaceholderVIN подставляется вместо отсутствующего VIN
const PlaceholderVIN = "N/A"

// FlatRecord одна физическая единица техники после уплощения дерева.
// Цены закупки и продажи — средние по офферу: исходные данные не несут
// цену конкретной единицы, только агрегаты оффера. Записи неизменяемы,
// при смене документа весь набор пересчитывается заново.
type FlatRecord struct {
	ID        string    `json:"id"` // dealerID-modelID-offerID-vehicleID
	Dealer    string    `json:"dealer"`
	City      string    `json:"city,omitempty"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Offer     string    `json:"offer"`
	VIN       string    `json:"vin"`
	SaleDate  time.Time `json:"sale_date"`
	Year      int       `json:"year"`
	Month     int       `json:"month"` // 0-11, как в исходной системе
	BuyPrice  float64   `json:"buy_price"`
	SoldPrice float64   `json:"sold_price"`
	Margin    float64   `json:"margin"`
}

// Flatten обходит дерево дилер → модель → оффер → техника и отдает
// по одной записи на каждую единицу. Пустая или отсутствующая дочерняя
// коллекция на любом уровне дает ноль записей и не считается ошибкой.
// Результат отсортирован по дате продажи по убыванию.
func Flatten(doc *RawDocument) []FlatRecord {
	records := []FlatRecord{}
	if doc == nil {
		return records
	}

	for dealerID, dealer := range doc.Items {
		for modelID, model := range dealer.Models {
			brand := BrandFromModel(model.Name)
			for offerID, offer := range model.Offers {
				// Средние цены считаются от заявленного count_sold.
				// Деление защищено от нуля: оффер с count_sold = 0
				// дает нулевые цены, а не NaN.
				var avgBuy, avgSold float64
				if offer.CountSold > 0 {
					avgBuy = offer.TotalBuyPrice / float64(offer.CountSold)
					avgSold = offer.TotalSoldPrice / float64(offer.CountSold)
				}

				for vehicleID, vehicle := range offer.Vehicles {
					vin := vehicle.VIN
					if vin == "" {
						vin = PlaceholderVIN
					}

					saleDate := ParseSaleDate(vehicle.SaleDate)

					records = append(records, FlatRecord{
						ID:        fmt.Sprintf("%s-%s-%s-%s", dealerID, modelID, offerID, vehicleID),
						Dealer:    dealer.Name,
						City:      dealer.City,
						Brand:     brand,
						Model:     model.Name,
						Offer:     offer.Name,
						VIN:       vin,
						SaleDate:  saleDate,
						Year:      saleDate.Year(),
						Month:     int(saleDate.Month()) - 1,
						BuyPrice:  avgBuy,
						SoldPrice: avgSold,
						Margin:    avgSold - avgBuy,
					})
				}
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].SaleDate.After(records[j].SaleDate)
	})

	return records
}
