package export

import (
	"dealerboard/analytics"
	"dealerboard/importer"
)

// RecordsTable таблица по плоским записям в схеме импортера:
// выгруженный файл можно загрузить обратно без потерь.
func RecordsTable(records []analytics.FlatRecord) Table {
	t := Table{
		Name: "Продажи",
		Columns: []string{
			importer.ColDealer, importer.ColCity, importer.ColModel,
			importer.ColOffer, importer.ColVIN, importer.ColSaleDate,
			importer.ColBuyPrice, importer.ColSoldPrice,
		},
	}
	for i := range records {
		r := &records[i]
		t.Rows = append(t.Rows, []interface{}{
			r.Dealer, r.City, r.Model, r.Offer, r.VIN,
			analytics.FormatSaleDate(r.SaleDate),
			r.BuyPrice, r.SoldPrice,
		})
	}
	return t
}

// AggTable таблица агрегатов с человекочитаемыми подписями
func AggTable(name, keyLabel string, rows []analytics.AggRow) Table {
	t := Table{
		Name:    name,
		Columns: []string{keyLabel, "Продано (шт)", "Выручка (руб)", "Маржа (руб)"},
	}
	for i := range rows {
		r := &rows[i]
		t.Rows = append(t.Rows, []interface{}{r.Label, r.Units, r.Revenue, r.Margin})
	}
	return t
}

// DealersTable выгрузка среза по дилерам
func DealersTable(rows []analytics.AggRow) Table {
	return AggTable("По дилерам", "Дилер", rows)
}

// ModelsTable выгрузка среза по моделям
func ModelsTable(rows []analytics.AggRow) Table {
	return AggTable("По моделям", "Модель", rows)
}
