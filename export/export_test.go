package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerboard/analytics"
	"dealerboard/importer"
)

func TestToCSVEscaping(t *testing.T) {
	table := Table{
		Columns: []string{"Дилер", "Комментарий"},
		Rows: [][]interface{}{
			{`Салон "Мото"`, "строка, с запятой"},
			{"Обычный", "перевод\nстроки"},
		},
	}

	data, err := ToCSV(table)
	require.NoError(t, err)

	// Срезаем BOM и перечитываем стандартным парсером
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, `Салон "Мото"`, rows[1][0])
	assert.Equal(t, "строка, с запятой", rows[1][1])
	assert.Equal(t, "перевод\nстроки", rows[2][1])
}

func TestToCSVPlainNumbers(t *testing.T) {
	table := Table{
		Columns: []string{"Выручка (руб)", "Продано (шт)"},
		Rows:    [][]interface{}{{1234567.5, 42}},
	}

	data, err := ToCSV(table)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "1234567.5", "числа должны сериализоваться без локали")
	assert.Contains(t, text, "42")
	assert.NotContains(t, text, "1 234 567")
}

func TestCSVRoundTrip(t *testing.T) {
	doc := &analytics.RawDocument{Items: map[string]analytics.DealerNode{
		"d1": {
			Name: "МотоМир",
			City: "Москва",
			Models: map[string]analytics.ModelNode{
				"m1": {Name: "VOGE 525 DSX", Offers: map[string]analytics.OfferNode{
					"o1": {
						Name: "Black", CountSold: 2,
						TotalSoldPrice: 1200000, TotalBuyPrice: 1020000,
						Vehicles: map[string]analytics.VehicleNode{
							"v1": {VIN: "VIN001", SaleDate: "10.02.2024"},
							"v2": {VIN: "VIN002", SaleDate: "11.02.2024"},
						},
					},
				}},
			},
		},
	}}

	original := analytics.Flatten(doc)
	data, err := ToCSV(RecordsTable(original))
	require.NoError(t, err)

	reimported, err := importer.ParseCSV(data)
	require.NoError(t, err)
	restored := analytics.Flatten(reimported)

	require.Len(t, restored, len(original))

	sumSold := func(rs []analytics.FlatRecord) float64 {
		var s float64
		for i := range rs {
			s += rs[i].SoldPrice
		}
		return s
	}
	assert.InDelta(t, sumSold(original), sumSold(restored), 1e-6)

	for i := range original {
		assert.Equal(t, original[i].Dealer, restored[i].Dealer)
		assert.Equal(t, original[i].Model, restored[i].Model)
		assert.Equal(t, original[i].Offer, restored[i].Offer)
		assert.Equal(t, original[i].VIN, restored[i].VIN)
		assert.True(t, original[i].SaleDate.Equal(restored[i].SaleDate))
		assert.InDelta(t, original[i].SoldPrice, restored[i].SoldPrice, 1e-6)
		assert.InDelta(t, original[i].BuyPrice, restored[i].BuyPrice, 1e-6)
	}
}

func TestAggTable(t *testing.T) {
	rows := []analytics.AggRow{
		{Key: "МотоМир", Label: "МотоМир", Units: 3, Revenue: 1460000, Margin: 225000},
	}
	table := DealersTable(rows)

	require.Equal(t, []string{"Дилер", "Продано (шт)", "Выручка (руб)", "Маржа (руб)"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "МотоМир", table.Rows[0][0])
	assert.Equal(t, 1460000.0, table.Rows[0][2])
}

func TestToExcel(t *testing.T) {
	table := DealersTable([]analytics.AggRow{
		{Label: "МотоМир", Units: 3, Revenue: 1460000, Margin: 225000},
		{Label: "Драйв", Units: 2, Revenue: 1150000, Margin: 170000},
	})

	data, err := ToExcel(table)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX — это zip-контейнер
	assert.True(t, strings.HasPrefix(string(data[:2]), "PK"))
}

func TestCellStringFinite(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "NaN", cellString(math.NaN()))
}
