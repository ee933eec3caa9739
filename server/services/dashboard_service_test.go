package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerboard/analytics"
	"dealerboard/database"
)

// testDocument двухдилерный документ для сервисных тестов
func testDocument() *analytics.RawDocument {
	return &analytics.RawDocument{
		Total: analytics.Totals{CountSold: 3, TotalSoldPrice: 1450000, TotalBuyPrice: 1100000},
		Items: map[string]analytics.DealerNode{
			"d1": {
				Name: "МотоМир",
				City: "Москва",
				Models: map[string]analytics.ModelNode{
					"m1": {
						Name: "VOGE 300DS",
						Offers: map[string]analytics.OfferNode{
							"o1": {
								Name:           "Базовый",
								CountSold:      2,
								TotalSoldPrice: 900000,
								TotalBuyPrice:  700000,
								Vehicles: map[string]analytics.VehicleNode{
									"v1": {VIN: "LZVA00001", SaleDate: "15.03.2024"},
									"v2": {VIN: "LZVA00002", SaleDate: "20.05.2024"},
								},
							},
						},
					},
				},
			},
			"d2": {
				Name: "Драйв",
				City: "Казань",
				Models: map[string]analytics.ModelNode{
					"m2": {
						Name: "BMW G310R",
						Offers: map[string]analytics.OfferNode{
							"o2": {
								Name:           "Комфорт",
								CountSold:      1,
								TotalSoldPrice: 550000,
								TotalBuyPrice:  400000,
								Vehicles: map[string]analytics.VehicleNode{
									"v3": {VIN: "WB1000003", SaleDate: "10.03.2023"},
								},
							},
						},
					},
				},
			},
		},
	}
}

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(filepath.Join(t.TempDir(), "test.db"), database.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDashboardServiceSetDocument(t *testing.T) {
	svc := NewDashboardService()

	assert.Nil(t, svc.Document(database.DatasetSales))
	assert.Empty(t, svc.Records(database.DatasetSales))

	svc.SetDocument(database.DatasetSales, testDocument())

	require.NotNil(t, svc.Document(database.DatasetSales))
	assert.Len(t, svc.Records(database.DatasetSales), 3)
}

func TestDashboardServiceFilteredMemoization(t *testing.T) {
	svc := NewDashboardService()
	svc.SetDocument(database.DatasetSales, testDocument())

	criteria := analytics.DefaultCriteria()
	criteria.Year = "2024"

	first := svc.Filtered(database.DatasetSales, criteria)
	second := svc.Filtered(database.DatasetSales, criteria)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	// Повторный вызов с теми же критериями отдает кэшированный срез
	assert.Same(t, &first[0], &second[0])

	// Другие критерии сбрасывают кэш
	other := svc.Filtered(database.DatasetSales, analytics.DefaultCriteria())
	assert.Len(t, other, 3)
}

func TestDashboardServiceMemoInvalidatedOnNewDocument(t *testing.T) {
	svc := NewDashboardService()
	svc.SetDocument(database.DatasetSales, testDocument())

	criteria := analytics.DefaultCriteria()
	require.Len(t, svc.Filtered(database.DatasetSales, criteria), 3)

	empty := &analytics.RawDocument{Items: map[string]analytics.DealerNode{}}
	svc.SetDocument(database.DatasetSales, empty)

	assert.Empty(t, svc.Filtered(database.DatasetSales, criteria))
}

func TestDashboardServiceSummary(t *testing.T) {
	svc := NewDashboardService()
	svc.SetDocument(database.DatasetSales, testDocument())

	summary := svc.Summary(database.DatasetSales, analytics.DefaultCriteria())
	assert.Equal(t, 3, summary.Units)
	assert.InDelta(t, 1450000, summary.Revenue, 0.01)
	assert.InDelta(t, 350000, summary.Margin, 0.01)
}

func TestDashboardServiceOptionsNarrowing(t *testing.T) {
	svc := NewDashboardService()
	svc.SetDocument(database.DatasetSales, testDocument())

	criteria := analytics.DefaultCriteria()
	criteria.Brand = "VOGE"

	options := svc.Options(database.DatasetSales, criteria)
	// Бренды не сужаются собственным выбором
	assert.ElementsMatch(t, []string{"BMW", "VOGE"}, options.Brands)
	// Модели сужаются выбранным брендом
	assert.Equal(t, []string{"VOGE 300DS"}, options.Models)
}

func TestDashboardServiceOptionsYearsKeepOtherYears(t *testing.T) {
	svc := NewDashboardService()
	svc.SetDocument(database.DatasetSales, testDocument())

	criteria := analytics.DefaultCriteria()
	criteria.Year = "2024"

	options := svc.Options(database.DatasetSales, criteria)
	// Список годов не сужается выбранным годом, иначе с него
	// невозможно переключиться
	assert.Equal(t, []int{2023, 2024}, options.Years)
	// Остальные списки строятся от записей выбранного года
	assert.Equal(t, []string{"VOGE 300DS"}, options.Models)
}

func TestDashboardServiceTopShares(t *testing.T) {
	svc := NewDashboardService()
	svc.SetDocument(database.DatasetSales, testDocument())

	top := svc.Top(database.DatasetSales, analytics.DefaultCriteria(), analytics.GroupByDealer, analytics.MetricRevenue, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "МотоМир", top[0].Label)
	assert.InDelta(t, 900000.0/1450000.0*100, top[0].Share, 0.01)
}

func TestDashboardServiceDatasetsIndependent(t *testing.T) {
	svc := NewDashboardService()
	svc.SetDocument(database.DatasetSales, testDocument())

	assert.Len(t, svc.Records(database.DatasetSales), 3)
	assert.Empty(t, svc.Records(database.DatasetInventory))
}
