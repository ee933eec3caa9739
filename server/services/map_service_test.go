package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerboard/analytics"
	"dealerboard/database"
)

func TestMapServicePoints(t *testing.T) {
	dashboard := NewDashboardService()
	dashboard.SetDocument(database.DatasetSales, testDocument())
	maps := NewMapService(dashboard)

	points := maps.Points(database.DatasetSales, analytics.DefaultCriteria())
	require.Len(t, points, 2)

	// Сортировка по имени дилера детерминирует ответ
	assert.Equal(t, "Драйв", points[0].Dealer)
	assert.Equal(t, "МотоМир", points[1].Dealer)

	moscow := points[1]
	assert.Equal(t, "Москва", moscow.City)
	assert.Equal(t, 2, moscow.Units)
	assert.InDelta(t, 900000, moscow.Revenue, 0.01)
	assert.InDelta(t, 200000, moscow.Margin, 0.01)
	assert.Equal(t, []string{"VOGE"}, moscow.Brands)
	require.Len(t, moscow.Models, 1)
	assert.Equal(t, "VOGE 300DS", moscow.Models[0].Model)
	assert.Equal(t, 1, moscow.Models[0].Offers)

	// Координаты рядом с опорной точкой города
	assert.InDelta(t, 55.7558, moscow.Lat, 0.2)
	assert.InDelta(t, 37.6173, moscow.Lng, 0.2)
	assert.False(t, math.IsNaN(points[0].Lat))
}

func TestMapServicePointsRespectCriteria(t *testing.T) {
	dashboard := NewDashboardService()
	dashboard.SetDocument(database.DatasetSales, testDocument())
	maps := NewMapService(dashboard)

	criteria := analytics.DefaultCriteria()
	criteria.City = "Казань"

	points := maps.Points(database.DatasetSales, criteria)
	require.Len(t, points, 1)
	assert.Equal(t, "Драйв", points[0].Dealer)
}

func TestMapServicePointsStable(t *testing.T) {
	dashboard := NewDashboardService()
	dashboard.SetDocument(database.DatasetSales, testDocument())
	maps := NewMapService(dashboard)

	first := maps.Points(database.DatasetSales, analytics.DefaultCriteria())
	second := maps.Points(database.DatasetSales, analytics.DefaultCriteria())
	assert.Equal(t, first, second)
}

func TestMapServiceEmptyDataset(t *testing.T) {
	maps := NewMapService(NewDashboardService())
	points := maps.Points(database.DatasetSales, analytics.DefaultCriteria())
	assert.Empty(t, points)
}
