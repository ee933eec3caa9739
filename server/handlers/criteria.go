package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"dealerboard/analytics"
	"dealerboard/database"
	"dealerboard/server/services"
)

// CriteriaFromQuery собирает критерии фильтрации из query-параметров.
// Отсутствующий параметр означает "без ограничения"; даты принимаются
// в том же DD.MM.YYYY, что и исходные данные.
func CriteriaFromQuery(c *gin.Context) analytics.Criteria {
	criteria := analytics.DefaultCriteria()

	if v := c.Query("year"); v != "" {
		criteria.Year = v
	}
	if v := c.Query("brand"); v != "" {
		criteria.Brand = v
	}
	if v := c.Query("city"); v != "" {
		criteria.City = v
	}
	if v := c.Query("dealer"); v != "" {
		criteria.Dealer = v
	}
	if v := c.Query("models"); v != "" {
		criteria.Models = splitList(v)
	}
	if v := c.Query("offers"); v != "" {
		criteria.Offers = splitList(v)
	}
	if v := c.Query("date_from"); v != "" {
		if d := analytics.ParseSaleDate(v); !d.Equal(analytics.Epoch()) {
			criteria.DateFrom = &d
		}
	}
	if v := c.Query("date_to"); v != "" {
		if d := analytics.ParseSaleDate(v); !d.Equal(analytics.Epoch()) {
			criteria.DateTo = &d
		}
	}
	return criteria
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// KindFromQuery определяет вид набора данных; по умолчанию продажи
func KindFromQuery(c *gin.Context) (database.DatasetKind, error) {
	kind := c.DefaultQuery("kind", string(database.DatasetSales))
	return services.ValidKind(kind)
}
