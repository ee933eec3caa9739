package analytics

// Структуры исходного документа продаж/склада.
// Документ приходит из внешних выгрузок (JSON, CSV, CRM-синхронизация)
// в денормализованном виде: дилер → модель → оффер → единица техники.

// Totals сводные показатели по всему документу
type Totals struct {
	CountSold      int     `json:"count_sold"`
	TotalSoldPrice float64 `json:"total_sold_price"`
	TotalBuyPrice  float64 `json:"total_buy_price"`
}

// VehicleNode единица техники внутри оффера
type VehicleNode struct {
	VIN      string `json:"vin"`
	SaleDate string `json:"sale_date,omitempty"` // формат DD.MM.YYYY, может отсутствовать
}

// OfferNode оффер (ценовая позиция) внутри модели
type OfferNode struct {
	Name           string                 `json:"name"`
	CountSold      int                    `json:"count_sold"`
	TotalSoldPrice float64                `json:"total_sold_price"`
	TotalBuyPrice  float64                `json:"total_buy_price"`
	Vehicles       map[string]VehicleNode `json:"vehicles"`
}

// ModelNode модель техники у дилера
type ModelNode struct {
	Name   string               `json:"name"`
	Offers map[string]OfferNode `json:"offers"`
}

// DealerNode дилер с его моделями
type DealerNode struct {
	Name   string               `json:"name"`
	City   string               `json:"city,omitempty"`
	Models map[string]ModelNode `json:"models"`
}

// RawDocument исходный документ: сводка и дерево дилеров по непрозрачным ID
type RawDocument struct {
	Total Totals                `json:"total"`
	Items map[string]DealerNode `json:"items"`
}

// DocumentError структурная ошибка документа, показывается пользователю
type DocumentError struct {
	Message string
}

func (e *DocumentError) Error() string {
	return e.Message
}

// ValidateDocument проверяет верхнеуровневую структуру документа.
// Отсутствие items — единственная структурная ошибка JSON, которая
// поднимается к пользователю; все дефекты на уровне отдельных записей
// гасятся при уплощении (эпоха вместо даты, "N/A" вместо VIN, нулевые цены).
func ValidateDocument(doc *RawDocument) error {
	if doc == nil {
		return &DocumentError{Message: "документ отсутствует"}
	}
	if doc.Items == nil {
		return &DocumentError{Message: "неверный формат документа: отсутствует поле items"}
	}
	return nil
}
