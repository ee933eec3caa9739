// Package importer разбирает загруженные CSV-выгрузки в дерево
// RawDocument, с которым дальше работает уплощение. Одна строка CSV —
// одна проданная или стоящая на складе единица техники.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"dealerboard/analytics"
)

// Обязательные колонки импорта. Экспорт записей использует ровно этот
// же набор заголовков, поэтому экспорт → импорт восстанавливает данные.
const (
	ColDealer    = "Дилер"
	ColCity      = "Город" // необязательная
	ColModel     = "Модель"
	ColOffer     = "Оффер"
	ColVIN       = "VIN"
	ColSaleDate  = "Дата продажи"
	ColBuyPrice  = "Закупка (руб)"
	ColSoldPrice = "Продажа (руб)"
)

// RequiredColumns минимальный набор колонок, без которого импорт
// отклоняется с ошибкой
var RequiredColumns = []string{
	ColDealer, ColModel, ColOffer, ColVIN, ColSaleDate, ColBuyPrice, ColSoldPrice,
}

// ImportError структурная ошибка CSV, показывается пользователю как есть
type ImportError struct {
	Message string
}

func (e *ImportError) Error() string {
	return e.Message
}

type columnIndex struct {
	dealer    int
	city      int
	model     int
	offer     int
	vin       int
	saleDate  int
	buyPrice  int
	soldPrice int
}

// ParseCSV разбирает CSV-текст в RawDocument. Структурные проблемы
// (пустой файл, отсутствующая обязательная колонка) поднимаются как
// ImportError с описанием; дефекты отдельных строк гасятся так же,
// как при уплощении: пустая дата остается пустой, нечисловая цена
// считается нулем.
func ParseCSV(data []byte) (*analytics.RawDocument, error) {
	data = decodeToUTF8(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ImportError{Message: "файл пуст: отсутствует строка заголовков"}
	}
	if err != nil {
		return nil, &ImportError{Message: fmt.Sprintf("не удалось прочитать заголовки CSV: %v", err)}
	}

	idx, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	doc := &analytics.RawDocument{Items: map[string]analytics.DealerNode{}}
	builder := newDocumentBuilder(doc)

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ImportError{Message: fmt.Sprintf("строка %d: некорректный CSV: %v", line, err)}
		}
		if isEmptyRow(row) {
			continue
		}

		rec := rowRecord{
			dealer:    cell(row, idx.dealer),
			city:      cell(row, idx.city),
			model:     cell(row, idx.model),
			offer:     cell(row, idx.offer),
			vin:       cell(row, idx.vin),
			saleDate:  cell(row, idx.saleDate),
			buyPrice:  parsePrice(cell(row, idx.buyPrice)),
			soldPrice: parsePrice(cell(row, idx.soldPrice)),
		}
		if rec.dealer == "" {
			// Строка без дилера не привязывается к дереву, пропускаем
			continue
		}
		builder.add(rec)
	}

	return doc, nil
}

// mapColumns сопоставляет заголовки с индексами и проверяет полноту
func mapColumns(header []string) (columnIndex, error) {
	pos := map[string]int{}
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	for _, required := range RequiredColumns {
		if _, ok := pos[required]; !ok {
			return columnIndex{}, &ImportError{
				Message: fmt.Sprintf("в файле отсутствует обязательная колонка %q", required),
			}
		}
	}

	idx := columnIndex{
		dealer:    pos[ColDealer],
		model:     pos[ColModel],
		offer:     pos[ColOffer],
		vin:       pos[ColVIN],
		saleDate:  pos[ColSaleDate],
		buyPrice:  pos[ColBuyPrice],
		soldPrice: pos[ColSoldPrice],
		city:      -1,
	}
	if c, ok := pos[ColCity]; ok {
		idx.city = c
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parsePrice терпимый разбор цены: пробелы и неразрывные пробелы
// игнорируются, запятая считается десятичным разделителем,
// нечисловое значение дает ноль
func parsePrice(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// decodeToUTF8 прозрачно декодирует windows-1251, если содержимое
// не является валидным UTF-8. Выгрузки из 1С и старых CRM часто
// приходят именно в cp1251.
func decodeToUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return data
	}
	return decoded
}

type rowRecord struct {
	dealer, city, model, offer, vin, saleDate string
	buyPrice, soldPrice                       float64
}

// documentBuilder группирует плоские строки обратно в дерево
// дилер → модель → оффер с последовательными непрозрачными ID
type documentBuilder struct {
	doc       *analytics.RawDocument
	dealerIDs map[string]string
	modelIDs  map[string]string // ключ dealer|model
	offerIDs  map[string]string // ключ dealer|model|offer
	seq       int
}

func newDocumentBuilder(doc *analytics.RawDocument) *documentBuilder {
	return &documentBuilder{
		doc:       doc,
		dealerIDs: map[string]string{},
		modelIDs:  map[string]string{},
		offerIDs:  map[string]string{},
	}
}

func (b *documentBuilder) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s%d", prefix, b.seq)
}

func (b *documentBuilder) add(rec rowRecord) {
	dealerID, ok := b.dealerIDs[rec.dealer]
	if !ok {
		dealerID = b.nextID("d")
		b.dealerIDs[rec.dealer] = dealerID
		b.doc.Items[dealerID] = analytics.DealerNode{
			Name:   rec.dealer,
			City:   rec.city,
			Models: map[string]analytics.ModelNode{},
		}
	}
	dealer := b.doc.Items[dealerID]

	modelKey := rec.dealer + "|" + rec.model
	modelID, ok := b.modelIDs[modelKey]
	if !ok {
		modelID = b.nextID("m")
		b.modelIDs[modelKey] = modelID
		dealer.Models[modelID] = analytics.ModelNode{
			Name:   rec.model,
			Offers: map[string]analytics.OfferNode{},
		}
	}
	model := dealer.Models[modelID]

	offerKey := modelKey + "|" + rec.offer
	offerID, ok := b.offerIDs[offerKey]
	if !ok {
		offerID = b.nextID("o")
		b.offerIDs[offerKey] = offerID
		model.Offers[offerID] = analytics.OfferNode{
			Name:     rec.offer,
			Vehicles: map[string]analytics.VehicleNode{},
		}
	}
	offer := model.Offers[offerID]

	offer.CountSold++
	offer.TotalBuyPrice += rec.buyPrice
	offer.TotalSoldPrice += rec.soldPrice
	offer.Vehicles[b.nextID("v")] = analytics.VehicleNode{
		VIN:      rec.vin,
		SaleDate: rec.saleDate,
	}
	model.Offers[offerID] = offer
	dealer.Models[modelID] = model
	b.doc.Items[dealerID] = dealer

	b.doc.Total.CountSold++
	b.doc.Total.TotalBuyPrice += rec.buyPrice
	b.doc.Total.TotalSoldPrice += rec.soldPrice
}
