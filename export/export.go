// Package export сериализует табличные агрегаты дашборда в CSV и Excel
// для скачивания. Заголовки человекочитаемые (локализованные), числа
// в CSV пишутся в машинном виде, чтобы файл однозначно импортировался
// обратно.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"dealerboard/analytics"
	"dealerboard/format"
)

// Table упорядоченная таблица для выгрузки: колонки и строки значений.
// Значения типизированы, форматирование выбирается при сериализации.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// utf8BOM добавляется в начало CSV, чтобы Excel корректно открывал
// русские заголовки
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ToCSV сериализует таблицу в CSV (UTF-8 с BOM, запятая-разделитель).
// Экранирование разделителей, кавычек и переводов строк внутри значений
// выполняет encoding/csv.
func ToCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = cellString(v)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// cellString машинная сериализация значения ячейки
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return format.PlainInt(x)
	case float64:
		return format.Plain(x)
	case time.Time:
		return analytics.FormatSaleDate(x)
	default:
		return fmt.Sprint(x)
	}
}

// ToExcel сериализует таблицу в XLSX со стилизованной строкой заголовков
func ToExcel(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Name
	if sheet == "" {
		sheet = "Данные"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, row := range t.Rows {
		for colIdx, v := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if ts, ok := v.(time.Time); ok {
				f.SetCellValue(sheet, cell, analytics.FormatSaleDate(ts))
			} else {
				f.SetCellValue(sheet, cell, v)
			}
		}
	}

	for i := range t.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
