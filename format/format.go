// Package format форматирование денежных и числовых значений для
// отображения (русская локаль) и для машинного экспорта (CSV).
package format

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Russian)

// Currency форматирует сумму в рублях для отображения: "1 234 567 ₽".
// Копейки в дашборде не показываются, сумма округляется до рубля.
func Currency(v float64) string {
	return printer.Sprintf("%.0f ₽", v)
}

// Integer форматирует целое с разделителями групп разрядов
func Integer(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent форматирует долю в процентах с одним знаком после запятой
func Percent(v float64) string {
	return printer.Sprintf("%.1f %%", v)
}

// Plain сериализует число в машинном виде без локали, чтобы
// экспортированный CSV однозначно импортировался обратно.
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PlainInt машинная форма целого
func PlainInt(n int) string {
	return strconv.Itoa(n)
}
