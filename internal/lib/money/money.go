// Package money содержит вспомогательные функции для отображения денежных сумм.
//
// Суммы хранятся и считаются как float64 без округления; округление до двух
// знаков выполняется только при форматировании для писем и ответов API.
package money

import "fmt"

// Format возвращает сумму, округлённую до двух знаков, в виде строки "76.33".
func Format(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatWithCurrency возвращает сумму со знаком доллара, например "$76.33".
func FormatWithCurrency(amount float64) string {
	return "$" + Format(amount)
}
