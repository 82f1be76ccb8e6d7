package domain

import "github.com/shopspring/decimal"

// Escalas de las columnas NUMERIC: importes a 2 decimales, costo promedio a 4.
const (
	MoneyScale = 2
	CostScale  = 4
)

// HasScale true si d no tiene más de scale decimales significativos.
func HasScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// CheckMoney marca el campo si d tiene más de MoneyScale decimales.
// No pisa un error previo del mismo campo.
func CheckMoney(fields map[string]string, name string, d decimal.Decimal) {
	if _, ok := fields[name]; ok {
		return
	}
	if !HasScale(d, MoneyScale) {
		fields[name] = "máximo 2 decimales"
	}
}
