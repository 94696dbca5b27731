package entity

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency moneda usada cuando la venta no informa una
const DefaultCurrency = "ARS"

var hundred = decimal.NewFromInt(100)

// Round2 redondea un monto a centavos (mitad hacia arriba para montos positivos)
func Round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// Percent aplica un porcentaje sobre base, sin redondear
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// NormalizeCurrency valida un código ISO-4217 y lo devuelve en mayúsculas.
// Un código vacío se resuelve a fallback.
func NormalizeCurrency(code, fallback string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = strings.ToUpper(strings.TrimSpace(fallback))
	}
	if code == "" || money.GetCurrency(code) == nil {
		return "", NewInvalidCurrencyError(code)
	}
	return code, nil
}
