package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AdjustmentType tipo de descuento o recargo sobre el total
type AdjustmentType string

const (
	AdjustmentNone    AdjustmentType = "NONE"
	AdjustmentPercent AdjustmentType = "PERCENT"
	AdjustmentFixed   AdjustmentType = "FIXED"
)

// AdjustmentScale decimales que se conservan del valor declarado (sales.*_value NUMERIC(14,4))
const AdjustmentScale = 4

// ParseAdjustmentType normaliza el tipo; vacío equivale a NONE
func ParseAdjustmentType(raw string) (AdjustmentType, error) {
	switch AdjustmentType(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", AdjustmentNone:
		return AdjustmentNone, nil
	case AdjustmentPercent:
		return AdjustmentPercent, nil
	case AdjustmentFixed:
		return AdjustmentFixed, nil
	}
	return "", ErrInvalidAdjustmentType
}

// Adjustment descuento o recargo declarado en la venta
type Adjustment struct {
	Type  AdjustmentType  `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// NoAdjustment ajuste nulo
func NoAdjustment() Adjustment {
	return Adjustment{Type: AdjustmentNone, Value: decimal.Zero}
}

// NewAdjustment valida tipo y valor. Con NONE el valor se descarta.
// El valor se redondea a AdjustmentScale decimales, así lo que se calcula es lo que se persiste.
func NewAdjustment(raw string, value decimal.Decimal) (Adjustment, error) {
	adjType, err := ParseAdjustmentType(raw)
	if err != nil {
		return Adjustment{}, err
	}
	if adjType == AdjustmentNone {
		return NoAdjustment(), nil
	}
	if value.IsNegative() {
		return Adjustment{}, ErrInvalidAdjustment
	}
	return Adjustment{Type: adjType, Value: value.Round(AdjustmentScale)}, nil
}
