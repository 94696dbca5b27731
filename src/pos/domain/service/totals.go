package service

import (
	"sales/src/pos/domain/entity"

	"github.com/shopspring/decimal"
)

// TotalsInput renglones ya redondeados más descuento y recargo
type TotalsInput struct {
	LineTotals []decimal.Decimal
	Discount   entity.Adjustment
	Surcharge  entity.Adjustment
}

// ComputeAdjustment monto de un ajuste sobre base, redondeado a centavos
func ComputeAdjustment(base decimal.Decimal, adj entity.Adjustment) decimal.Decimal {
	switch adj.Type {
	case entity.AdjustmentPercent:
		return entity.Round2(entity.Percent(base, adj.Value))
	case entity.AdjustmentFixed:
		return entity.Round2(adj.Value)
	default:
		return decimal.Zero
	}
}

// CalculateTotals subtotal, descuento, recargo y total.
// El descuento se limita a [0, subtotal]; el recargo no tiene tope.
func CalculateTotals(in TotalsInput) entity.SaleTotals {
	subtotal := decimal.Zero
	for _, lineTotal := range in.LineTotals {
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = entity.Round2(subtotal)

	discount := ComputeAdjustment(subtotal, in.Discount)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	surchargeBase := entity.Round2(subtotal.Sub(discount))
	surcharge := ComputeAdjustment(surchargeBase, in.Surcharge)

	return entity.SaleTotals{
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		SurchargeAmount: surcharge,
		Total:           entity.Round2(subtotal.Sub(discount).Add(surcharge)),
	}
}
