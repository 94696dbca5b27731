package service

import (
	"context"
	"fmt"

	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var maxMarginPct = decimal.NewFromInt(1000)

// PricingResolver decide el precio unitario de cada renglón.
// No tiene efectos propios; la cotización llega por el provider inyectado.
type PricingResolver struct {
	rates port.ExchangeRateProvider
}

// NewPricingResolver crea el resolver
func NewPricingResolver(rates port.ExchangeRateProvider) *PricingResolver {
	return &PricingResolver{rates: rates}
}

// ResolveUnitPrice devuelve el precio unitario en la moneda de la venta.
//   - MANUAL: override si viene, si no el precio fijo del producto.
//   - MARGIN: costo convertido * (1 + margen/100); el override está prohibido.
func (r *PricingResolver) ResolveUnitPrice(
	ctx context.Context,
	product entity.Product,
	tenantID uuid.UUID,
	saleCurrency string,
	override *decimal.Decimal,
) (decimal.Decimal, error) {
	if product.Mode() != entity.PricingMargin {
		if override != nil {
			if override.IsNegative() {
				return decimal.Zero, entity.ErrInvalidPrice
			}
			return entity.Round2(*override), nil
		}
		return entity.Round2(product.Price), nil
	}

	if override != nil {
		return decimal.Zero, entity.NewMarginPriceOverrideError(product.ID)
	}
	if err := ValidateMarginProduct(product); err != nil {
		return decimal.Zero, err
	}

	costCurrency, err := entity.NormalizeCurrency(product.CostCurrency, saleCurrency)
	if err != nil {
		return decimal.Zero, err
	}

	rate := decimal.NewFromInt(1)
	if costCurrency != saleCurrency {
		rate, err = r.rate(ctx, costCurrency, saleCurrency, tenantID)
		if err != nil {
			return decimal.Zero, err
		}
	}

	return ComputeMarginUnitPrice(product.CostAmount, product.MarginPct, rate), nil
}

func (r *PricingResolver) rate(ctx context.Context, from, to string, tenantID uuid.UUID) (decimal.Decimal, error) {
	if r.rates == nil {
		return decimal.Zero, entity.NewExchangeRateNotFoundError(from, to)
	}
	rate, err := r.rates.GetRate(ctx, from, to, tenantID)
	if err != nil {
		if _, ok := entity.AsSaleError(err); ok {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("error fetching exchange rate %s->%s: %w", from, to, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, entity.NewExchangeRateNotFoundError(from, to)
	}
	return rate, nil
}

// ValidateMarginProduct costo > 0 y margen en [0, 1000]
func ValidateMarginProduct(product entity.Product) error {
	if !product.CostAmount.IsPositive() || product.MarginPct.IsNegative() {
		return entity.NewMarginProductInvalidError(product.ID)
	}
	if product.MarginPct.GreaterThan(maxMarginPct) {
		return entity.NewMarginOutOfRangeError(product.ID)
	}
	return nil
}

// ComputeMarginUnitPrice round2(cost * rate * (1 + margin/100))
func ComputeMarginUnitPrice(costAmount, marginPct, rate decimal.Decimal) decimal.Decimal {
	converted := costAmount.Mul(rate)
	return entity.Round2(converted.Add(entity.Percent(converted, marginPct)))
}
