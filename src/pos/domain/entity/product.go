package entity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingMode cómo se obtiene el precio unitario de un producto
type PricingMode string

const (
	PricingManual PricingMode = "MANUAL"
	PricingMargin PricingMode = "MARGIN"
)

// Product vista de catálogo consumida por el motor (solo lectura).
// Stock es el stock global; el stock por sucursal vive en product_stock_by_branch.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Price        decimal.Decimal `json:"price"`
	PricingMode  PricingMode     `json:"pricing_mode"`
	CostAmount   decimal.Decimal `json:"cost_amount"`
	CostCurrency string          `json:"cost_currency"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
	Stock        int             `json:"stock"`
}

// Mode devuelve el modo normalizado; cualquier valor distinto de MARGIN es MANUAL
func (p Product) Mode() PricingMode {
	if PricingMode(strings.ToUpper(strings.TrimSpace(string(p.PricingMode)))) == PricingMargin {
		return PricingMargin
	}
	return PricingManual
}
