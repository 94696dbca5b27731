package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentRequest descuento o recargo: NONE | PERCENT | FIXED
type AdjustmentRequest struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// CreateSaleItemRequest renglón de la venta.
// UnitPrice es opcional y solo se acepta para productos MANUAL.
type CreateSaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleRequest request para registrar una venta POS
type CreateSaleRequest struct {
	TenantID      uuid.UUID               `json:"tenant_id"`
	BranchID      *uuid.UUID              `json:"branch_id,omitempty"` // Requerida si el tenant lleva stock por sucursal
	CashierID     uuid.UUID               `json:"cashier_id"`
	Currency      string                  `json:"currency,omitempty"` // Default: ARS
	PaymentMethod string                  `json:"payment_method"`
	Notes         string                  `json:"notes,omitempty"`
	CustomerID    *uuid.UUID              `json:"customer_id,omitempty"` // NULL = consumidor final
	Discount      *AdjustmentRequest      `json:"discount,omitempty"`
	Surcharge     *AdjustmentRequest      `json:"surcharge,omitempty"`
	Items         []CreateSaleItemRequest `json:"items"`
}

// ProductIDs ids únicos en el orden en que aparecen
func (r *CreateSaleRequest) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(r.Items))
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
