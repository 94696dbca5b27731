package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem representa un renglón dentro de una venta (Entity dentro del Aggregate).
// ProductName y SKU son snapshots del catálogo al momento de la venta.
type SaleItem struct {
	ID          uuid.UUID       `json:"id"`
	SaleID      uuid.UUID       `json:"sale_id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	BranchID    uuid.NullUUID   `json:"branch_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewSaleItem crea un renglón tomando el snapshot del producto.
// LineTotal = round2(unitPrice * quantity)
func NewSaleItem(product Product, quantity int, unitPrice decimal.Decimal) (*SaleItem, error) {
	if product.ID == uuid.Nil {
		return nil, ErrProductIDRequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	return &SaleItem{
		ID:          uuid.New(),
		TenantID:    product.TenantID,
		ProductID:   product.ID,
		ProductName: product.Name,
		SKU:         product.SKU,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   Round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity)))),
	}, nil
}
