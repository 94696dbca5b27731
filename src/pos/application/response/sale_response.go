package response

import (
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItemResponse renglón de la venta listo para imprimir
type SaleItemResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// AdjustmentResponse ajuste pedido y monto aplicado
type AdjustmentResponse struct {
	Type   string          `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse venta registrada con sus items
type SaleResponse struct {
	SaleID         uuid.UUID          `json:"sale_id"`
	SaleNumber     string             `json:"sale_number"`
	TenantID       uuid.UUID          `json:"tenant_id"`
	BranchID       *uuid.UUID         `json:"branch_id,omitempty"`
	CashierID      uuid.UUID          `json:"cashier_id"`
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	Currency       string             `json:"currency"`
	PaymentMethod  string             `json:"payment_method"`
	Items          []SaleItemResponse `json:"items"`
	TotalItems     int                `json:"total_items"`
	SubtotalAmount decimal.Decimal    `json:"subtotal_amount"`
	Discount       AdjustmentResponse `json:"discount"`
	Surcharge      AdjustmentResponse `json:"surcharge"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// NewSaleResponse arma el DTO a partir del aggregate
func NewSaleResponse(sale *entity.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemResponse{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	return &SaleResponse{
		SaleID:         sale.ID,
		SaleNumber:     sale.SaleNumber,
		TenantID:       sale.TenantID,
		BranchID:       nullableID(sale.BranchID),
		CashierID:      sale.CashierID,
		CustomerID:     nullableID(sale.CustomerID),
		Currency:       sale.Currency,
		PaymentMethod:  string(sale.PaymentMethod),
		Items:          items,
		TotalItems:     sale.TotalItems(),
		SubtotalAmount: sale.Subtotal,
		Discount: AdjustmentResponse{
			Type:   string(sale.Discount.Type),
			Value:  sale.Discount.Value,
			Amount: sale.DiscountAmount,
		},
		Surcharge: AdjustmentResponse{
			Type:   string(sale.Surcharge.Type),
			Value:  sale.Surcharge.Value,
			Amount: sale.SurchargeAmount,
		},
		TotalAmount: sale.Total,
		Notes:       sale.Notes,
		CreatedAt:   sale.CreatedAt,
	}
}

func nullableID(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := id.UUID
	return &v
}
