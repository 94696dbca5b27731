package response

import (
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleListItem fila del listado de ventas (sin items)
type SaleListItem struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	SaleNumber    string          `json:"sale_number"`
	BranchID      *uuid.UUID      `json:"branch_id,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Currency      string          `json:"currency"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ListSalesResponse página del listado. Total cuenta todas las ventas del filtro.
type ListSalesResponse struct {
	Sales  []SaleListItem `json:"sales"`
	Count  int            `json:"count"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// NewListSalesResponse arma la página
func NewListSalesResponse(sales []*entity.Sale, total, limit, offset int) *ListSalesResponse {
	items := make([]SaleListItem, 0, len(sales))
	for _, s := range sales {
		items = append(items, SaleListItem{
			SaleID:        s.ID,
			SaleNumber:    s.SaleNumber,
			BranchID:      nullableID(s.BranchID),
			PaymentMethod: string(s.PaymentMethod),
			Currency:      s.Currency,
			TotalAmount:   s.Total,
			CreatedAt:     s.CreatedAt,
		})
	}
	return &ListSalesResponse{Sales: items, Count: len(items), Total: total, Limit: limit, Offset: offset}
}
