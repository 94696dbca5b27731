package response

import (
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMovementResponse movimiento del kardex
type StockMovementResponse struct {
	MovementID    uuid.UUID  `json:"movement_id"`
	ProductID     uuid.UUID  `json:"product_id"`
	BranchID      *uuid.UUID `json:"branch_id,omitempty"`
	Type          string     `json:"movement_type"`
	ReferenceID   uuid.UUID  `json:"reference_id"`
	Quantity      int        `json:"quantity"`
	PreviousStock int        `json:"previous_stock"`
	NewStock      int        `json:"new_stock"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CashEntryResponse ingreso de caja generado por la venta
type CashEntryResponse struct {
	EntryID   uuid.UUID       `json:"entry_id"`
	SessionID *uuid.UUID      `json:"session_id,omitempty"` // NULL = sin caja abierta
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
}

// CreateSaleResponse venta confirmada con sus efectos de stock y caja
type CreateSaleResponse struct {
	SaleResponse
	StockScope     string                  `json:"stock_scope"`
	StockMovements []StockMovementResponse `json:"stock_movements"`
	CashEntry      CashEntryResponse       `json:"cash_entry"`
}

// NewCreateSaleResponse arma la respuesta del alta
func NewCreateSaleResponse(
	sale *entity.Sale,
	scope entity.StockScope,
	movements []entity.StockMovement,
	cashEntry *entity.CashLedgerEntry,
) *CreateSaleResponse {
	return &CreateSaleResponse{
		SaleResponse:   *NewSaleResponse(sale),
		StockScope:     scope.String(),
		StockMovements: NewStockMovementResponses(movements),
		CashEntry:      NewCashEntryResponse(*cashEntry),
	}
}

// NewCashEntryResponse convierte un movimiento del libro de caja
func NewCashEntryResponse(entry entity.CashLedgerEntry) CashEntryResponse {
	return CashEntryResponse{
		EntryID:   entry.ID,
		SessionID: nullableID(entry.SessionID),
		Amount:    entry.Amount,
		Method:    entry.Method,
	}
}

// NewStockMovementResponses convierte movimientos del dominio
func NewStockMovementResponses(movements []entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, StockMovementResponse{
			MovementID:    m.ID,
			ProductID:     m.ProductID,
			BranchID:      nullableID(m.BranchID),
			Type:          string(m.Type),
			ReferenceID:   m.ReferenceID,
			Quantity:      m.Quantity,
			PreviousStock: m.PreviousStock,
			NewStock:      m.NewStock,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out
}
