package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashDirection sentido del movimiento de caja
type CashDirection string

const (
	CashInflow  CashDirection = "INFLOW"
	CashOutflow CashDirection = "OUTFLOW"
)

// CashCategorySale categoría de los ingresos generados por ventas
const CashCategorySale = "sale"

// CashLedgerEntry movimiento del libro de caja. SessionID es nulo si no había caja abierta.
type CashLedgerEntry struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	SessionID   uuid.NullUUID   `json:"session_id"`
	BranchID    uuid.NullUUID   `json:"branch_id"`
	Direction   CashDirection   `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	SaleID      uuid.UUID       `json:"sale_id"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewSaleCashEntry ingreso de caja por el total de la venta
func NewSaleCashEntry(sale *Sale, sessionID uuid.NullUUID) *CashLedgerEntry {
	return &CashLedgerEntry{
		ID:          uuid.New(),
		TenantID:    sale.TenantID,
		SessionID:   sessionID,
		BranchID:    sale.BranchID,
		Direction:   CashInflow,
		Amount:      sale.Total,
		Method:      strings.ToLower(string(sale.PaymentMethod)),
		Category:    CashCategorySale,
		Description: "Venta " + sale.SaleNumber,
		SaleID:      sale.ID,
		CreatedBy:   sale.CashierID,
		CreatedAt:   sale.CreatedAt,
	}
}
