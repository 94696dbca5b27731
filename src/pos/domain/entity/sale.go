package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesCounter nombre del contador por tenant usado para numerar ventas
const SalesCounter = "sales"

// FormatSaleNumber número visible de la venta: V-000123
func FormatSaleNumber(sequence int64) string {
	return fmt.Sprintf("V-%06d", sequence)
}

// PaymentMethod medio de pago de la venta
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "EFECTIVO"
	PaymentTransfer PaymentMethod = "TRANSFERENCIA"
	PaymentCard     PaymentMethod = "TARJETA"
	PaymentOther    PaymentMethod = "OTRO"
)

// ParsePaymentMethod valida el medio de pago (case-insensitive)
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch pm := PaymentMethod(strings.ToUpper(strings.TrimSpace(raw))); pm {
	case PaymentCash, PaymentTransfer, PaymentCard, PaymentOther:
		return pm, nil
	}
	return "", ErrInvalidPaymentMethod
}

// SaleTotals resultado del cálculo de totales, todo redondeado a centavos
type SaleTotals struct {
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	SurchargeAmount decimal.Decimal
	Total           decimal.Decimal
}

// Sale representa una venta registrada (Aggregate Root). Inmutable una vez creada.
type Sale struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	BranchID        uuid.NullUUID   `json:"branch_id"`
	CashierID       uuid.UUID       `json:"cashier_id"`
	Sequence        int64           `json:"sequence"`
	SaleNumber      string          `json:"sale_number"`
	Currency        string          `json:"currency"`
	Subtotal        decimal.Decimal `json:"subtotal_amount"`
	Discount        Adjustment      `json:"discount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Surcharge       Adjustment      `json:"surcharge"`
	SurchargeAmount decimal.Decimal `json:"surcharge_amount"`
	Total           decimal.Decimal `json:"total_amount"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Notes           string          `json:"notes,omitempty"`
	CustomerID      uuid.NullUUID   `json:"customer_id"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []SaleItem      `json:"items"` // DDD: Collection of entities
}

// NewSaleParams datos ya resueltos por el orquestador
type NewSaleParams struct {
	TenantID      uuid.UUID
	BranchID      uuid.NullUUID
	CashierID     uuid.UUID
	Sequence      int64
	Currency      string
	Discount      Adjustment
	Surcharge     Adjustment
	Totals        SaleTotals
	PaymentMethod PaymentMethod
	Notes         string
	CustomerID    uuid.NullUUID
	Items         []SaleItem
	CreatedAt     time.Time
}

// NewSale crea el aggregate y asigna sale_id, tenant y sucursal a todos los items
func NewSale(p NewSaleParams) (*Sale, error) {
	if p.TenantID == uuid.Nil {
		return nil, ErrTenantIDRequired
	}
	if p.CashierID == uuid.Nil {
		return nil, ErrCashierIDRequired
	}
	if len(p.Items) == 0 {
		return nil, ErrSaleMustHaveItems
	}
	if p.Sequence <= 0 {
		return nil, fmt.Errorf("sale sequence must be positive, got %d", p.Sequence)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	saleID := uuid.New()
	items := make([]SaleItem, len(p.Items))
	copy(items, p.Items)
	for i := range items {
		items[i].SaleID = saleID
		items[i].TenantID = p.TenantID
		items[i].BranchID = p.BranchID
	}

	return &Sale{
		ID:              saleID,
		TenantID:        p.TenantID,
		BranchID:        p.BranchID,
		CashierID:       p.CashierID,
		Sequence:        p.Sequence,
		SaleNumber:      FormatSaleNumber(p.Sequence),
		Currency:        p.Currency,
		Subtotal:        p.Totals.Subtotal,
		Discount:        p.Discount,
		DiscountAmount:  p.Totals.DiscountAmount,
		Surcharge:       p.Surcharge,
		SurchargeAmount: p.Totals.SurchargeAmount,
		Total:           p.Totals.Total,
		PaymentMethod:   p.PaymentMethod,
		Notes:           p.Notes,
		CustomerID:      p.CustomerID,
		CreatedAt:       p.CreatedAt,
		Items:           items,
	}, nil
}

// TotalItems retorna el número total de items
func (s *Sale) TotalItems() int {
	return len(s.Items)
}

// MetricsDelta incremento para las métricas diarias y mensuales del tenant
type MetricsDelta struct {
	OrdersCount  int
	RevenueTotal decimal.Decimal
}

// IsZero indica si el delta no aporta nada
func (d MetricsDelta) IsZero() bool {
	return d.OrdersCount == 0 && d.RevenueTotal.IsZero()
}
