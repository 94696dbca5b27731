package entity

import (
	"time"

	"github.com/google/uuid"
)

type stockScopeKind uint8

const (
	stockScopeGlobal stockScopeKind = iota
	stockScopeBranch
)

// StockScope granularidad del stock para una venta: Global o PerBranch(branch).
// Se elige una sola vez por venta.
type StockScope struct {
	kind     stockScopeKind
	branchID uuid.UUID
}

// GlobalStockScope stock por (tenant, producto)
func GlobalStockScope() StockScope {
	return StockScope{kind: stockScopeGlobal}
}

// BranchStockScope stock por (tenant, sucursal, producto)
func BranchStockScope(branchID uuid.UUID) StockScope {
	return StockScope{kind: stockScopeBranch, branchID: branchID}
}

// IsBranch indica si el stock se lleva por sucursal
func (s StockScope) IsBranch() bool {
	return s.kind == stockScopeBranch
}

// Branch sucursal efectiva de la venta; inválida en scope global
func (s StockScope) Branch() uuid.NullUUID {
	if s.kind != stockScopeBranch {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: s.branchID, Valid: true}
}

// Key clave de stock del producto dentro de este scope
func (s StockScope) Key(tenantID, productID uuid.UUID) StockKey {
	return StockKey{TenantID: tenantID, ProductID: productID, BranchID: s.Branch()}
}

func (s StockScope) String() string {
	if s.kind == stockScopeBranch {
		return "branch:" + s.branchID.String()
	}
	return "global"
}

// StockKey identifica un registro de stock
type StockKey struct {
	TenantID  uuid.UUID
	ProductID uuid.UUID
	BranchID  uuid.NullUUID
}

// Scope reconstruye el scope de la clave
func (k StockKey) Scope() StockScope {
	if k.BranchID.Valid {
		return BranchStockScope(k.BranchID.UUID)
	}
	return GlobalStockScope()
}

// StockRecord cantidad actual de una clave
type StockRecord struct {
	Key      StockKey
	Quantity int
}

// MovementType causa de un movimiento de stock
type MovementType string

const (
	MovementSale MovementType = "SALE"
)

// StockMovement fila append-only del kardex. Quantity es el delta con signo
// (negativo en ventas) y cumple NewStock = PreviousStock + Quantity.
type StockMovement struct {
	ID            uuid.UUID     `json:"id"`
	TenantID      uuid.UUID     `json:"tenant_id"`
	ProductID     uuid.UUID     `json:"product_id"`
	BranchID      uuid.NullUUID `json:"branch_id"`
	Type          MovementType  `json:"movement_type"`
	ReferenceID   uuid.UUID     `json:"reference_id"`
	Quantity      int           `json:"quantity"`
	PreviousStock int           `json:"previous_stock"`
	NewStock      int           `json:"new_stock"`
	ActorID       uuid.UUID     `json:"actor_id"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewSaleMovement movimiento de salida por venta
func NewSaleMovement(key StockKey, saleID, actorID uuid.UUID, quantity, previous int, at time.Time) *StockMovement {
	return &StockMovement{
		ID:            uuid.New(),
		TenantID:      key.TenantID,
		ProductID:     key.ProductID,
		BranchID:      key.BranchID,
		Type:          MovementSale,
		ReferenceID:   saleID,
		Quantity:      -quantity,
		PreviousStock: previous,
		NewStock:      previous - quantity,
		ActorID:       actorID,
		CreatedAt:     at,
	}
}

// Key clave de stock afectada por el movimiento
func (m StockMovement) Key() StockKey {
	return StockKey{TenantID: m.TenantID, ProductID: m.ProductID, BranchID: m.BranchID}
}
