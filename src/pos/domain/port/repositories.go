package port

import (
	"context"
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
)

// UnitOfWork ejecuta fn dentro de una única transacción atómica.
// Si fn devuelve error todo lo escrito se descarta; no hay escrituras compensatorias.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx repositorios ligados a la transacción en curso
type Tx interface {
	Branches() BranchRepository
	Products() ProductRepository
	Stock() StockRepository
	Sequences() SequenceRepository
	Sales() SaleRepository
	CashSessions() CashSessionRepository
	CashLedger() CashLedgerRepository
}

// BranchRepository sucursales activas del tenant
type BranchRepository interface {
	CountActive(ctx context.Context, tenantID uuid.UUID) (int, error)
	Exists(ctx context.Context, tenantID, branchID uuid.UUID) (bool, error)
}

// ProductRepository lectura del catálogo. Devuelve solo los productos encontrados.
type ProductRepository interface {
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]entity.Product, error)
}

// StockRepository acceso al stock según el scope de la venta.
// LockForSale bloquea las filas hasta el fin de la transacción; productos sin fila valen 0.
type StockRepository interface {
	LockForSale(ctx context.Context, tenantID uuid.UUID, scope entity.StockScope, productIDs []uuid.UUID) (map[uuid.UUID]int, error)
	Decrement(ctx context.Context, key entity.StockKey, quantity int) (int, error)
	AppendMovement(ctx context.Context, movement *entity.StockMovement) error
	ListMovements(ctx context.Context, key entity.StockKey) ([]entity.StockMovement, error)
	Current(ctx context.Context, key entity.StockKey) (int, error)
}

// SequenceRepository contador por tenant. NextValue es un upsert-incremento atómico.
type SequenceRepository interface {
	NextValue(ctx context.Context, tenantID uuid.UUID, counter string) (int64, error)
}

// SaleFilter filtros para listar ventas de un tenant
type SaleFilter struct {
	TenantID uuid.UUID
	BranchID uuid.NullUUID
	From     *time.Time
	To       *time.Time
	// Number coincidencia parcial, sin distinguir mayúsculas
	Number   string
	Limit    int
	Offset   int
}

// SaleRepository persistencia del aggregate Sale
type SaleRepository interface {
	// Create persiste la venta con sus items
	Create(ctx context.Context, sale *entity.Sale) error
	FindByID(ctx context.Context, tenantID, saleID uuid.UUID) (*entity.Sale, error)
	// List no carga los items
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// Count total de ventas que cumplen el filtro, sin paginar
	Count(ctx context.Context, filter SaleFilter) (int, error)
}

// CashSessionRepository caja abierta del tenant/sucursal
type CashSessionRepository interface {
	FindOpen(ctx context.Context, tenantID uuid.UUID, branchID uuid.NullUUID) (uuid.NullUUID, error)
}

// CashLedgerRepository libro de caja (append-only)
type CashLedgerRepository interface {
	Append(ctx context.Context, entry *entity.CashLedgerEntry) error
	FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]entity.CashLedgerEntry, error)
}
