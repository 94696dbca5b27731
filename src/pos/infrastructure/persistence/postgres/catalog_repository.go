package postgres

import (
	"context"
	"fmt"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
)

// BranchRepository sucursales del tenant (tabla branches, baja lógica con deleted_at)
type BranchRepository struct {
	q querier
}

// NewBranchRepository crea una nueva instancia del repositorio
func NewBranchRepository(q querier) *BranchRepository {
	return &BranchRepository{q: q}
}

// CountActive cantidad de sucursales no eliminadas
func (r *BranchRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM branches WHERE tenant_id = $1 AND deleted_at IS NULL`,
		tenantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting branches: %w", err)
	}
	return count, nil
}

// Exists indica si la sucursal existe, está activa y pertenece al tenant
func (r *BranchRepository) Exists(ctx context.Context, tenantID, branchID uuid.UUID) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM branches WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL)`,
		branchID, tenantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking branch: %w", err)
	}
	return exists, nil
}

// ProductRepository lectura del catálogo
type ProductRepository struct {
	q querier
}

// NewProductRepository crea una nueva instancia del repositorio
func NewProductRepository(q querier) *ProductRepository {
	return &ProductRepository{q: q}
}

// FindByIDs devuelve solo los productos encontrados del tenant
func (r *ProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]entity.Product, error) {
	query := `
		SELECT
			id, tenant_id, name, sku, price, pricing_mode,
			cost_amount, cost_currency, margin_pct, stock
		FROM products
		WHERE tenant_id = $1 AND id = ANY($2::uuid[])
	`

	rows, err := r.q.QueryContext(ctx, query, tenantID, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	products := make([]entity.Product, 0, len(ids))
	for rows.Next() {
		var p entity.Product
		var mode string
		if err := rows.Scan(
			&p.ID,
			&p.TenantID,
			&p.Name,
			&p.SKU,
			&p.Price,
			&mode,
			&p.CostAmount,
			&p.CostCurrency,
			&p.MarginPct,
			&p.Stock,
		); err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		p.PricingMode = entity.PricingMode(mode)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
