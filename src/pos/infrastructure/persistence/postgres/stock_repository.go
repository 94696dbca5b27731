package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
)

// StockRepository stock global (products.stock) o por sucursal (product_stock_by_branch)
// más el kardex en stock_movements
type StockRepository struct {
	q querier
}

// NewStockRepository crea una nueva instancia del repositorio
func NewStockRepository(q querier) *StockRepository {
	return &StockRepository{q: q}
}

// LockForSale bloquea las filas de stock en orden de product_id.
// Un orden fijo evita deadlocks entre ventas concurrentes con productos en común.
func (r *StockRepository) LockForSale(
	ctx context.Context,
	tenantID uuid.UUID,
	scope entity.StockScope,
	productIDs []uuid.UUID,
) (map[uuid.UUID]int, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if scope.IsBranch() {
		rows, err = r.q.QueryContext(ctx, `
			SELECT product_id, stock
			FROM product_stock_by_branch
			WHERE tenant_id = $1 AND branch_id = $2 AND product_id = ANY($3::uuid[])
			ORDER BY product_id
			FOR UPDATE
		`, tenantID, scope.Branch().UUID, uuidArray(productIDs))
	} else {
		rows, err = r.q.QueryContext(ctx, `
			SELECT id, stock
			FROM products
			WHERE tenant_id = $1 AND id = ANY($2::uuid[])
			ORDER BY id
			FOR UPDATE
		`, tenantID, uuidArray(productIDs))
	}
	if err != nil {
		return nil, fmt.Errorf("error locking stock (%s): %w", scope, err)
	}
	defer rows.Close()

	available := make(map[uuid.UUID]int, len(productIDs))
	for _, id := range productIDs {
		available[id] = 0
	}
	for rows.Next() {
		var id uuid.UUID
		var stock int
		if err := rows.Scan(&id, &stock); err != nil {
			return nil, fmt.Errorf("error scanning stock: %w", err)
		}
		available[id] = stock
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock: %w", err)
	}
	return available, nil
}

// Decrement descuenta quantity y devuelve el stock resultante
func (r *StockRepository) Decrement(ctx context.Context, key entity.StockKey, quantity int) (int, error) {
	var row *sql.Row
	if key.BranchID.Valid {
		row = r.q.QueryRowContext(ctx, `
			UPDATE product_stock_by_branch
			SET stock = stock - $1, updated_at = NOW()
			WHERE tenant_id = $2 AND branch_id = $3 AND product_id = $4
			RETURNING stock
		`, quantity, key.TenantID, key.BranchID.UUID, key.ProductID)
	} else {
		row = r.q.QueryRowContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE tenant_id = $2 AND id = $3
			RETURNING stock
		`, quantity, key.TenantID, key.ProductID)
	}

	var stock int
	if err := row.Scan(&stock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("no stock row for product %s (%s)", key.ProductID, key.Scope())
		}
		return 0, fmt.Errorf("error decrementing stock: %w", err)
	}
	return stock, nil
}

// AppendMovement inserta una fila del kardex
func (r *StockRepository) AppendMovement(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (
			id, tenant_id, product_id, branch_id, movement_type, reference_id,
			quantity, previous_stock, new_stock, actor_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`,
		m.ID,
		m.TenantID,
		m.ProductID,
		m.BranchID, // NULL en scope global
		string(m.Type),
		m.ReferenceID,
		m.Quantity,
		m.PreviousStock,
		m.NewStock,
		m.ActorID,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating stock_movement: %w", err)
	}
	return nil
}

// ListMovements kardex de la clave en orden de inserción
func (r *StockRepository) ListMovements(ctx context.Context, key entity.StockKey) ([]entity.StockMovement, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT
			id, tenant_id, product_id, branch_id, movement_type, reference_id,
			quantity, previous_stock, new_stock, actor_id, created_at
		FROM stock_movements
		WHERE tenant_id = $1 AND product_id = $2 AND branch_id IS NOT DISTINCT FROM $3
		ORDER BY created_at, movement_seq
	`, key.TenantID, key.ProductID, key.BranchID)
	if err != nil {
		return nil, fmt.Errorf("error querying stock_movements: %w", err)
	}
	defer rows.Close()

	var movements []entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var movementType string
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.ProductID,
			&m.BranchID,
			&movementType,
			&m.ReferenceID,
			&m.Quantity,
			&m.PreviousStock,
			&m.NewStock,
			&m.ActorID,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning stock_movement: %w", err)
		}
		m.Type = entity.MovementType(movementType)
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_movements: %w", err)
	}
	return movements, nil
}

// Current stock actual de la clave; sin fila vale 0
func (r *StockRepository) Current(ctx context.Context, key entity.StockKey) (int, error) {
	var row *sql.Row
	if key.BranchID.Valid {
		row = r.q.QueryRowContext(ctx,
			`SELECT stock FROM product_stock_by_branch WHERE tenant_id = $1 AND branch_id = $2 AND product_id = $3`,
			key.TenantID, key.BranchID.UUID, key.ProductID)
	} else {
		row = r.q.QueryRowContext(ctx,
			`SELECT stock FROM products WHERE tenant_id = $1 AND id = $2`,
			key.TenantID, key.ProductID)
	}

	var stock int
	if err := row.Scan(&stock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("error reading stock: %w", err)
	}
	return stock, nil
}
