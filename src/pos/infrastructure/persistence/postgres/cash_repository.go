package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
)

// CashSessionRepository cajas abiertas
type CashSessionRepository struct {
	q querier
}

// NewCashSessionRepository crea una nueva instancia del repositorio
func NewCashSessionRepository(q querier) *CashSessionRepository {
	return &CashSessionRepository{q: q}
}

// FindOpen caja abierta más reciente de la sucursal; sin sucursal, cajas con branch_id NULL
func (r *CashSessionRepository) FindOpen(ctx context.Context, tenantID uuid.UUID, branchID uuid.NullUUID) (uuid.NullUUID, error) {
	var id uuid.UUID
	err := r.q.QueryRowContext(ctx, `
		SELECT id FROM cash_sessions
		WHERE tenant_id = $1 AND status = 'open' AND branch_id IS NOT DISTINCT FROM $2
		ORDER BY opened_at DESC
		LIMIT 1
	`, tenantID, branchID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.NullUUID{}, nil
		}
		return uuid.NullUUID{}, fmt.Errorf("error querying cash_sessions: %w", err)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// CashLedgerRepository libro de caja en cash_movements
type CashLedgerRepository struct {
	q querier
}

// NewCashLedgerRepository crea una nueva instancia del repositorio
func NewCashLedgerRepository(q querier) *CashLedgerRepository {
	return &CashLedgerRepository{q: q}
}

// Append inserta el movimiento de caja
func (r *CashLedgerRepository) Append(ctx context.Context, e *entity.CashLedgerEntry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO cash_movements (
			id, tenant_id, session_id, branch_id, direction, amount,
			method, category, description, sale_id, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`,
		e.ID,
		e.TenantID,
		e.SessionID, // NULL si no había caja abierta
		e.BranchID,
		string(e.Direction),
		e.Amount,
		e.Method,
		e.Category,
		e.Description,
		e.SaleID,
		e.CreatedBy,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating cash_movement: %w", err)
	}
	return nil
}

// FindBySale movimientos de caja asociados a una venta
func (r *CashLedgerRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]entity.CashLedgerEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT
			id, tenant_id, session_id, branch_id, direction, amount,
			method, category, description, sale_id, created_by, created_at
		FROM cash_movements
		WHERE tenant_id = $1 AND sale_id = $2
		ORDER BY created_at
	`, tenantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("error querying cash_movements: %w", err)
	}
	defer rows.Close()

	var entries []entity.CashLedgerEntry
	for rows.Next() {
		var e entity.CashLedgerEntry
		var direction string
		if err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.SessionID,
			&e.BranchID,
			&direction,
			&e.Amount,
			&e.Method,
			&e.Category,
			&e.Description,
			&e.SaleID,
			&e.CreatedBy,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning cash_movement: %w", err)
		}
		e.Direction = entity.CashDirection(direction)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_movements: %w", err)
	}
	return entries, nil
}
