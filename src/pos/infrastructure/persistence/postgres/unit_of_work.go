package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales/src/pos/domain/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// querier lo común entre *sql.DB y *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// UnitOfWork implementa port.UnitOfWork con una transacción de PostgreSQL.
// Los locks FOR UPDATE se liberan en el commit o rollback.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork crea una nueva instancia
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do abre la transacción, ejecuta fn y confirma solo si fn no devolvió error
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, &pgTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	q querier
}

func (t *pgTx) Branches() port.BranchRepository { return NewBranchRepository(t.q) }
func (t *pgTx) Products() port.ProductRepository { return NewProductRepository(t.q) }
func (t *pgTx) Stock() port.StockRepository { return NewStockRepository(t.q) }
func (t *pgTx) Sequences() port.SequenceRepository { return NewSequenceRepository(t.q) }
func (t *pgTx) Sales() port.SaleRepository { return NewSaleRepository(t.q) }
func (t *pgTx) CashSessions() port.CashSessionRepository { return NewCashSessionRepository(t.q) }
func (t *pgTx) CashLedger() port.CashLedgerRepository { return NewCashLedgerRepository(t.q) }

func uuidArray(ids []uuid.UUID) interface{} {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return pq.Array(out)
}

// isUniqueViolation detecta errores 23505 de PostgreSQL
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
