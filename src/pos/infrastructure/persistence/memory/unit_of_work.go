package memory

import (
	"context"

	"sales/src/pos/domain/port"
)

// UnitOfWork serializa las transacciones sobre el Store.
// fn trabaja sobre un clon del estado; solo si termina sin error el clon reemplaza al original.
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork crea la unidad de trabajo en memoria
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Do ejecuta fn de forma atómica
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	working := u.store.state.clone()
	if err := fn(ctx, &memTx{state: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.state = working
	return nil
}

type memTx struct {
	state *state
}

func (t *memTx) Branches() port.BranchRepository { return branchRepository{t.state} }
func (t *memTx) Products() port.ProductRepository { return productRepository{t.state} }
func (t *memTx) Stock() port.StockRepository { return stockRepository{t.state} }
func (t *memTx) Sequences() port.SequenceRepository { return sequenceRepository{t.state} }
func (t *memTx) Sales() port.SaleRepository { return saleRepository{t.state} }
func (t *memTx) CashSessions() port.CashSessionRepository { return cashSessionRepository{t.state} }
func (t *memTx) CashLedger() port.CashLedgerRepository { return cashLedgerRepository{t.state} }
