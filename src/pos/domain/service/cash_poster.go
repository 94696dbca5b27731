package service

import (
	"context"
	"fmt"

	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"
)

// PostSaleCash registra el ingreso de caja de la venta.
// Una caja abierta no es requisito: sin sesión el movimiento queda con session nula.
func PostSaleCash(
	ctx context.Context,
	sessions port.CashSessionRepository,
	ledger port.CashLedgerRepository,
	sale *entity.Sale,
) (*entity.CashLedgerEntry, error) {
	sessionID, err := sessions.FindOpen(ctx, sale.TenantID, sale.BranchID)
	if err != nil {
		return nil, fmt.Errorf("error looking up open cash session: %w", err)
	}

	entry := entity.NewSaleCashEntry(sale, sessionID)
	if err := ledger.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("error posting cash ledger entry: %w", err)
	}
	return entry, nil
}
