package usecase

import (
	"context"
	"fmt"

	"sales/src/pos/application/response"
	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"

	"github.com/google/uuid"
)

// GetKardexUseCase movimientos de stock de un producto (global o por sucursal)
type GetKardexUseCase struct {
	uow port.UnitOfWork
}

// NewGetKardexUseCase crea una nueva instancia del caso de uso
func NewGetKardexUseCase(uow port.UnitOfWork) *GetKardexUseCase {
	return &GetKardexUseCase{uow: uow}
}

// Execute devuelve los movimientos en orden cronológico y verifica que encadenen:
// previous_stock de cada movimiento == new_stock del anterior, y el último == stock actual.
func (uc *GetKardexUseCase) Execute(ctx context.Context, key entity.StockKey) (*response.KardexResponse, error) {
	if key.TenantID == uuid.Nil {
		return nil, entity.ErrTenantIDRequired
	}
	if key.ProductID == uuid.Nil {
		return nil, entity.ErrProductIDRequired
	}

	var (
		movements []entity.StockMovement
		current   int
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		if movements, err = tx.Stock().ListMovements(ctx, key); err != nil {
			return err
		}
		current, err = tx.Stock().Current(ctx, key)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error getting kardex: %w", err)
	}

	return &response.KardexResponse{
		TenantID:     key.TenantID,
		ProductID:    key.ProductID,
		BranchID:     branchPtr(key.BranchID),
		CurrentStock: current,
		Movements:    response.NewStockMovementResponses(movements),
		Consistent:   movementsChain(movements, current),
	}, nil
}

func movementsChain(movements []entity.StockMovement, current int) bool {
	for i, m := range movements {
		if m.PreviousStock+m.Quantity != m.NewStock {
			return false
		}
		if i > 0 && movements[i-1].NewStock != m.PreviousStock {
			return false
		}
	}
	if len(movements) > 0 && movements[len(movements)-1].NewStock != current {
		return false
	}
	return true
}

func branchPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := id.UUID
	return &v
}
