package usecase

import (
	"context"
	"fmt"

	"sales/src/pos/application/response"
	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListSalesUseCase listado paginado de ventas del tenant (sin items)
type ListSalesUseCase struct {
	uow port.UnitOfWork
}

// NewListSalesUseCase crea una nueva instancia del caso de uso
func NewListSalesUseCase(uow port.UnitOfWork) *ListSalesUseCase {
	return &ListSalesUseCase{uow: uow}
}

// Execute aplica límites por defecto y devuelve las ventas más recientes primero.
// Página y total se leen en la misma transacción.
func (uc *ListSalesUseCase) Execute(ctx context.Context, filter port.SaleFilter) (*response.ListSalesResponse, error) {
	if filter.TenantID == uuid.Nil {
		return nil, entity.ErrTenantIDRequired
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var (
		sales []*entity.Sale
		total int
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		if sales, err = tx.Sales().List(ctx, filter); err != nil {
			return err
		}
		total, err = tx.Sales().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error listing sales: %w", err)
	}

	return response.NewListSalesResponse(sales, total, filter.Limit, filter.Offset), nil
}
