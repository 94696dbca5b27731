package usecase

import (
	"context"
	"fmt"

	"sales/src/pos/application/response"
	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"

	"github.com/google/uuid"
)

// GetSaleUseCase obtiene una venta con sus items y su ingreso de caja
type GetSaleUseCase struct {
	uow port.UnitOfWork
}

// NewGetSaleUseCase crea una nueva instancia del caso de uso
func NewGetSaleUseCase(uow port.UnitOfWork) *GetSaleUseCase {
	return &GetSaleUseCase{uow: uow}
}

// Execute devuelve SALE_NOT_FOUND si la venta no existe para el tenant
func (uc *GetSaleUseCase) Execute(ctx context.Context, tenantID, saleID uuid.UUID) (*response.SaleDetailResponse, error) {
	if tenantID == uuid.Nil {
		return nil, entity.ErrTenantIDRequired
	}
	if saleID == uuid.Nil {
		return nil, entity.ErrSaleNotFound
	}

	var (
		sale    *entity.Sale
		entries []entity.CashLedgerEntry
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		sale, err = tx.Sales().FindByID(ctx, tenantID, saleID)
		if err != nil || sale == nil {
			return err
		}
		entries, err = tx.CashLedger().FindBySale(ctx, tenantID, saleID)
		return err
	})
	if err != nil {
		if _, ok := entity.AsSaleError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("error getting sale: %w", err)
	}
	if sale == nil {
		return nil, entity.ErrSaleNotFound
	}

	return response.NewSaleDetailResponse(sale, entries), nil
}
