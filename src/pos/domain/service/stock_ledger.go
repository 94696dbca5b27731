package service

import (
	"context"
	"fmt"
	"time"

	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"

	"github.com/google/uuid"
)

// StockLine cantidad pedida de un producto en un renglón
type StockLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckAvailability valida todos los renglones antes de tocar el stock.
// Renglones que repiten producto consumen la misma disponibilidad.
func CheckAvailability(lines []StockLine, available map[uuid.UUID]int) error {
	remaining := make(map[uuid.UUID]int, len(available))
	for id, qty := range available {
		remaining[id] = qty
	}

	for _, line := range lines {
		left := remaining[line.ProductID]
		if left < line.Quantity {
			return entity.NewInsufficientStockError(line.ProductID, line.Quantity, left)
		}
		remaining[line.ProductID] = left - line.Quantity
	}
	return nil
}

// ApplySale descuenta el stock de cada renglón y agrega un movimiento SALE por renglón.
// Debe correr en la misma transacción que LockForSale y CheckAvailability.
func ApplySale(
	ctx context.Context,
	repo port.StockRepository,
	scope entity.StockScope,
	tenantID, saleID, actorID uuid.UUID,
	lines []StockLine,
	at time.Time,
) ([]entity.StockMovement, error) {
	movements := make([]entity.StockMovement, 0, len(lines))

	for _, line := range lines {
		key := scope.Key(tenantID, line.ProductID)

		newQty, err := repo.Decrement(ctx, key, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("error decrementing stock for product %s: %w", line.ProductID, err)
		}
		previous := newQty + line.Quantity
		if newQty < 0 {
			return nil, entity.NewInsufficientStockError(line.ProductID, line.Quantity, previous)
		}

		movement := entity.NewSaleMovement(key, saleID, actorID, line.Quantity, previous, at)
		if err := repo.AppendMovement(ctx, movement); err != nil {
			return nil, fmt.Errorf("error appending stock movement for product %s: %w", line.ProductID, err)
		}
		movements = append(movements, *movement)
	}

	return movements, nil
}
