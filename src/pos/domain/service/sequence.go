package service

import (
	"context"
	"fmt"

	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"

	"github.com/google/uuid"
)

// AllocateSaleNumber toma el siguiente valor del contador "sales" del tenant.
// El contador avanza dentro de la transacción de la venta: si la venta aborta, el número se libera.
// El número visible lo arma entity.NewSale a partir de la secuencia.
func AllocateSaleNumber(ctx context.Context, repo port.SequenceRepository, tenantID uuid.UUID) (int64, error) {
	next, err := repo.NextValue(ctx, tenantID, entity.SalesCounter)
	if err != nil {
		return 0, fmt.Errorf("error allocating sale number: %w", err)
	}
	if next <= 0 {
		return 0, fmt.Errorf("error allocating sale number: counter returned %d", next)
	}
	return next, nil
}
