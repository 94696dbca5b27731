package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SequenceRepository contadores por tenant en tenant_counters
type SequenceRepository struct {
	q querier
}

// NewSequenceRepository crea una nueva instancia del repositorio
func NewSequenceRepository(q querier) *SequenceRepository {
	return &SequenceRepository{q: q}
}

// NextValue crea el contador en 1 o lo incrementa, en una sola sentencia.
// El lock de la fila se mantiene hasta el fin de la transacción, así que los números quedan contiguos.
func (r *SequenceRepository) NextValue(ctx context.Context, tenantID uuid.UUID, counter string) (int64, error) {
	var value int64
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO tenant_counters (tenant_id, key, value, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (tenant_id, key)
		DO UPDATE SET value = tenant_counters.value + 1, updated_at = NOW()
		RETURNING value
	`, tenantID, counter).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("error incrementing counter %s: %w", counter, err)
	}
	return value, nil
}
