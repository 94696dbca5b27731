package response

import (
	"github.com/google/uuid"
)

// KardexResponse movimientos de una clave de stock y su saldo
type KardexResponse struct {
	TenantID     uuid.UUID               `json:"tenant_id"`
	ProductID    uuid.UUID               `json:"product_id"`
	BranchID     *uuid.UUID              `json:"branch_id,omitempty"`
	CurrentStock int                     `json:"current_stock"`
	Movements    []StockMovementResponse `json:"movements"`
	Consistent   bool                    `json:"consistent"` // cada movimiento encadena con el anterior
}
