package port

import (
	"context"
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRateProvider cotización from->to; primero la del tenant, luego la global
type ExchangeRateProvider interface {
	GetRate(ctx context.Context, from, to string, tenantID uuid.UUID) (decimal.Decimal, error)
}

// FeatureFlags features del plan del tenant
type FeatureFlags interface {
	BranchesEnabled(ctx context.Context, tenantID uuid.UUID) (bool, error)
}

// MetricsRecorder agregación diaria/mensual. Best-effort: nunca debe afectar una venta.
type MetricsRecorder interface {
	Bump(ctx context.Context, tenantID uuid.UUID, at time.Time, delta entity.MetricsDelta) error
}

// SaleInstrumentation contadores de proceso (Prometheus)
type SaleInstrumentation interface {
	SaleCommitted(sale *entity.Sale)
	SaleAborted(code string)
}
