package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MetricsRepository agregados diarios y mensuales por tenant.
// Corre fuera de la transacción de la venta.
type MetricsRepository struct {
	db *sql.DB
}

// NewMetricsRepository crea una nueva instancia del repositorio
func NewMetricsRepository(db *sql.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Bump suma el delta al día y al mes (UTC) de la venta
func (r *MetricsRepository) Bump(ctx context.Context, tenantID uuid.UUID, at time.Time, delta entity.MetricsDelta) error {
	if delta.IsZero() {
		return nil
	}
	at = at.UTC()
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	month := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO tenant_daily_metrics (tenant_id, day, orders_count, revenue_total, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (tenant_id, day)
			DO UPDATE SET
				orders_count = tenant_daily_metrics.orders_count + EXCLUDED.orders_count,
				revenue_total = tenant_daily_metrics.revenue_total + EXCLUDED.revenue_total,
				updated_at = NOW()
		`, tenantID, day, delta.OrdersCount, delta.RevenueTotal)
		if err != nil {
			return fmt.Errorf("error bumping daily metrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO tenant_monthly_metrics (tenant_id, month, orders_count, revenue_total, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (tenant_id, month)
			DO UPDATE SET
				orders_count = tenant_monthly_metrics.orders_count + EXCLUDED.orders_count,
				revenue_total = tenant_monthly_metrics.revenue_total + EXCLUDED.revenue_total,
				updated_at = NOW()
		`, tenantID, month, delta.OrdersCount, delta.RevenueTotal)
		if err != nil {
			return fmt.Errorf("error bumping monthly metrics: %w", err)
		}
		return nil
	})
	return g.Wait()
}
