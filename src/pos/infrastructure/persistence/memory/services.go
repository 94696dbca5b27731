package memory

import (
	"context"
	"strings"
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BranchesEnabled feature "branches" del plan del tenant
func (s *Store) BranchesEnabled(_ context.Context, tenantID uuid.UUID) (bool, error) {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.features[tenantID], nil
}

// GetRate cotización del tenant, si no la global
func (s *Store) GetRate(_ context.Context, from, to string, tenantID uuid.UUID) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	s.configMu.RLock()
	defer s.configMu.RUnlock()
	if rate, ok := s.rates[rateKey{tenantID: uuid.NullUUID{UUID: tenantID, Valid: true}, from: from, to: to}]; ok {
		return rate, nil
	}
	if rate, ok := s.rates[rateKey{from: from, to: to}]; ok {
		return rate, nil
	}
	return decimal.Zero, entity.NewExchangeRateNotFoundError(from, to)
}

// Bump acumula el delta en el día y el mes de la venta
func (s *Store) Bump(ctx context.Context, tenantID uuid.UUID, at time.Time, delta entity.MetricsDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if delta.IsZero() {
		return nil
	}

	day := metricsKey{tenantID: tenantID, period: dayKey(at)}
	month := metricsKey{tenantID: tenantID, period: monthKey(at)}

	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()
	s.daily[day] = addDelta(s.daily[day], delta)
	s.monthly[month] = addDelta(s.monthly[month], delta)
	return nil
}

func addDelta(row MetricsRow, delta entity.MetricsDelta) MetricsRow {
	return MetricsRow{
		OrdersCount:  row.OrdersCount + delta.OrdersCount,
		RevenueTotal: row.RevenueTotal.Add(delta.RevenueTotal),
	}
}
