package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRateRepository cotizaciones en exchange_rates (tenant_id NULL = global)
type ExchangeRateRepository struct {
	db *sql.DB
}

// NewExchangeRateRepository crea una nueva instancia del repositorio
func NewExchangeRateRepository(db *sql.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// GetRate cotización from->to: la del tenant si existe, si no la global
func (r *ExchangeRateRepository) GetRate(ctx context.Context, from, to string, tenantID uuid.UUID) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	var rate decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT rate FROM exchange_rates
		WHERE base_currency = $1 AND target_currency = $2
		  AND (tenant_id = $3 OR tenant_id IS NULL)
		ORDER BY tenant_id IS NULL
		LIMIT 1
	`, from, to, tenantID).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, entity.NewExchangeRateNotFoundError(from, to)
		}
		return decimal.Zero, fmt.Errorf("error querying exchange_rates: %w", err)
	}
	return rate, nil
}

// Upsert carga o actualiza una cotización
func (r *ExchangeRateRepository) Upsert(ctx context.Context, tenantID uuid.NullUUID, from, to string, rate decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exchange_rates (id, tenant_id, base_currency, target_currency, rate, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT ((COALESCE(tenant_id, '00000000-0000-0000-0000-000000000000'::uuid)), base_currency, target_currency)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()
	`, uuid.New(), tenantID, strings.ToUpper(from), strings.ToUpper(to), rate)
	if err != nil {
		return fmt.Errorf("error upserting exchange rate: %w", err)
	}
	return nil
}
