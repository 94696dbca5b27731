package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// branchesFeatureKeys claves aceptadas en plan_features
var branchesFeatureKeys = []string{"branches", "BRANCHES"}

// FeatureFlagRepository features del plan guardadas en tenants.plan_features (jsonb)
type FeatureFlagRepository struct {
	db *sql.DB
}

// NewFeatureFlagRepository crea una nueva instancia del repositorio
func NewFeatureFlagRepository(db *sql.DB) *FeatureFlagRepository {
	return &FeatureFlagRepository{db: db}
}

// BranchesEnabled tenant inexistente o sin la feature = deshabilitado
func (r *FeatureFlagRepository) BranchesEnabled(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT plan_features FROM tenants WHERE id = $1`,
		tenantID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error querying tenant features: %w", err)
	}
	return parseBranchesFeature(raw)
}

func parseBranchesFeature(raw []byte) (bool, error) {
	if len(raw) == 0 {
		return false, nil
	}
	var features map[string]interface{}
	if err := json.Unmarshal(raw, &features); err != nil {
		return false, fmt.Errorf("error decoding plan_features: %w", err)
	}
	for _, key := range branchesFeatureKeys {
		if enabled, ok := features[key].(bool); ok && enabled {
			return true, nil
		}
	}
	return false, nil
}
