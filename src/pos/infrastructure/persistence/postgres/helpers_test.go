package postgres

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBranchesFeature(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    bool
		wantErr bool
	}{
		{name: "empty", raw: "", want: false},
		{name: "empty object", raw: `{}`, want: false},
		{name: "lowercase key", raw: `{"branches": true}`, want: true},
		{name: "uppercase key", raw: `{"BRANCHES": true, "reports": false}`, want: true},
		{name: "disabled", raw: `{"branches": false}`, want: false},
		{name: "not a bool", raw: `{"branches": "yes"}`, want: false},
		{name: "malformed", raw: `{"branches":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBranchesFeature([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("error inserting sale: %w", unique)))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestUUIDArray(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	valuer, ok := uuidArray([]uuid.UUID{a, b}).(driver.Valuer)
	require.True(t, ok)

	v, err := valuer.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"`+a.String()+`","`+b.String()+`"}`, v)
}
