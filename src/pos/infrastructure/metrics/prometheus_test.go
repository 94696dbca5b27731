package metrics

import (
	"testing"

	"sales/src/pos/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSaleCollector(reg)
	require.NoError(t, err)

	sale := &entity.Sale{
		Currency:      "ARS",
		PaymentMethod: entity.PaymentCash,
		Total:         decimal.RequireFromString("140.50"),
		Items:         make([]entity.SaleItem, 2),
	}
	c.SaleCommitted(sale)
	c.SaleCommitted(sale)
	c.SaleAborted("INSUFFICIENT_STOCK")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.committed.WithLabelValues("EFECTIVO")))
	assert.Equal(t, 281.0, testutil.ToFloat64(c.revenue.WithLabelValues("ARS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.aborted.WithLabelValues("INSUFFICIENT_STOCK")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.aborted.WithLabelValues("PRODUCT_NOT_FOUND")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.items))
}

func TestSaleCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewSaleCollector(reg)
	require.NoError(t, err)

	_, err = NewSaleCollector(reg)
	assert.Error(t, err)
}
