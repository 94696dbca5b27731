package command

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sales/src/pos/application/response"
	"sales/src/pos/domain/entity"
	"sales/src/pos/infrastructure/persistence/memory"
	"sales/src/shared/infrastructure/config"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cliFixture struct {
	store    *memory.Store
	app      *App
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	tenantID uuid.UUID
	product  entity.Product
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	store := memory.NewStore()
	f := &cliFixture{
		store:    store,
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		tenantID: uuid.New(),
	}
	f.product = entity.Product{
		ID:          uuid.New(),
		TenantID:    f.tenantID,
		Name:        "Yerba",
		SKU:         "YER-1",
		Price:       decimal.RequireFromString("100"),
		PricingMode: entity.PricingManual,
		Stock:       10,
	}
	store.AddProduct(f.product)

	cfg := config.Config{DefaultCurrency: "ARS", SaleTimeout: 5 * time.Second}
	f.app = &App{
		Config: cfg,
		Logger: zap.NewNop(),
		Stdout: f.stdout,
		Stderr: f.stderr,
		Open: func(context.Context) (*Services, error) {
			backend := Backend{
				UnitOfWork: memory.NewUnitOfWork(store),
				Rates:      store,
				Flags:      store,
				Metrics:    store,
			}
			s := NewServices(backend, cfg, zap.NewNop(), nil)
			s.SetRate = func(_ context.Context, tenantID uuid.NullUUID, from, to string, rate decimal.Decimal) error {
				store.SetExchangeRate(tenantID, from, to, rate)
				return nil
			}
			return s, nil
		},
	}
	return f
}

func (f *cliFixture) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	f.stdout.Reset()
	f.stderr.Reset()

	fs := flag.NewFlagSet("sales", flag.ContinueOnError)
	commander := subcommands.NewCommander(fs, "sales")
	commander.Output = f.stderr
	commander.Error = f.stderr
	Register(commander, f.app)
	require.NoError(t, fs.Parse(args))
	return commander.Execute(context.Background())
}

func (f *cliFixture) writeRequest(t *testing.T, quantity int) string {
	t.Helper()
	body := map[string]interface{}{
		"tenant_id":      f.tenantID,
		"cashier_id":     uuid.New(),
		"payment_method": "efectivo",
		"discount":       map[string]interface{}{"type": "PERCENT", "value": 10},
		"items": []map[string]interface{}{
			{"product_id": f.product.ID, "quantity": quantity},
		},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sale.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestSellShowListKardex(t *testing.T) {
	f := newCLIFixture(t)

	status := f.run(t, "sell", "-f", f.writeRequest(t, 3))
	require.Equal(t, subcommands.ExitSuccess, status, f.stderr.String())

	var created response.CreateSaleResponse
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &created))
	assert.Equal(t, "V-000001", created.SaleNumber)
	assert.True(t, created.TotalAmount.Equal(decimal.RequireFromString("270")))
	assert.Equal(t, 7, f.store.Stock(entity.GlobalStockScope().Key(f.tenantID, f.product.ID)))

	status = f.run(t, "show", "-tenant", f.tenantID.String(), "-sale", created.SaleID.String())
	require.Equal(t, subcommands.ExitSuccess, status, f.stderr.String())
	var shown response.SaleDetailResponse
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &shown))
	assert.Equal(t, created.SaleID, shown.SaleID)
	require.Len(t, shown.Items, 1)
	assert.Equal(t, 3, shown.Items[0].Quantity)
	require.Len(t, shown.CashEntries, 1)
	assert.Equal(t, created.CashEntry.EntryID, shown.CashEntries[0].EntryID)

	status = f.run(t, "list", "-tenant", f.tenantID.String(), "-from", "2000-01-01")
	require.Equal(t, subcommands.ExitSuccess, status, f.stderr.String())
	var page response.ListSalesResponse
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &page))
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 50, page.Limit)

	status = f.run(t, "kardex", "-tenant", f.tenantID.String(), "-product", f.product.ID.String())
	require.Equal(t, subcommands.ExitSuccess, status, f.stderr.String())
	var kardex response.KardexResponse
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &kardex))
	assert.Equal(t, 7, kardex.CurrentStock)
	assert.True(t, kardex.Consistent)
	require.Len(t, kardex.Movements, 1)
	assert.Equal(t, -3, kardex.Movements[0].Quantity)
}

func TestSellReportsBusinessError(t *testing.T) {
	f := newCLIFixture(t)

	status := f.run(t, "sell", "-f", f.writeRequest(t, 11))
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.True(t, strings.HasPrefix(f.stderr.String(), "INSUFFICIENT_STOCK"), f.stderr.String())
	assert.Empty(t, f.stdout.String())
	assert.Equal(t, 10, f.store.Stock(entity.GlobalStockScope().Key(f.tenantID, f.product.ID)))
}

func TestSellRejectsUnknownFields(t *testing.T) {
	f := newCLIFixture(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tenant":"x"}`), 0o600))

	assert.Equal(t, subcommands.ExitFailure, f.run(t, "sell", "-f", path))
	assert.Contains(t, f.stderr.String(), "invalid request JSON")
}

func TestUsageErrors(t *testing.T) {
	f := newCLIFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "sell without file", args: []string{"sell"}},
		{name: "show without sale", args: []string{"show", "-tenant", uuid.NewString()}},
		{name: "kardex bad product", args: []string{"kardex", "-tenant", uuid.NewString(), "-product", "nope"}},
		{name: "list bad date", args: []string{"list", "-tenant", uuid.NewString(), "-to", "15/03/2024"}},
		{name: "rate unknown currency", args: []string{"rate", "-from", "XXQ", "-to", "ARS", "-value", "10"}},
		{name: "rate negative", args: []string{"rate", "-from", "USD", "-to", "ARS", "-value", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, subcommands.ExitUsageError, f.run(t, tt.args...))
		})
	}
}

func TestShowMissingSale(t *testing.T) {
	f := newCLIFixture(t)

	status := f.run(t, "show", "-tenant", f.tenantID.String(), "-sale", uuid.NewString())
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, f.stderr.String(), "SALE_NOT_FOUND")
}

func TestListFilterToIsInclusive(t *testing.T) {
	c := &listCmd{tenant: uuid.NewString(), to: "2024-03-15", limit: 10}
	filter, err := c.filter()
	require.NoError(t, err)
	require.NotNil(t, filter.To)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), *filter.To)
	assert.Nil(t, filter.From)
	assert.False(t, filter.BranchID.Valid)
}

func TestRateThenMarginSale(t *testing.T) {
	f := newCLIFixture(t)
	imported := entity.Product{
		ID:           uuid.New(),
		TenantID:     f.tenantID,
		Name:         "Importado",
		PricingMode:  entity.PricingMargin,
		CostAmount:   decimal.RequireFromString("10"),
		CostCurrency: "USD",
		MarginPct:    decimal.RequireFromString("30"),
		Stock:        5,
	}
	f.store.AddProduct(imported)
	f.product = imported

	status := f.run(t, "sell", "-f", f.writeRequest(t, 1))
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, f.stderr.String(), "EXCHANGE_RATE_NOT_FOUND")

	status = f.run(t, "rate", "-from", "usd", "-to", "ars", "-value", "1000")
	require.Equal(t, subcommands.ExitSuccess, status, f.stderr.String())

	status = f.run(t, "sell", "-f", f.writeRequest(t, 1))
	require.Equal(t, subcommands.ExitSuccess, status, f.stderr.String())
	var created response.CreateSaleResponse
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &created))
	require.Len(t, created.Items, 1)
	assert.True(t, created.Items[0].UnitPrice.Equal(decimal.RequireFromString("13000")))
}
