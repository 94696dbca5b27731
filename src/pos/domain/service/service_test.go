package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRates struct {
	rates map[string]decimal.Decimal
	err   error
	calls int
}

func (f *fakeRates) GetRate(_ context.Context, from, to string, _ uuid.UUID) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	rate, ok := f.rates[from+"->"+to]
	if !ok {
		return decimal.Zero, entity.NewExchangeRateNotFoundError(from, to)
	}
	return rate, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func marginProduct(cost, margin, currency string) entity.Product {
	return entity.Product{
		ID:           uuid.New(),
		Name:         "Yerba",
		PricingMode:  entity.PricingMargin,
		CostAmount:   dec(cost),
		CostCurrency: currency,
		MarginPct:    dec(margin),
	}
}

func TestResolveUnitPriceMargin(t *testing.T) {
	ctx := context.Background()
	rates := &fakeRates{rates: map[string]decimal.Decimal{"USD->ARS": dec("1000")}}
	resolver := NewPricingResolver(rates)

	price, err := resolver.ResolveUnitPrice(ctx, marginProduct("10", "30", "ARS"), uuid.New(), "ARS", nil)
	require.NoError(t, err)
	assert.Equal(t, "13", price.String())
	assert.Equal(t, 0, rates.calls, "same currency must not hit the rate provider")

	price, err = resolver.ResolveUnitPrice(ctx, marginProduct("10", "30", "USD"), uuid.New(), "ARS", nil)
	require.NoError(t, err)
	assert.Equal(t, "13000", price.String())
	assert.Equal(t, 1, rates.calls)
}

func TestResolveUnitPriceMarginDefaultsCostCurrency(t *testing.T) {
	resolver := NewPricingResolver(nil)

	price, err := resolver.ResolveUnitPrice(context.Background(), marginProduct("9.99", "15", ""), uuid.New(), "ARS", nil)
	require.NoError(t, err)
	assert.Equal(t, "11.49", price.StringFixed(2))
}

func TestResolveUnitPriceMarginRejectsOverride(t *testing.T) {
	rates := &fakeRates{}
	resolver := NewPricingResolver(rates)
	product := marginProduct("10", "30", "USD")

	_, err := resolver.ResolveUnitPrice(context.Background(), product, uuid.New(), "ARS", decPtr("5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrMarginPriceOverride)
	saleErr, ok := entity.AsSaleError(err)
	require.True(t, ok)
	assert.Equal(t, product.ID, saleErr.ProductID)
	assert.Equal(t, 0, rates.calls)
}

func TestResolveUnitPriceMarginValidation(t *testing.T) {
	resolver := NewPricingResolver(&fakeRates{})
	ctx := context.Background()

	_, err := resolver.ResolveUnitPrice(ctx, marginProduct("0", "30", "ARS"), uuid.New(), "ARS", nil)
	assert.ErrorIs(t, err, entity.ErrMarginProductInvalid)

	_, err = resolver.ResolveUnitPrice(ctx, marginProduct("10", "-1", "ARS"), uuid.New(), "ARS", nil)
	assert.ErrorIs(t, err, entity.ErrMarginProductInvalid)

	_, err = resolver.ResolveUnitPrice(ctx, marginProduct("10", "1000.01", "ARS"), uuid.New(), "ARS", nil)
	assert.ErrorIs(t, err, entity.ErrMarginOutOfRange)

	price, err := resolver.ResolveUnitPrice(ctx, marginProduct("10", "1000", "ARS"), uuid.New(), "ARS", nil)
	require.NoError(t, err)
	assert.Equal(t, "110", price.String())
}

func TestResolveUnitPriceMissingRate(t *testing.T) {
	resolver := NewPricingResolver(&fakeRates{})
	_, err := resolver.ResolveUnitPrice(context.Background(), marginProduct("10", "30", "EUR"), uuid.New(), "ARS", nil)
	assert.ErrorIs(t, err, entity.ErrExchangeRateNotFound)

	resolver = NewPricingResolver(&fakeRates{err: errors.New("connection reset")})
	_, err = resolver.ResolveUnitPrice(context.Background(), marginProduct("10", "30", "EUR"), uuid.New(), "ARS", nil)
	require.Error(t, err)
	_, isSaleErr := entity.AsSaleError(err)
	assert.False(t, isSaleErr)
}

func TestResolveUnitPriceManual(t *testing.T) {
	resolver := NewPricingResolver(nil)
	product := entity.Product{ID: uuid.New(), Price: dec("100"), PricingMode: entity.PricingManual}

	price, err := resolver.ResolveUnitPrice(context.Background(), product, uuid.New(), "ARS", nil)
	require.NoError(t, err)
	assert.Equal(t, "100", price.String())

	price, err = resolver.ResolveUnitPrice(context.Background(), product, uuid.New(), "ARS", decPtr("80.50"))
	require.NoError(t, err)
	assert.Equal(t, "80.5", price.String())

	_, err = resolver.ResolveUnitPrice(context.Background(), product, uuid.New(), "ARS", decPtr("-1"))
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestCalculateTotals(t *testing.T) {
	t.Run("percent discount and fixed surcharge", func(t *testing.T) {
		discount, _ := entity.NewAdjustment("PERCENT", dec("10"))
		surcharge, _ := entity.NewAdjustment("FIXED", dec("5"))

		totals := CalculateTotals(TotalsInput{
			LineTotals: []decimal.Decimal{dec("100"), dec("50")},
			Discount:   discount,
			Surcharge:  surcharge,
		})

		assert.Equal(t, "150", totals.Subtotal.String())
		assert.Equal(t, "15", totals.DiscountAmount.String())
		assert.Equal(t, "5", totals.SurchargeAmount.String())
		assert.Equal(t, "140", totals.Total.String())
	})

	t.Run("discount is capped at subtotal", func(t *testing.T) {
		discount, _ := entity.NewAdjustment("FIXED", dec("500"))
		totals := CalculateTotals(TotalsInput{
			LineTotals: []decimal.Decimal{dec("20")},
			Discount:   discount,
			Surcharge:  entity.NoAdjustment(),
		})
		assert.Equal(t, "20", totals.DiscountAmount.String())
		assert.True(t, totals.Total.IsZero())
	})

	t.Run("percent surcharge applies after discount", func(t *testing.T) {
		discount, _ := entity.NewAdjustment("FIXED", dec("10"))
		surcharge, _ := entity.NewAdjustment("PERCENT", dec("10"))
		totals := CalculateTotals(TotalsInput{
			LineTotals: []decimal.Decimal{dec("110")},
			Discount:   discount,
			Surcharge:  surcharge,
		})
		assert.Equal(t, "10", totals.SurchargeAmount.String())
		assert.Equal(t, "110", totals.Total.String())
	})

	t.Run("rounds each amount to cents", func(t *testing.T) {
		discount, _ := entity.NewAdjustment("PERCENT", dec("33.333"))
		totals := CalculateTotals(TotalsInput{
			LineTotals: []decimal.Decimal{dec("10.01")},
			Discount:   discount,
			Surcharge:  entity.NoAdjustment(),
		})
		assert.Equal(t, "3.34", totals.DiscountAmount.StringFixed(2))
		assert.Equal(t, "6.67", totals.Total.StringFixed(2))
	})

	t.Run("percent discount over 100 is capped before the surcharge", func(t *testing.T) {
		discount, _ := entity.NewAdjustment("PERCENT", dec("150"))
		surcharge, _ := entity.NewAdjustment("FIXED", dec("5"))
		totals := CalculateTotals(TotalsInput{
			LineTotals: []decimal.Decimal{dec("20")},
			Discount:   discount,
			Surcharge:  surcharge,
		})
		assert.Equal(t, "20", totals.Subtotal.String())
		assert.Equal(t, "20", totals.DiscountAmount.String())
		assert.Equal(t, "5", totals.SurchargeAmount.String())
		assert.Equal(t, "5", totals.Total.String())
	})

	t.Run("fixed surcharge larger than the discounted base is not capped", func(t *testing.T) {
		discount, _ := entity.NewAdjustment("FIXED", dec("15"))
		surcharge, _ := entity.NewAdjustment("FIXED", dec("40"))
		totals := CalculateTotals(TotalsInput{
			LineTotals: []decimal.Decimal{dec("20")},
			Discount:   discount,
			Surcharge:  surcharge,
		})
		assert.Equal(t, "15", totals.DiscountAmount.String())
		assert.Equal(t, "40", totals.SurchargeAmount.String())
		assert.Equal(t, "45", totals.Total.String())
	})
}

func TestCheckAvailability(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	err := CheckAvailability([]StockLine{{ProductID: a, Quantity: 4}, {ProductID: b, Quantity: 1}}, map[uuid.UUID]int{a: 4, b: 2})
	assert.NoError(t, err)

	err = CheckAvailability([]StockLine{{ProductID: a, Quantity: 5}}, map[uuid.UUID]int{a: 4})
	require.Error(t, err)
	saleErr, ok := entity.AsSaleError(err)
	require.True(t, ok)
	assert.Equal(t, entity.CodeInsufficientStock, saleErr.Code)
	assert.Equal(t, a, saleErr.ProductID)
	assert.Equal(t, 5, saleErr.Requested)
	assert.Equal(t, 4, saleErr.Available)

	// renglones repetidos consumen la misma disponibilidad
	err = CheckAvailability([]StockLine{{ProductID: a, Quantity: 3}, {ProductID: a, Quantity: 2}}, map[uuid.UUID]int{a: 4})
	saleErr, ok = entity.AsSaleError(err)
	require.True(t, ok)
	assert.Equal(t, 2, saleErr.Requested)
	assert.Equal(t, 1, saleErr.Available)

	// sin fila de stock cuenta como cero
	err = CheckAvailability([]StockLine{{ProductID: b, Quantity: 1}}, map[uuid.UUID]int{})
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)
}

type fakeStock struct {
	qty       map[entity.StockKey]int
	movements []entity.StockMovement
}

func (f *fakeStock) LockForSale(_ context.Context, tenantID uuid.UUID, scope entity.StockScope, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		out[id] = f.qty[scope.Key(tenantID, id)]
	}
	return out, nil
}

func (f *fakeStock) Decrement(_ context.Context, key entity.StockKey, quantity int) (int, error) {
	f.qty[key] -= quantity
	return f.qty[key], nil
}

func (f *fakeStock) AppendMovement(_ context.Context, m *entity.StockMovement) error {
	f.movements = append(f.movements, *m)
	return nil
}

func (f *fakeStock) ListMovements(_ context.Context, key entity.StockKey) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range f.movements {
		if m.Key() == key {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStock) Current(_ context.Context, key entity.StockKey) (int, error) {
	return f.qty[key], nil
}

func TestApplySale(t *testing.T) {
	tenantID, branchID, saleID, actorID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	a, b := uuid.New(), uuid.New()
	scope := entity.BranchStockScope(branchID)
	repo := &fakeStock{qty: map[entity.StockKey]int{
		scope.Key(tenantID, a): 10,
		scope.Key(tenantID, b): 3,
	}}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	movements, err := ApplySale(context.Background(), repo, scope, tenantID, saleID, actorID,
		[]StockLine{{ProductID: a, Quantity: 2}, {ProductID: b, Quantity: 3}, {ProductID: a, Quantity: 1}}, at)
	require.NoError(t, err)
	require.Len(t, movements, 3)

	assert.Equal(t, 7, repo.qty[scope.Key(tenantID, a)])
	assert.Equal(t, 0, repo.qty[scope.Key(tenantID, b)])

	assert.Equal(t, 10, movements[0].PreviousStock)
	assert.Equal(t, 8, movements[0].NewStock)
	assert.Equal(t, -2, movements[0].Quantity)
	assert.Equal(t, 8, movements[2].PreviousStock)
	assert.Equal(t, 7, movements[2].NewStock)
	for _, m := range movements {
		assert.Equal(t, entity.MovementSale, m.Type)
		assert.Equal(t, saleID, m.ReferenceID)
		assert.Equal(t, uuid.NullUUID{UUID: branchID, Valid: true}, m.BranchID)
		assert.Equal(t, m.PreviousStock+m.Quantity, m.NewStock)
	}
}

type fakeSequence struct{ values map[string]int64 }

func (f *fakeSequence) NextValue(_ context.Context, tenantID uuid.UUID, counter string) (int64, error) {
	f.values[tenantID.String()+counter]++
	return f.values[tenantID.String()+counter], nil
}

func TestAllocateSaleNumber(t *testing.T) {
	repo := &fakeSequence{values: map[string]int64{}}
	tenantA, tenantB := uuid.New(), uuid.New()

	seq, err := AllocateSaleNumber(context.Background(), repo, tenantA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	seq, err = AllocateSaleNumber(context.Background(), repo, tenantA)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
	assert.Equal(t, "V-000002", entity.FormatSaleNumber(seq))

	seq, err = AllocateSaleNumber(context.Background(), repo, tenantB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

type fakeSessions struct{ open uuid.NullUUID }

func (f fakeSessions) FindOpen(context.Context, uuid.UUID, uuid.NullUUID) (uuid.NullUUID, error) {
	return f.open, nil
}

type fakeLedger struct{ entries []entity.CashLedgerEntry }

func (f *fakeLedger) Append(_ context.Context, e *entity.CashLedgerEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeLedger) FindBySale(_ context.Context, _ uuid.UUID, saleID uuid.UUID) ([]entity.CashLedgerEntry, error) {
	var out []entity.CashLedgerEntry
	for _, e := range f.entries {
		if e.SaleID == saleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestPostSaleCash(t *testing.T) {
	sale := &entity.Sale{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		CashierID:     uuid.New(),
		SaleNumber:    "V-000042",
		Total:         dec("140"),
		PaymentMethod: entity.PaymentCard,
	}

	t.Run("without open session", func(t *testing.T) {
		ledger := &fakeLedger{}
		entry, err := PostSaleCash(context.Background(), fakeSessions{}, ledger, sale)
		require.NoError(t, err)
		assert.False(t, entry.SessionID.Valid)
		assert.Equal(t, entity.CashInflow, entry.Direction)
		assert.Equal(t, "tarjeta", entry.Method)
		assert.Equal(t, "Venta V-000042", entry.Description)
		assert.True(t, entry.Amount.Equal(sale.Total))
		assert.Len(t, ledger.entries, 1)
	})

	t.Run("with open session", func(t *testing.T) {
		session := uuid.NullUUID{UUID: uuid.New(), Valid: true}
		entry, err := PostSaleCash(context.Background(), fakeSessions{open: session}, &fakeLedger{}, sale)
		require.NoError(t, err)
		assert.Equal(t, session, entry.SessionID)
	})
}
