package cache

import (
	"context"
	"testing"
	"time"

	"sales/src/pos/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingProvider struct {
	rates map[string]decimal.Decimal
	calls int
}

func (p *countingProvider) GetRate(_ context.Context, from, to string, _ uuid.UUID) (decimal.Decimal, error) {
	p.calls++
	rate, ok := p.rates[from+to]
	if !ok {
		return decimal.Zero, entity.NewExchangeRateNotFoundError(from, to)
	}
	return rate, nil
}

func newCache(t *testing.T, next *countingProvider) (*ExchangeRateCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	provider := NewExchangeRateCache(next, client, time.Minute, zap.NewNop())
	c, ok := provider.(*ExchangeRateCache)
	require.True(t, ok)
	return c, mr
}

func TestExchangeRateCacheHit(t *testing.T) {
	next := &countingProvider{rates: map[string]decimal.Decimal{"USDARS": decimal.NewFromInt(1000)}}
	c, mr := newCache(t, next)
	ctx := context.Background()
	tenant := uuid.New()

	for i := 0; i < 3; i++ {
		rate, err := c.GetRate(ctx, "USD", "ARS", tenant)
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(1000)))
	}
	assert.Equal(t, 1, next.calls)

	cached, err := mr.Get(rateKey(tenant, "USD", "ARS"))
	require.NoError(t, err)
	assert.Equal(t, "1000", cached)

	mr.FastForward(2 * time.Minute)
	_, err = c.GetRate(ctx, "USD", "ARS", tenant)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "expired entries are reloaded")
}

func TestExchangeRateCacheKeysPerTenant(t *testing.T) {
	next := &countingProvider{rates: map[string]decimal.Decimal{"USDARS": decimal.NewFromInt(1000)}}
	c, _ := newCache(t, next)
	ctx := context.Background()

	_, err := c.GetRate(ctx, "USD", "ARS", uuid.New())
	require.NoError(t, err)
	_, err = c.GetRate(ctx, "USD", "ARS", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestExchangeRateCacheMissNotCached(t *testing.T) {
	next := &countingProvider{rates: map[string]decimal.Decimal{}}
	c, mr := newCache(t, next)
	ctx := context.Background()
	tenant := uuid.New()

	_, err := c.GetRate(ctx, "EUR", "ARS", tenant)
	assert.ErrorIs(t, err, entity.ErrExchangeRateNotFound)
	assert.False(t, mr.Exists(rateKey(tenant, "EUR", "ARS")))

	next.rates["EURARS"] = decimal.NewFromInt(1100)
	rate, err := c.GetRate(ctx, "EUR", "ARS", tenant)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1100)))
}

func TestExchangeRateCacheInvalidate(t *testing.T) {
	next := &countingProvider{rates: map[string]decimal.Decimal{"USDARS": decimal.NewFromInt(1000)}}
	c, _ := newCache(t, next)
	ctx := context.Background()
	tenant := uuid.New()

	_, err := c.GetRate(ctx, "USD", "ARS", tenant)
	require.NoError(t, err)

	next.rates["USDARS"] = decimal.NewFromInt(1200)
	require.NoError(t, c.Invalidate(ctx, tenant, "usd", "ars"))

	rate, err := c.GetRate(ctx, "USD", "ARS", tenant)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1200)))
}

func TestExchangeRateCacheMalformedValue(t *testing.T) {
	next := &countingProvider{rates: map[string]decimal.Decimal{"USDARS": decimal.NewFromInt(1000)}}
	c, mr := newCache(t, next)
	tenant := uuid.New()
	require.NoError(t, mr.Set(rateKey(tenant, "USD", "ARS"), "not-a-number"))

	rate, err := c.GetRate(context.Background(), "USD", "ARS", tenant)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, next.calls)
}

func TestExchangeRateCacheRedisDown(t *testing.T) {
	next := &countingProvider{rates: map[string]decimal.Decimal{"USDARS": decimal.NewFromInt(1000)}}
	c, mr := newCache(t, next)
	mr.Close()

	for i := 0; i < 3; i++ {
		rate, err := c.GetRate(context.Background(), "USD", "ARS", uuid.New())
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(1000)))
	}
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, gobreaker.StateOpen, c.breaker.State())
}

func TestExchangeRateCacheMissDoesNotTripBreaker(t *testing.T) {
	next := &countingProvider{rates: map[string]decimal.Decimal{}}
	c, _ := newCache(t, next)

	for i := 0; i < 5; i++ {
		_, err := c.GetRate(context.Background(), "EUR", "ARS", uuid.New())
		assert.ErrorIs(t, err, entity.ErrExchangeRateNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, c.breaker.State())
}

func TestNewExchangeRateCacheWithoutClient(t *testing.T) {
	next := &countingProvider{}
	assert.Same(t, next, NewExchangeRateCache(next, nil, time.Minute, nil))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = NewRedisClient(context.Background(), "://bad")
	assert.Error(t, err)
}
