package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sales/src/pos/domain/port"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const keyPrefix = "pos:fx"

// ExchangeRateCache cache en Redis delante del proveedor de cotizaciones.
// Solo se cachean cotizaciones encontradas; si Redis falla se consulta al proveedor.
// Con el breaker abierto no se intenta Redis hasta que pase breakerTimeout.
type ExchangeRateCache struct {
	next    port.ExchangeRateProvider
	client  redis.Cmdable
	ttl     time.Duration
	logger  *zap.Logger
	breaker *gobreaker.CircuitBreaker
}

const (
	breakerFailures = 3
	breakerTimeout  = 30 * time.Second
)

// NewExchangeRateCache crea el cache. Con client nil devuelve el proveedor sin cache.
func NewExchangeRateCache(next port.ExchangeRateProvider, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) port.ExchangeRateProvider {
	if client == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ExchangeRateCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.Named("fx_cache"),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-fx-cache",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return c
}

// GetRate devuelve la cotización desde Redis o desde el proveedor
func (c *ExchangeRateCache) GetRate(ctx context.Context, from, to string, tenantID uuid.UUID) (decimal.Decimal, error) {
	key := rateKey(tenantID, from, to)

	raw, err := c.get(ctx, key)
	switch {
	case err != nil:
		c.logRedisError("redis unavailable, reading rate from source", key, err)
	case raw != "":
		rate, parseErr := decimal.NewFromString(raw)
		if parseErr == nil {
			return rate, nil
		}
		c.logger.Warn("discarding malformed cached rate", zap.String("key", key), zap.String("value", raw))
	}

	rate, err := c.next.GetRate(ctx, from, to, tenantID)
	if err != nil {
		return decimal.Zero, err
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, key, rate.String(), c.ttl).Err()
	})
	if err != nil {
		c.logRedisError("could not cache rate", key, err)
	}
	return rate, nil
}

// get devuelve "" si la clave no existe
func (c *ExchangeRateCache) get(ctx context.Context, key string) (string, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		raw, err := c.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return raw, err
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

func (c *ExchangeRateCache) logRedisError(msg, key string, err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Debug(msg, zap.String("key", key), zap.Error(err))
		return
	}
	c.logger.Warn(msg, zap.String("key", key), zap.Error(err))
}

// Invalidate descarta la cotización cacheada para el tenant
func (c *ExchangeRateCache) Invalidate(ctx context.Context, tenantID uuid.UUID, from, to string) error {
	if err := c.client.Del(ctx, rateKey(tenantID, from, to)).Err(); err != nil {
		return fmt.Errorf("error invalidating cached rate: %w", err)
	}
	return nil
}

func rateKey(tenantID uuid.UUID, from, to string) string {
	return keyPrefix + ":" + tenantID.String() + ":" + strings.ToUpper(from) + ":" + strings.ToUpper(to)
}

// NewRedisClient abre el cliente a partir de REDIS_URL y verifica la conexión
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}
	return client, nil
}
