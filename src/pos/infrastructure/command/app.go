package command

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"sales/src/pos/application/usecase"
	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"
	"sales/src/pos/infrastructure/cache"
	"sales/src/pos/infrastructure/metrics"
	"sales/src/pos/infrastructure/persistence/postgres"
	"sales/src/shared/infrastructure/config"
	"sales/src/shared/infrastructure/database"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Backend adaptadores que necesitan los casos de uso
type Backend struct {
	UnitOfWork port.UnitOfWork
	Rates      port.ExchangeRateProvider
	Flags      port.FeatureFlags
	Metrics    port.MetricsRecorder
}

// Services casos de uso ya armados
type Services struct {
	CreateSale *usecase.CreateSaleUseCase
	GetSale    *usecase.GetSaleUseCase
	ListSales  *usecase.ListSalesUseCase
	GetKardex  *usecase.GetKardexUseCase

	// SetRate carga una cotización; tenant inválido = cotización global
	SetRate func(ctx context.Context, tenantID uuid.NullUUID, from, to string, rate decimal.Decimal) error

	DB       *sql.DB
	Gatherer prometheus.Gatherer

	closers []func() error
}

// NewServices arma los casos de uso sobre un backend
func NewServices(b Backend, cfg config.Config, logger *zap.Logger, instrumentation port.SaleInstrumentation) *Services {
	opts := []usecase.CreateSaleOption{
		usecase.WithDefaultCurrency(cfg.DefaultCurrency),
		usecase.WithSaleTimeout(cfg.SaleTimeout),
	}
	if instrumentation != nil {
		opts = append(opts, usecase.WithInstrumentation(instrumentation))
	}

	return &Services{
		CreateSale: usecase.NewCreateSaleUseCase(b.UnitOfWork, b.Rates, b.Flags, b.Metrics, logger, opts...),
		GetSale:    usecase.NewGetSaleUseCase(b.UnitOfWork),
		ListSales:  usecase.NewListSalesUseCase(b.UnitOfWork),
		GetKardex:  usecase.NewGetKardexUseCase(b.UnitOfWork),
	}
}

// Close espera las métricas pendientes y libera conexiones
func (s *Services) Close() error {
	s.CreateSale.Wait()
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// App estado compartido por los subcomandos
type App struct {
	Config config.Config
	Logger *zap.Logger
	Stdout io.Writer
	Stderr io.Writer

	// Open arma los servicios; por defecto sobre PostgreSQL
	Open func(ctx context.Context) (*Services, error)
}

// NewApp crea la aplicación con el backend PostgreSQL
func NewApp(cfg config.Config, logger *zap.Logger) *App {
	a := &App{
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	a.Open = a.openPostgres
	return a
}

// Register registra los subcomandos
func Register(c *subcommands.Commander, app *App) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&serveCmd{app: app}, "server")
	c.Register(&migrateCmd{app: app}, "server")

	c.Register(&sellCmd{app: app}, "sales")
	c.Register(&showCmd{app: app}, "sales")
	c.Register(&listCmd{app: app}, "sales")
	c.Register(&kardexCmd{app: app}, "stock")
	c.Register(&rateCmd{app: app}, "stock")
}

func (a *App) openPostgres(ctx context.Context) (*Services, error) {
	db, err := database.Open(ctx, a.Config.Database)
	if err != nil {
		return nil, err
	}
	closers := []func() error{db.Close}

	if a.Config.AutoMigrate {
		if err := database.Migrate(db, a.Config.Database.Name, a.Logger); err != nil {
			db.Close()
			return nil, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.NewSaleCollector(reg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}

	var redisClient redis.Cmdable
	if a.Config.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, a.Config.RedisURL)
		if err != nil {
			a.Logger.Warn("exchange rate cache disabled", zap.Error(err))
		} else {
			redisClient = client
			closers = append(closers, client.Close)
		}
	}

	rateRepo := postgres.NewExchangeRateRepository(db)
	rates := cache.NewExchangeRateCache(rateRepo, redisClient, a.Config.ExchangeRateCacheTTL, a.Logger)
	backend := Backend{
		UnitOfWork: postgres.NewUnitOfWork(db),
		Rates:      rates,
		Flags:      postgres.NewFeatureFlagRepository(db),
		Metrics:    postgres.NewMetricsRepository(db),
	}

	s := NewServices(backend, a.Config, a.Logger, collector)
	s.SetRate = func(ctx context.Context, tenantID uuid.NullUUID, from, to string, rate decimal.Decimal) error {
		if err := rateRepo.Upsert(ctx, tenantID, from, to, rate); err != nil {
			return err
		}
		// las cotizaciones globales cacheadas expiran por TTL
		if cached, ok := rates.(*cache.ExchangeRateCache); ok && tenantID.Valid {
			return cached.Invalidate(ctx, tenantID.UUID, from, to)
		}
		return nil
	}
	s.DB = db
	s.Gatherer = reg
	s.closers = closers
	return s, nil
}

// withServices abre los servicios, ejecuta fn y los cierra
func (a *App) withServices(ctx context.Context, fn func(s *Services) error) subcommands.ExitStatus {
	s, err := a.Open(ctx)
	if err != nil {
		fmt.Fprintln(a.Stderr, err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.Logger.Warn("error closing services", zap.Error(err))
		}
	}()

	if err := fn(s); err != nil {
		a.printError(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (a *App) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) printError(err error) {
	if saleErr, ok := entity.AsSaleError(err); ok {
		fmt.Fprintln(a.Stderr, saleErr)
		return
	}
	fmt.Fprintln(a.Stderr, err)
}
