package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sales/src/pos/application/request"
	"sales/src/pos/application/response"
	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"
	"sales/src/pos/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const metricsBumpTimeout = 5 * time.Second

// CreateSaleUseCase registra una venta POS en una única transacción:
// sucursal, precios, stock, numeración, venta, kardex y caja se confirman juntos o no se confirma nada.
type CreateSaleUseCase struct {
	uow             port.UnitOfWork
	pricing         *service.PricingResolver
	flags           port.FeatureFlags
	metrics         port.MetricsRecorder
	instrumentation port.SaleInstrumentation
	logger          *zap.Logger
	tracer          trace.Tracer
	defaultCurrency string
	timeout         time.Duration
	now             func() time.Time

	pending sync.WaitGroup
}

// CreateSaleOption configuración opcional del caso de uso
type CreateSaleOption func(*CreateSaleUseCase)

// WithDefaultCurrency moneda usada cuando el request no trae una
func WithDefaultCurrency(currency string) CreateSaleOption {
	return func(uc *CreateSaleUseCase) {
		if currency != "" {
			uc.defaultCurrency = currency
		}
	}
}

// WithSaleTimeout límite para toda la transacción (incluye esperas de locks).
// Con 0 la venta hereda el deadline del contexto recibido.
func WithSaleTimeout(timeout time.Duration) CreateSaleOption {
	return func(uc *CreateSaleUseCase) { uc.timeout = timeout }
}

// WithInstrumentation contadores de proceso
func WithInstrumentation(instrumentation port.SaleInstrumentation) CreateSaleOption {
	return func(uc *CreateSaleUseCase) { uc.instrumentation = instrumentation }
}

// WithClock reloj usado para created_at
func WithClock(now func() time.Time) CreateSaleOption {
	return func(uc *CreateSaleUseCase) { uc.now = now }
}

// NewCreateSaleUseCase crea una nueva instancia del caso de uso
func NewCreateSaleUseCase(
	uow port.UnitOfWork,
	rates port.ExchangeRateProvider,
	flags port.FeatureFlags,
	metrics port.MetricsRecorder,
	logger *zap.Logger,
	opts ...CreateSaleOption,
) *CreateSaleUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &CreateSaleUseCase{
		uow:             uow,
		pricing:         service.NewPricingResolver(rates),
		flags:           flags,
		metrics:         metrics,
		logger:          logger.Named("create_sale"),
		tracer:          otel.Tracer("sales/pos"),
		defaultCurrency: entity.DefaultCurrency,
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type saleLine struct {
	productID uuid.UUID
	quantity  int
	override  *decimal.Decimal
}

type saleInput struct {
	tenantID      uuid.UUID
	branchID      uuid.NullUUID
	cashierID     uuid.UUID
	customerID    uuid.NullUUID
	currency      string
	paymentMethod entity.PaymentMethod
	discount      entity.Adjustment
	surcharge     entity.Adjustment
	notes         string
	productIDs    []uuid.UUID
	lines         []saleLine
}

// Execute registra la venta.
// Cualquier error antes del commit descarta todo; no hay compensaciones ni reintentos.
func (uc *CreateSaleUseCase) Execute(ctx context.Context, req *request.CreateSaleRequest) (_ *response.CreateSaleResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "pos.CreateSale")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			uc.aborted(req, err)
		}
	}()

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	// ========================================================================
	// PASO 0: VALIDACIONES DEL REQUEST
	// ========================================================================
	in, err := uc.validate(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("tenant_id", in.tenantID.String()),
		attribute.Int("items", len(in.lines)),
		attribute.String("currency", in.currency),
	)

	branchesEnabled := false
	if uc.flags != nil {
		branchesEnabled, err = uc.flags.BranchesEnabled(ctx, in.tenantID)
		if err != nil {
			return nil, fmt.Errorf("error reading tenant features: %w", err)
		}
	}

	var (
		sale      *entity.Sale
		scope     entity.StockScope
		movements []entity.StockMovement
		cashEntry *entity.CashLedgerEntry
	)

	err = uc.uow.Do(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error

		// PASO 1: sucursal efectiva y scope de stock
		scope, err = resolveStockScope(ctx, tx.Branches(), branchesEnabled, in.tenantID, in.branchID)
		if err != nil {
			return err
		}

		// PASO 2: productos
		products, err := loadProducts(ctx, tx.Products(), in.tenantID, in.productIDs, in.lines)
		if err != nil {
			return err
		}

		// PASO 3: lock + snapshot de stock
		available, err := tx.Stock().LockForSale(ctx, in.tenantID, scope, in.productIDs)
		if err != nil {
			return fmt.Errorf("error locking stock: %w", err)
		}

		// PASO 4-5: precios unitarios y totales por renglón
		items := make([]entity.SaleItem, 0, len(in.lines))
		stockLines := make([]service.StockLine, 0, len(in.lines))
		lineTotals := make([]decimal.Decimal, 0, len(in.lines))
		for _, line := range in.lines {
			product := products[line.productID]
			unitPrice, err := uc.pricing.ResolveUnitPrice(ctx, product, in.tenantID, in.currency, line.override)
			if err != nil {
				return err
			}
			item, err := entity.NewSaleItem(product, line.quantity, unitPrice)
			if err != nil {
				return err
			}
			items = append(items, *item)
			lineTotals = append(lineTotals, item.LineTotal)
			stockLines = append(stockLines, service.StockLine{ProductID: line.productID, Quantity: line.quantity})
		}

		// PASO 6: stock suficiente para todos los renglones antes de mutar
		if err := service.CheckAvailability(stockLines, available); err != nil {
			return err
		}

		// PASO 7: totales
		totals := service.CalculateTotals(service.TotalsInput{
			LineTotals: lineTotals,
			Discount:   in.discount,
			Surcharge:  in.surcharge,
		})

		// PASO 8: numeración
		sequence, err := service.AllocateSaleNumber(ctx, tx.Sequences(), in.tenantID)
		if err != nil {
			return err
		}

		// PASO 9: venta + items
		sale, err = entity.NewSale(entity.NewSaleParams{
			TenantID:      in.tenantID,
			BranchID:      scope.Branch(),
			CashierID:     in.cashierID,
			Sequence:      sequence,
			Currency:      in.currency,
			Discount:      in.discount,
			Surcharge:     in.surcharge,
			Totals:        totals,
			PaymentMethod: in.paymentMethod,
			Notes:         in.notes,
			CustomerID:    in.customerID,
			Items:         items,
			CreatedAt:     uc.now(),
		})
		if err != nil {
			return err
		}
		if err := tx.Sales().Create(ctx, sale); err != nil {
			return fmt.Errorf("error persisting sale: %w", err)
		}

		// PASO 10: descuento de stock + kardex
		movements, err = service.ApplySale(ctx, tx.Stock(), scope, in.tenantID, sale.ID, in.cashierID, stockLines, sale.CreatedAt)
		if err != nil {
			return err
		}

		// PASO 11: caja
		cashEntry, err = service.PostSaleCash(ctx, tx.CashSessions(), tx.CashLedger(), sale)
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sale_id", sale.ID.String()),
		attribute.String("sale_number", sale.SaleNumber),
	)
	uc.logger.Info("sale committed",
		zap.String("tenant_id", sale.TenantID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("stock_scope", scope.String()),
		zap.Int("items", sale.TotalItems()),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.String("currency", sale.Currency),
	)
	if uc.instrumentation != nil {
		uc.instrumentation.SaleCommitted(sale)
	}
	uc.bumpMetrics(ctx, sale)

	return response.NewCreateSaleResponse(sale, scope, movements, cashEntry), nil
}

// Wait espera las actualizaciones de métricas pendientes
func (uc *CreateSaleUseCase) Wait() {
	uc.pending.Wait()
}

func (uc *CreateSaleUseCase) validate(req *request.CreateSaleRequest) (*saleInput, error) {
	if req == nil {
		return nil, entity.ErrInvalidRequest
	}
	if req.TenantID == uuid.Nil {
		return nil, entity.ErrTenantIDRequired
	}
	if req.CashierID == uuid.Nil {
		return nil, entity.ErrCashierIDRequired
	}
	if len(req.Items) == 0 {
		return nil, entity.ErrSaleMustHaveItems
	}

	lines := make([]saleLine, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return nil, entity.ErrProductIDRequired
		}
		if item.Quantity <= 0 {
			return nil, entity.ErrInvalidQuantity
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, entity.ErrInvalidPrice
		}
		lines = append(lines, saleLine{productID: item.ProductID, quantity: item.Quantity, override: item.UnitPrice})
	}

	paymentMethod, err := entity.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	discount, err := adjustmentFrom(req.Discount)
	if err != nil {
		return nil, err
	}
	surcharge, err := adjustmentFrom(req.Surcharge)
	if err != nil {
		return nil, err
	}
	currency, err := entity.NormalizeCurrency(req.Currency, uc.defaultCurrency)
	if err != nil {
		return nil, err
	}

	return &saleInput{
		tenantID:      req.TenantID,
		branchID:      optionalID(req.BranchID),
		cashierID:     req.CashierID,
		customerID:    optionalID(req.CustomerID),
		currency:      currency,
		paymentMethod: paymentMethod,
		discount:      discount,
		surcharge:     surcharge,
		notes:         req.Notes,
		productIDs:    req.ProductIDs(),
		lines:         lines,
	}, nil
}

// resolveStockScope stock por sucursal solo si el plan lo habilita y el tenant tiene sucursales activas
func resolveStockScope(
	ctx context.Context,
	branches port.BranchRepository,
	branchesEnabled bool,
	tenantID uuid.UUID,
	branchID uuid.NullUUID,
) (entity.StockScope, error) {
	if !branchesEnabled {
		return entity.GlobalStockScope(), nil
	}
	count, err := branches.CountActive(ctx, tenantID)
	if err != nil {
		return entity.StockScope{}, fmt.Errorf("error counting branches: %w", err)
	}
	if count == 0 {
		return entity.GlobalStockScope(), nil
	}
	if !branchID.Valid {
		return entity.StockScope{}, entity.ErrBranchRequired
	}
	exists, err := branches.Exists(ctx, tenantID, branchID.UUID)
	if err != nil {
		return entity.StockScope{}, fmt.Errorf("error checking branch: %w", err)
	}
	if !exists {
		return entity.StockScope{}, entity.ErrBranchForbidden
	}
	return entity.BranchStockScope(branchID.UUID), nil
}

func loadProducts(
	ctx context.Context,
	repo port.ProductRepository,
	tenantID uuid.UUID,
	ids []uuid.UUID,
	lines []saleLine,
) (map[uuid.UUID]entity.Product, error) {
	found, err := repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading products: %w", err)
	}
	products := make(map[uuid.UUID]entity.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}
	for _, line := range lines {
		if _, ok := products[line.productID]; !ok {
			return nil, entity.NewProductNotFoundError(line.productID)
		}
	}
	return products, nil
}

func (uc *CreateSaleUseCase) bumpMetrics(ctx context.Context, sale *entity.Sale) {
	if uc.metrics == nil {
		return
	}
	delta := entity.MetricsDelta{OrdersCount: 1, RevenueTotal: sale.Total}
	bumpCtx := context.WithoutCancel(ctx)

	uc.pending.Add(1)
	go func() {
		defer uc.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				uc.logger.Warn("metrics bump panicked",
					zap.String("sale_id", sale.ID.String()),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(bumpCtx, metricsBumpTimeout)
		defer cancel()
		if err := uc.metrics.Bump(ctx, sale.TenantID, sale.CreatedAt, delta); err != nil {
			uc.logger.Warn("metrics bump failed",
				zap.String("tenant_id", sale.TenantID.String()),
				zap.String("sale_id", sale.ID.String()),
				zap.Error(err),
			)
		}
	}()
}

func (uc *CreateSaleUseCase) aborted(req *request.CreateSaleRequest, err error) {
	code := "INTERNAL"
	fields := []zap.Field{zap.Error(err)}
	if req != nil {
		fields = append(fields, zap.String("tenant_id", req.TenantID.String()))
	}

	if saleErr, ok := entity.AsSaleError(err); ok {
		code = string(saleErr.Code)
		fields = append(fields, zap.String("code", code))
		if saleErr.ProductID != uuid.Nil {
			fields = append(fields, zap.String("product_id", saleErr.ProductID.String()))
		}
		uc.logger.Info("sale rejected", fields...)
	} else {
		uc.logger.Error("sale aborted", fields...)
	}

	if uc.instrumentation != nil {
		uc.instrumentation.SaleAborted(code)
	}
}

func adjustmentFrom(req *request.AdjustmentRequest) (entity.Adjustment, error) {
	if req == nil {
		return entity.NoAdjustment(), nil
	}
	return entity.NewAdjustment(req.Type, req.Value)
}

func optionalID(id *uuid.UUID) uuid.NullUUID {
	if id == nil || *id == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
