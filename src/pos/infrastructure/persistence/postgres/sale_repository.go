package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"
	domainCriteria "sales/src/shared/domain/criteria"
	"sales/src/shared/infrastructure/criteria"

	"github.com/google/uuid"
)

const saleColumns = `
	id, tenant_id, branch_id, cashier_id, sequence, sale_number, currency,
	subtotal_amount, discount_type, discount_value, discount_amount,
	surcharge_type, surcharge_value, surcharge_amount, total_amount,
	payment_method, notes, customer_id, created_at`

// SaleRepository implementa port.SaleRepository usando PostgreSQL
type SaleRepository struct {
	q         querier
	converter *criteria.SQLCriteriaConverter
}

// NewSaleRepository crea una nueva instancia del repositorio
func NewSaleRepository(q querier) *SaleRepository {
	return &SaleRepository{
		q:         q,
		converter: criteria.NewSQLCriteriaConverter("tenant_id", "branch_id", "created_at", "sequence", "sale_number"),
	}
}

// Create persiste la venta con sus items dentro de la transacción en curso
func (r *SaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	// 1. Insertar sale (aggregate root)
	querySale := `
		INSERT INTO sales (` + saleColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`

	_, err := r.q.ExecContext(ctx, querySale,
		sale.ID,
		sale.TenantID,
		sale.BranchID, // NULL en scope global
		sale.CashierID,
		sale.Sequence,
		sale.SaleNumber,
		sale.Currency,
		sale.Subtotal,
		string(sale.Discount.Type),
		sale.Discount.Value,
		sale.DiscountAmount,
		string(sale.Surcharge.Type),
		sale.Surcharge.Value,
		sale.SurchargeAmount,
		sale.Total,
		string(sale.PaymentMethod),
		sale.Notes,
		sale.CustomerID, // NULL = consumidor final
		sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sale number %s already taken for tenant: %w", sale.SaleNumber, err)
		}
		return fmt.Errorf("error creating sale: %w", err)
	}

	// 2. Insertar sale_items (entities)
	queryItem := `
		INSERT INTO sale_items (
			id, sale_id, tenant_id, branch_id, product_id, product_name, sku,
			quantity, unit_price, line_total, position
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	for i, item := range sale.Items {
		_, err = r.q.ExecContext(ctx, queryItem,
			item.ID,
			item.SaleID,
			item.TenantID,
			item.BranchID,
			item.ProductID,
			item.ProductName,
			item.SKU,
			item.Quantity,
			item.UnitPrice,
			item.LineTotal,
			i,
		)
		if err != nil {
			return fmt.Errorf("error creating sale_item for product %s: %w", item.ProductID, err)
		}
	}

	return nil
}

// FindByID venta con items; SALE_NOT_FOUND si no existe para el tenant
func (r *SaleRepository) FindByID(ctx context.Context, tenantID, saleID uuid.UUID) (*entity.Sale, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND id = $2`,
		tenantID, saleID,
	)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSaleNotFound
		}
		return nil, fmt.Errorf("error getting sale: %w", err)
	}

	items, err := r.findItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return sale, nil
}

// saleCriteria filtros del listado; limit/offset nil para el conteo
func saleCriteria(filter port.SaleFilter, limit, offset *int) domainCriteria.Criteria {
	filters := domainCriteria.NewFilters(
		domainCriteria.NewFilter("tenant_id", domainCriteria.OpEqual, filter.TenantID),
	)
	if filter.BranchID.Valid {
		filters.Add(domainCriteria.NewFilter("branch_id", domainCriteria.OpEqual, filter.BranchID.UUID))
	}
	if filter.From != nil {
		filters.Add(domainCriteria.NewFilter("created_at", domainCriteria.OpGreaterThanOrEqual, *filter.From))
	}
	if filter.To != nil {
		filters.Add(domainCriteria.NewFilter("created_at", domainCriteria.OpLessThan, *filter.To))
	}
	if filter.Number != "" {
		filters.Add(domainCriteria.NewFilter("sale_number", domainCriteria.OpLike, filter.Number))
	}

	return domainCriteria.NewCriteria(
		filters,
		domainCriteria.NewOrder("created_at", domainCriteria.DESC).ThenBy("sequence"),
		limit, offset,
	)
}

// List ventas del tenant sin items, más recientes primero
func (r *SaleRepository) List(ctx context.Context, filter port.SaleFilter) ([]*entity.Sale, error) {
	limit, offset := filter.Limit, filter.Offset
	c := saleCriteria(filter, &limit, &offset)

	query, params, err := r.converter.ToSelectSQL(`SELECT `+saleColumns+` FROM sales`, c)
	if err != nil {
		return nil, fmt.Errorf("error building sales query: %w", err)
	}

	rows, err := r.q.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("error querying sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}
	return sales, nil
}

// Count total del listado sin paginar
func (r *SaleRepository) Count(ctx context.Context, filter port.SaleFilter) (int, error) {
	query, params, err := r.converter.ToCountSQL(`SELECT COUNT(*) FROM sales`, saleCriteria(filter, nil, nil))
	if err != nil {
		return 0, fmt.Errorf("error building sales count: %w", err)
	}

	var total int
	if err := r.q.QueryRowContext(ctx, query, params...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting sales: %w", err)
	}
	return total, nil
}

func (r *SaleRepository) findItems(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT
			id, sale_id, tenant_id, branch_id, product_id, product_name, sku,
			quantity, unit_price, line_total
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY position
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("error querying sale_items: %w", err)
	}
	defer rows.Close()

	var items []entity.SaleItem
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.TenantID,
			&item.BranchID,
			&item.ProductID,
			&item.ProductName,
			&item.SKU,
			&item.Quantity,
			&item.UnitPrice,
			&item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("error scanning sale_item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale_items: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	sale := &entity.Sale{}
	var discountType, surchargeType, paymentMethod string
	err := row.Scan(
		&sale.ID,
		&sale.TenantID,
		&sale.BranchID,
		&sale.CashierID,
		&sale.Sequence,
		&sale.SaleNumber,
		&sale.Currency,
		&sale.Subtotal,
		&discountType,
		&sale.Discount.Value,
		&sale.DiscountAmount,
		&surchargeType,
		&sale.Surcharge.Value,
		&sale.SurchargeAmount,
		&sale.Total,
		&paymentMethod,
		&sale.Notes,
		&sale.CustomerID,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	sale.Discount.Type = entity.AdjustmentType(discountType)
	sale.Surcharge.Type = entity.AdjustmentType(surchargeType)
	sale.PaymentMethod = entity.PaymentMethod(paymentMethod)
	return sale, nil
}
