package memory

import (
	"context"
	"sort"
	"strings"

	"sales/src/pos/domain/entity"
	"sales/src/pos/domain/port"

	"github.com/google/uuid"
)

type branchRepository struct{ s *state }

func (r branchRepository) CountActive(_ context.Context, tenantID uuid.UUID) (int, error) {
	count := 0
	for _, active := range r.s.branches[tenantID] {
		if active {
			count++
		}
	}
	return count, nil
}

func (r branchRepository) Exists(_ context.Context, tenantID, branchID uuid.UUID) (bool, error) {
	return r.s.branches[tenantID][branchID], nil
}

type productRepository struct{ s *state }

func (r productRepository) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := r.s.products[id]
		if !ok || p.TenantID != tenantID {
			continue
		}
		p.Stock = r.s.stock[entity.GlobalStockScope().Key(tenantID, id)]
		out = append(out, p)
	}
	return out, nil
}

type stockRepository struct{ s *state }

func (r stockRepository) LockForSale(_ context.Context, tenantID uuid.UUID, scope entity.StockScope, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(productIDs))
	for _, id := range productIDs {
		out[id] = r.s.stock[scope.Key(tenantID, id)]
	}
	return out, nil
}

func (r stockRepository) Decrement(_ context.Context, key entity.StockKey, quantity int) (int, error) {
	r.s.stock[key] -= quantity
	return r.s.stock[key], nil
}

func (r stockRepository) AppendMovement(_ context.Context, movement *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r stockRepository) ListMovements(_ context.Context, key entity.StockKey) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.s.movements {
		if m.Key() == key {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r stockRepository) Current(_ context.Context, key entity.StockKey) (int, error) {
	return r.s.stock[key], nil
}

type sequenceRepository struct{ s *state }

func (r sequenceRepository) NextValue(_ context.Context, tenantID uuid.UUID, counter string) (int64, error) {
	key := counterKey{tenantID: tenantID, name: counter}
	r.s.counters[key]++
	return r.s.counters[key], nil
}

type saleRepository struct{ s *state }

func (r saleRepository) Create(_ context.Context, sale *entity.Sale) error {
	r.s.sales[sale.ID] = sale
	return nil
}

func (r saleRepository) FindByID(_ context.Context, tenantID, saleID uuid.UUID) (*entity.Sale, error) {
	sale, ok := r.s.sales[saleID]
	if !ok || sale.TenantID != tenantID {
		return nil, entity.ErrSaleNotFound
	}
	return sale, nil
}

func saleMatches(sale *entity.Sale, filter port.SaleFilter) bool {
	if sale.TenantID != filter.TenantID {
		return false
	}
	if filter.BranchID.Valid && sale.BranchID != filter.BranchID {
		return false
	}
	if filter.From != nil && sale.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !sale.CreatedAt.Before(*filter.To) {
		return false
	}
	if filter.Number != "" && !strings.Contains(strings.ToUpper(sale.SaleNumber), strings.ToUpper(filter.Number)) {
		return false
	}
	return true
}

func (r saleRepository) Count(_ context.Context, filter port.SaleFilter) (int, error) {
	total := 0
	for _, sale := range r.s.sales {
		if saleMatches(sale, filter) {
			total++
		}
	}
	return total, nil
}

func (r saleRepository) List(_ context.Context, filter port.SaleFilter) ([]*entity.Sale, error) {
	var matched []*entity.Sale
	for _, sale := range r.s.sales {
		if !saleMatches(sale, filter) {
			continue
		}
		header := *sale
		header.Items = nil
		matched = append(matched, &header)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Sequence > matched[j].Sequence
	})

	if filter.Offset >= len(matched) {
		return []*entity.Sale{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

type cashSessionRepository struct{ s *state }

// FindOpen la caja abierta más reciente; sin sucursal solo matchean cajas sin sucursal
func (r cashSessionRepository) FindOpen(_ context.Context, tenantID uuid.UUID, branchID uuid.NullUUID) (uuid.NullUUID, error) {
	var found *cashSession
	for i := range r.s.sessions {
		session := &r.s.sessions[i]
		if !session.open || session.tenantID != tenantID || session.branchID != branchID {
			continue
		}
		if found == nil || session.openedAt.After(found.openedAt) {
			found = session
		}
	}
	if found == nil {
		return uuid.NullUUID{}, nil
	}
	return uuid.NullUUID{UUID: found.id, Valid: true}, nil
}

type cashLedgerRepository struct{ s *state }

func (r cashLedgerRepository) Append(_ context.Context, entry *entity.CashLedgerEntry) error {
	r.s.ledger = append(r.s.ledger, *entry)
	return nil
}

func (r cashLedgerRepository) FindBySale(_ context.Context, tenantID, saleID uuid.UUID) ([]entity.CashLedgerEntry, error) {
	var out []entity.CashLedgerEntry
	for _, e := range r.s.ledger {
		if e.TenantID == tenantID && e.SaleID == saleID {
			out = append(out, e)
		}
	}
	return out, nil
}
