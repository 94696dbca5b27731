package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"sales/src/pos/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type counterKey struct {
	tenantID uuid.UUID
	name     string
}

type cashSession struct {
	id       uuid.UUID
	tenantID uuid.UUID
	branchID uuid.NullUUID
	open     bool
	openedAt time.Time
}

type rateKey struct {
	tenantID uuid.NullUUID
	from     string
	to       string
}

type metricsKey struct {
	tenantID uuid.UUID
	period   string
}

// MetricsRow agregado diario o mensual de un tenant
type MetricsRow struct {
	OrdersCount  int
	RevenueTotal decimal.Decimal
}

// state datos transaccionales. Cada unidad de trabajo opera sobre un clon.
type state struct {
	branches  map[uuid.UUID]map[uuid.UUID]bool
	products  map[uuid.UUID]entity.Product
	stock     map[entity.StockKey]int
	counters  map[counterKey]int64
	sales     map[uuid.UUID]*entity.Sale
	movements []entity.StockMovement
	sessions  []cashSession
	ledger    []entity.CashLedgerEntry
}

func newState() *state {
	return &state{
		branches: make(map[uuid.UUID]map[uuid.UUID]bool),
		products: make(map[uuid.UUID]entity.Product),
		stock:    make(map[entity.StockKey]int),
		counters: make(map[counterKey]int64),
		sales:    make(map[uuid.UUID]*entity.Sale),
	}
}

func (s *state) clone() *state {
	c := &state{
		branches:  make(map[uuid.UUID]map[uuid.UUID]bool, len(s.branches)),
		products:  make(map[uuid.UUID]entity.Product, len(s.products)),
		stock:     make(map[entity.StockKey]int, len(s.stock)),
		counters:  make(map[counterKey]int64, len(s.counters)),
		sales:     make(map[uuid.UUID]*entity.Sale, len(s.sales)),
		movements: append([]entity.StockMovement(nil), s.movements...),
		sessions:  append([]cashSession(nil), s.sessions...),
		ledger:    append([]entity.CashLedgerEntry(nil), s.ledger...),
	}
	for tenant, branches := range s.branches {
		inner := make(map[uuid.UUID]bool, len(branches))
		for id, active := range branches {
			inner[id] = active
		}
		c.branches[tenant] = inner
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	return c
}

// Store base en memoria para tests y corridas locales.
// Las unidades de trabajo se serializan y confirman reemplazando el estado completo.
type Store struct {
	mu    sync.Mutex
	state *state

	configMu sync.RWMutex
	features map[uuid.UUID]bool
	rates    map[rateKey]decimal.Decimal

	metricsMu sync.Mutex
	daily     map[metricsKey]MetricsRow
	monthly   map[metricsKey]MetricsRow
}

// NewStore crea un store vacío
func NewStore() *Store {
	return &Store{
		state:    newState(),
		features: make(map[uuid.UUID]bool),
		rates:    make(map[rateKey]decimal.Decimal),
		daily:    make(map[metricsKey]MetricsRow),
		monthly:  make(map[metricsKey]MetricsRow),
	}
}

// AddProduct agrega un producto; su Stock es el stock global
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[p.ID] = p
	s.state.stock[entity.GlobalStockScope().Key(p.TenantID, p.ID)] = p.Stock
}

// SetStock fija la cantidad de una clave de stock
func (s *Store) SetStock(key entity.StockKey, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.stock[key] = quantity
}

// AddBranch agrega una sucursal activa
func (s *Store) AddBranch(tenantID, branchID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.branches[tenantID] == nil {
		s.state.branches[tenantID] = make(map[uuid.UUID]bool)
	}
	s.state.branches[tenantID][branchID] = true
}

// DeleteBranch baja lógica de la sucursal
func (s *Store) DeleteBranch(tenantID, branchID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if branches := s.state.branches[tenantID]; branches != nil {
		branches[branchID] = false
	}
}

// OpenCashSession abre una caja para el tenant (y sucursal si viene)
func (s *Store) OpenCashSession(tenantID uuid.UUID, branchID uuid.NullUUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.state.sessions = append(s.state.sessions, cashSession{
		id:       id,
		tenantID: tenantID,
		branchID: branchID,
		open:     true,
		openedAt: time.Now().UTC(),
	})
	return id
}

// SetBranchesFeature habilita o deshabilita el stock por sucursal en el plan del tenant
func (s *Store) SetBranchesFeature(tenantID uuid.UUID, enabled bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.features[tenantID] = enabled
}

// SetExchangeRate carga una cotización; tenant inválido = cotización global
func (s *Store) SetExchangeRate(tenantID uuid.NullUUID, from, to string, rate decimal.Decimal) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rates[rateKey{tenantID: tenantID, from: strings.ToUpper(from), to: strings.ToUpper(to)}] = rate
}

// Stock cantidad actual de una clave
func (s *Store) Stock(key entity.StockKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.stock[key]
}

// Counter valor actual de un contador del tenant
func (s *Store) Counter(tenantID uuid.UUID, name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.counters[counterKey{tenantID: tenantID, name: name}]
}

// Sales ventas confirmadas del tenant ordenadas por número
func (s *Store) Sales(tenantID uuid.UUID) []*entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Sale
	for _, sale := range s.state.sales {
		if sale.TenantID == tenantID {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// Movements kardex completo del tenant
func (s *Store) Movements(tenantID uuid.UUID) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.state.movements {
		if m.TenantID == tenantID {
			out = append(out, m)
		}
	}
	return out
}

// CashEntries libro de caja del tenant
func (s *Store) CashEntries(tenantID uuid.UUID) []entity.CashLedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.CashLedgerEntry
	for _, e := range s.state.ledger {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out
}

// DailyMetrics agregado del día (UTC)
func (s *Store) DailyMetrics(tenantID uuid.UUID, day time.Time) MetricsRow {
	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()
	return s.daily[metricsKey{tenantID: tenantID, period: dayKey(day)}]
}

// MonthlyMetrics agregado del mes (UTC)
func (s *Store) MonthlyMetrics(tenantID uuid.UUID, month time.Time) MetricsRow {
	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()
	return s.monthly[metricsKey{tenantID: tenantID, period: monthKey(month)}]
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
