package criteria

// Operator operador de comparación de un filtro
type Operator string

const (
	OpEqual              Operator = "="
	OpNotEqual           Operator = "!="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	// OpLike coincidencia parcial sin distinguir mayúsculas
	OpLike Operator = "LIKE"
)

// OrderType dirección del ordenamiento
type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Filter condición sobre un campo
type Filter struct {
	Field    string
	Operator Operator
	Value    interface{}
}

// NewFilter crea un filtro
func NewFilter(field string, operator Operator, value interface{}) Filter {
	return Filter{Field: field, Operator: operator, Value: value}
}

// Filters conjunto de filtros combinados con AND
type Filters struct {
	Items []Filter
}

// NewFilters crea un conjunto de filtros
func NewFilters(items ...Filter) Filters {
	return Filters{Items: items}
}

// Add agrega un filtro
func (f *Filters) Add(filter Filter) {
	f.Items = append(f.Items, filter)
}

// IsEmpty indica si no hay filtros
func (f Filters) IsEmpty() bool {
	return len(f.Items) == 0
}

// Order ordenamiento principal
type Order struct {
	Field     string
	OrderType OrderType
	// Tiebreak campo secundario, misma dirección
	Tiebreak string
}

// NewOrder crea un ordenamiento
func NewOrder(field string, orderType OrderType) Order {
	return Order{Field: field, OrderType: orderType}
}

// ThenBy agrega un campo de desempate con la misma dirección
func (o Order) ThenBy(field string) Order {
	o.Tiebreak = field
	return o
}

// IsEmpty indica si no hay ordenamiento
func (o Order) IsEmpty() bool {
	return o.Field == ""
}

// Criteria filtros, orden y paginación de una búsqueda
type Criteria struct {
	Filters Filters
	Order   Order
	Limit   *int
	Offset  *int
}

// NewCriteria crea un criteria
func NewCriteria(filters Filters, order Order, limit, offset *int) Criteria {
	return Criteria{Filters: filters, Order: order, Limit: limit, Offset: offset}
}
