package criteria

import (
	"fmt"
	"strconv"
	"strings"

	domainCriteria "sales/src/shared/domain/criteria"
)

// SQLCriteriaConverter convierte un objeto Criteria en una consulta SQL
type SQLCriteriaConverter struct {
	allowed map[string]bool
}

// NewSQLCriteriaConverter crea el conversor. Si se pasan campos, solo esos se aceptan
// en filtros y ordenamiento.
func NewSQLCriteriaConverter(allowedFields ...string) *SQLCriteriaConverter {
	allowed := make(map[string]bool, len(allowedFields))
	for _, field := range allowedFields {
		allowed[field] = true
	}
	return &SQLCriteriaConverter{allowed: allowed}
}

// ToSelectSQL convierte un criteria a una consulta SQL SELECT completa con sus parámetros
func (s *SQLCriteriaConverter) ToSelectSQL(baseQuery string, criteria domainCriteria.Criteria) (string, []interface{}, error) {
	if err := s.validate(criteria); err != nil {
		return "", nil, err
	}

	parts := []string{baseQuery}
	var params []interface{}

	if !criteria.Filters.IsEmpty() {
		whereClause, whereParams := s.buildWhereClause(criteria.Filters)
		parts = append(parts, whereClause)
		params = append(params, whereParams...)
	}

	if !criteria.Order.IsEmpty() {
		parts = append(parts, s.buildOrderClause(criteria.Order))
	}

	if criteria.Limit != nil && criteria.Offset != nil {
		parts = append(parts, s.buildLimitClause(*criteria.Limit, *criteria.Offset))
	}

	return strings.Join(parts, " "), params, nil
}

// ToCountSQL convierte un criteria a una consulta SQL COUNT con sus parámetros
func (s *SQLCriteriaConverter) ToCountSQL(baseCountQuery string, criteria domainCriteria.Criteria) (string, []interface{}, error) {
	if err := s.validate(criteria); err != nil {
		return "", nil, err
	}

	parts := []string{baseCountQuery}
	var params []interface{}

	if !criteria.Filters.IsEmpty() {
		whereClause, whereParams := s.buildWhereClause(criteria.Filters)
		parts = append(parts, whereClause)
		params = append(params, whereParams...)
	}

	return strings.Join(parts, " "), params, nil
}

func (s *SQLCriteriaConverter) validate(criteria domainCriteria.Criteria) error {
	if len(s.allowed) == 0 {
		return nil
	}
	for _, filter := range criteria.Filters.Items {
		if !s.allowed[filter.Field] {
			return fmt.Errorf("filter field %q not allowed", filter.Field)
		}
	}
	if !criteria.Order.IsEmpty() && !s.allowed[criteria.Order.Field] {
		return fmt.Errorf("order field %q not allowed", criteria.Order.Field)
	}
	if criteria.Order.Tiebreak != "" && !s.allowed[criteria.Order.Tiebreak] {
		return fmt.Errorf("order field %q not allowed", criteria.Order.Tiebreak)
	}
	return nil
}

// buildWhereClause construye la cláusula WHERE con sus parámetros
func (s *SQLCriteriaConverter) buildWhereClause(filters domainCriteria.Filters) (string, []interface{}) {
	var conditions []string
	var params []interface{}

	for i, filter := range filters.Items {
		condition, value := s.processFilterWithIndex(filter, i+1)
		conditions = append(conditions, condition)
		params = append(params, value)
	}

	return fmt.Sprintf("WHERE %s", strings.Join(conditions, " AND ")), params
}

// buildOrderClause construye la cláusula ORDER BY
func (s *SQLCriteriaConverter) buildOrderClause(order domainCriteria.Order) string {
	direction := domainCriteria.ASC
	if order.OrderType == domainCriteria.DESC {
		direction = domainCriteria.DESC
	}
	clause := fmt.Sprintf("ORDER BY %s %s", order.Field, direction)
	if order.Tiebreak != "" {
		clause += fmt.Sprintf(", %s %s", order.Tiebreak, direction)
	}
	return clause
}

// buildLimitClause construye la cláusula LIMIT y OFFSET
func (s *SQLCriteriaConverter) buildLimitClause(limit, offset int) string {
	return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
}

// likeEscaper el valor buscado se toma literal: % y _ no son comodines
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// processFilterWithIndex convierte un filtro en una condición SQL con índice de parámetro
func (s *SQLCriteriaConverter) processFilterWithIndex(filter domainCriteria.Filter, paramIndex int) (string, interface{}) {
	placeholder := "$" + strconv.Itoa(paramIndex)

	switch filter.Operator {
	case domainCriteria.OpEqual, domainCriteria.OpNotEqual, domainCriteria.OpGreaterThan,
		domainCriteria.OpGreaterThanOrEqual, domainCriteria.OpLessThan, domainCriteria.OpLessThanOrEqual:
		return fmt.Sprintf("%s %s %s", filter.Field, filter.Operator, placeholder), filter.Value
	case domainCriteria.OpLike:
		value := filter.Value
		if str, ok := value.(string); ok {
			value = "%" + likeEscaper.Replace(str) + "%"
		}
		return fmt.Sprintf("%s ILIKE %s", filter.Field, placeholder), value
	default:
		return fmt.Sprintf("%s = %s", filter.Field, placeholder), filter.Value
	}
}
