package criteria

import (
	"testing"

	domainCriteria "sales/src/shared/domain/criteria"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSelectSQL(t *testing.T) {
	converter := NewSQLCriteriaConverter("tenant_id", "branch_id", "created_at", "sequence", "sale_number")
	limit, offset := 20, 40

	c := domainCriteria.NewCriteria(
		domainCriteria.NewFilters(
			domainCriteria.NewFilter("tenant_id", domainCriteria.OpEqual, "t-1"),
			domainCriteria.NewFilter("branch_id", domainCriteria.OpEqual, "b-1"),
			domainCriteria.NewFilter("created_at", domainCriteria.OpGreaterThanOrEqual, "2024-01-01"),
			domainCriteria.NewFilter("sale_number", domainCriteria.OpLike, "v-0001"),
		),
		domainCriteria.NewOrder("created_at", domainCriteria.DESC).ThenBy("sequence"),
		&limit, &offset,
	)

	query, params, err := converter.ToSelectSQL("SELECT id FROM sales", c)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id FROM sales WHERE tenant_id = $1 AND branch_id = $2 AND created_at >= $3 AND sale_number ILIKE $4 "+
			"ORDER BY created_at DESC, sequence DESC LIMIT 20 OFFSET 40",
		query)
	assert.Equal(t, []interface{}{"t-1", "b-1", "2024-01-01", "%v-0001%"}, params)

	count, countParams, err := converter.ToCountSQL("SELECT COUNT(*) FROM sales", c)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM sales WHERE tenant_id = $1 AND branch_id = $2 AND created_at >= $3 AND sale_number ILIKE $4", count)
	assert.Equal(t, params, countParams)
}

func TestLikeValueIsLiteral(t *testing.T) {
	converter := NewSQLCriteriaConverter()

	_, params, err := converter.ToSelectSQL("SELECT id FROM sales", domainCriteria.NewCriteria(
		domainCriteria.NewFilters(domainCriteria.NewFilter("sale_number", domainCriteria.OpLike, `50%_off\`)),
		domainCriteria.Order{}, nil, nil,
	))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{`%50\%\_off\\%`}, params)
}

func TestToSelectSQLRejectsUnknownFields(t *testing.T) {
	converter := NewSQLCriteriaConverter("tenant_id")

	_, _, err := converter.ToSelectSQL("SELECT 1", domainCriteria.NewCriteria(
		domainCriteria.NewFilters(domainCriteria.NewFilter("1=1; DROP TABLE sales; --", domainCriteria.OpEqual, 1)),
		domainCriteria.Order{}, nil, nil,
	))
	assert.Error(t, err)

	_, _, err = converter.ToSelectSQL("SELECT 1", domainCriteria.NewCriteria(
		domainCriteria.NewFilters(), domainCriteria.NewOrder("total", domainCriteria.ASC), nil, nil,
	))
	assert.Error(t, err)
}

func TestToSelectSQLWithoutClauses(t *testing.T) {
	query, params, err := NewSQLCriteriaConverter().ToSelectSQL("SELECT 1", domainCriteria.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", query)
	assert.Empty(t, params)
}
