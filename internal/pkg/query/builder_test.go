package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("reviews").
		Select("review_id", "product_id", "rating").
		Build()

	assert.Equal(t, "SELECT review_id, product_id, rating FROM reviews", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("reviews").Build()

	assert.Equal(t, "SELECT * FROM reviews", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_MultipleWhereConditions(t *testing.T) {
	stmt := From("reviews").
		Select("review_id").
		Where(Eq("product_id", "prod-1")).
		Where(Eq("user_id", "user-1")).
		Build()

	assert.Equal(t, "SELECT review_id FROM reviews WHERE product_id = @p0 AND user_id = @p1", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "prod-1",
		"p1": "user-1",
	}, stmt.Params)
}

func TestBuilder_Join(t *testing.T) {
	stmt := From("orders o").
		Select("o.order_id").
		Join("order_items i", "i.order_id = o.order_id").
		Where(Eq("o.user_id", "user-1")).
		Where(Eq("o.status", "COMPLETED")).
		Where(Eq("i.product_id", "prod-1")).
		Limit(1).
		Build()

	assert.Equal(t,
		"SELECT o.order_id FROM orders o JOIN order_items i ON i.order_id = o.order_id "+
			"WHERE o.user_id = @p0 AND o.status = @p1 AND i.product_id = @p2 LIMIT @limit",
		stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0":    "user-1",
		"p1":    "COMPLETED",
		"p2":    "prod-1",
		"limit": int64(1),
	}, stmt.Params)
}

func TestBuilder_OrderBy(t *testing.T) {
	t.Run("ascending", func(t *testing.T) {
		stmt := From("reviews").Select("review_id").OrderBy("created_at", Asc).Build()
		assert.Equal(t, "SELECT review_id FROM reviews ORDER BY created_at ASC", stmt.SQL)
	})

	t.Run("descending", func(t *testing.T) {
		stmt := From("reviews").Select("review_id").OrderBy("created_at", Desc).Build()
		assert.Equal(t, "SELECT review_id FROM reviews ORDER BY created_at DESC", stmt.SQL)
	})
}

func TestBuilder_Limit(t *testing.T) {
	stmt := From("reviews").
		Select("review_id").
		Limit(10).
		Build()

	assert.Equal(t, "SELECT review_id FROM reviews LIMIT @limit", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"limit": int64(10)}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	builder := From("reviews").
		Select("review_id", "rating").
		Where(Eq("product_id", "prod-1")).
		OrderBy("created_at", Desc).
		Limit(50)

	mainStmt := builder.Build()
	assert.Contains(t, mainStmt.SQL, "LIMIT @limit")

	countStmt := builder.Count().Build()
	assert.Equal(t, "SELECT COUNT(*) FROM reviews WHERE product_id = @p0", countStmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": "prod-1"}, countStmt.Params)

	// the original builder is untouched
	assert.Equal(t, mainStmt.SQL, builder.Build().SQL)
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("reviews").Select("review_id")

	stmt1 := base.Where(Eq("user_id", "user-1")).Build()
	stmt2 := base.Where(Eq("product_id", "prod-1")).Build()

	assert.Contains(t, stmt1.SQL, "user_id = @p0")
	assert.NotContains(t, stmt1.SQL, "product_id")

	assert.Contains(t, stmt2.SQL, "product_id = @p0")
	assert.NotContains(t, stmt2.SQL, "user_id")
}

func TestBuilder_ParamIndexAcrossConditions(t *testing.T) {
	stmt := From("orders").
		Select("order_id").
		Where(In("user_id", []string{"user-1"})).
		Where(Eq("status", "COMPLETED")).
		Build()

	assert.Equal(t, "SELECT order_id FROM orders WHERE user_id IN UNNEST(@p0) AND status = @p1", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": []string{"user-1"}, "p1": "COMPLETED"}, stmt.Params)
}

func TestCondition_In(t *testing.T) {
	ids := []string{"user-1", "user-2"}
	sql, params := In("user_id", ids).SQL(0)

	assert.Equal(t, "user_id IN UNNEST(@p0)", sql)
	assert.Equal(t, map[string]interface{}{"p0": ids}, params)
}

func TestBuilder_String(t *testing.T) {
	str := From("reviews").Select("review_id").Where(Eq("user_id", "user-1")).String()

	require.NotEmpty(t, str)
	assert.Contains(t, str, "SQL:")
	assert.Contains(t, str, "Params:")
	assert.Contains(t, str, "reviews")
}
