package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildQueryDefaultsToActiveOnly(t *testing.T) {
	assert.Equal(t, "@is_active:{1}", BuildQuery(Query{}))
}

func TestBuildQueryWithTerm(t *testing.T) {
	q := BuildQuery(Query{Term: "desk lamp"})
	assert.Equal(t, "(desk lamp) @is_active:{1}", q)
}

func TestBuildQuerySanitizesOperators(t *testing.T) {
	// query syntax in user input must not leak through
	q := BuildQuery(Query{Term: `lamp @price:[0 0] | *`})
	assert.Equal(t, "(lamp price 0 0) @is_active:{1}", q)
}

func TestBuildQueryCategoryFilter(t *testing.T) {
	q := BuildQuery(Query{CategoryID: 3})
	assert.Equal(t, "@is_active:{1} @category_id:{3}", q)
}

func TestBuildQueryPriceRange(t *testing.T) {
	assert.Equal(t,
		"@is_active:{1} @price:[10 50]",
		BuildQuery(Query{MinPrice: floatPtr(10), MaxPrice: floatPtr(50)}),
	)

	assert.Equal(t,
		"@is_active:{1} @price:[-inf 50]",
		BuildQuery(Query{MaxPrice: floatPtr(50)}),
	)

	assert.Equal(t,
		"@is_active:{1} @price:[10 +inf]",
		BuildQuery(Query{MinPrice: floatPtr(10)}),
	)
}

func TestBuildQueryInStock(t *testing.T) {
	q := BuildQuery(Query{InStock: true})
	assert.Equal(t, "@is_active:{1} @stock_quantity:[1 +inf]", q)
}

func TestBuildQueryCombined(t *testing.T) {
	q := BuildQuery(Query{
		Term:       "lamp",
		CategoryID: 2,
		MinPrice:   floatPtr(5),
		MaxPrice:   floatPtr(100),
		InStock:    true,
	})
	assert.Equal(t, "(lamp) @is_active:{1} @category_id:{2} @price:[5 100] @stock_quantity:[1 +inf]", q)
}

func TestSanitizeTerm(t *testing.T) {
	assert.Equal(t, "desk lamp", sanitizeTerm("  desk   lamp  "))
	assert.Equal(t, "lamp 2000", sanitizeTerm("lamp-2000"))
	assert.Equal(t, "", sanitizeTerm("@{}[]|*"))
}

func TestDocFromFields(t *testing.T) {
	doc := docFromFields("product:doc:42", "product:doc:", map[string]string{
		"title":          "Desk Lamp",
		"description":    "Warm light",
		"price":          "99.5",
		"stock_quantity": "7",
		"is_active":      "1",
		"category_id":    "3",
		"category_title": "Lighting",
		"created_at":     "1700000000",
	})

	assert.Equal(t, uint(42), doc.ID)
	assert.Equal(t, "Desk Lamp", doc.Title)
	assert.InDelta(t, 99.5, doc.Price, 0.001)
	assert.Equal(t, 7, doc.StockQuantity)
	assert.True(t, doc.IsActive)
	assert.Equal(t, uint(3), doc.CategoryID)
	assert.Equal(t, "Lighting", doc.CategoryTitle)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), doc.CreatedAtTime())
}
