package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

func TestListKey_Deterministic(t *testing.T) {
	opts := strapi.ListOptions{
		Page:     2,
		PageSize: 10,
		Filters: map[string]string{
			"filters[type][$eq]":     "expense",
			"filters[category][$eq]": "Аренда",
		},
		Sort: []string{"date:desc"},
	}

	first := ListKey("financial-transactions", opts)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ListKey("financial-transactions", opts),
			"ключ не должен зависеть от порядка обхода map")
	}
	assert.Contains(t, first, "bakery:query:financial-transactions:p2:ps10:")
}

func TestListKey_DistinguishesParams(t *testing.T) {
	base := strapi.ListOptions{Page: 1, PageSize: 25}
	filtered := strapi.ListOptions{Page: 1, PageSize: 25, Filters: map[string]string{"filters[type][$eq]": "income"}}

	assert.NotEqual(t, ListKey("orders", base), ListKey("orders", filtered))
	assert.NotEqual(t, ListKey("orders", base), ListKey("clients", base))
	assert.NotEqual(t,
		ListKey("orders", strapi.ListOptions{Page: 1}),
		ListKey("orders", strapi.ListOptions{Page: 2}))
}

func TestListKey_DefaultsPagination(t *testing.T) {
	assert.Equal(t,
		ListKey("orders", strapi.ListOptions{}),
		ListKey("orders", strapi.ListOptions{Page: 1, PageSize: 25}))
}

func TestDetailKey(t *testing.T) {
	plain := DetailKey("orders", 7, nil)
	populated := DetailKey("orders", 7, []string{"client", "orderItems.recipe"})

	assert.Contains(t, plain, "bakery:query:orders:id7:")
	assert.NotEqual(t, plain, populated, "набор populate участвует в ключе")
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *QueryCache
	ctx := context.Background()

	// nil-кеш не должен паниковать ни на одном пути
	_, ok := c.GetList(ctx, "k")
	assert.False(t, ok)
	c.SetList(ctx, "k", &strapi.ListResponse{})
	_, ok = c.GetRecord(ctx, "k")
	assert.False(t, ok)
	c.SetRecord(ctx, "k", strapi.Record{"id": 1})
	c.InvalidateResource(ctx, "orders")
}
