package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricePerUnit(t *testing.T) {
	// Упаковка 1000 г за 450 ₽ — 0.45 ₽ за грамм
	got := PricePerUnit(1000, 450)
	require.NotNil(t, got)
	assert.InDelta(t, 0.45, *got, 1e-9)
}

func TestPricePerUnit_UndefinedWithoutPositiveSize(t *testing.T) {
	assert.Nil(t, PricePerUnit(0, 450))
	assert.Nil(t, PricePerUnit(-5, 450))
	assert.Nil(t, PricePerUnit(1000, 0))
}

func TestRecalcPricePerUnit(t *testing.T) {
	ing := Ingredient{Name: "Творожный сыр", PackageSize: 500, PackagePrice: 225}
	ing.RecalcPricePerUnit()
	require.NotNil(t, ing.PricePerUnit)
	assert.InDelta(t, 0.45, *ing.PricePerUnit, 1e-9)

	ing.PackageSize = 0
	ing.RecalcPricePerUnit()
	assert.Nil(t, ing.PricePerUnit)
}

func TestRecipeCostAndDerivedPrice(t *testing.T) {
	links := []RecipeIngredient{
		{Name: "Творожный сыр", Amount: 200, Cost: 12.50},
		{Name: "Мука пшеничная", Amount: 120, Cost: 7.30},
	}

	cost := RecipeCost(links)
	assert.InDelta(t, 19.80, cost, 1e-9)

	// Цена не задана — производная цена 2× себестоимости, маржа 50%
	price := DefaultPrice(cost)
	assert.InDelta(t, 39.60, price, 1e-9)

	margin := Margin(price, cost)
	require.NotNil(t, margin)
	assert.InDelta(t, 50.0, *margin, 1e-9)
}

func TestRecipeCost_RecomputeOnLinkRemoval(t *testing.T) {
	links := []RecipeIngredient{{Cost: 12.50}, {Cost: 7.30}}
	assert.InDelta(t, 19.80, RecipeCost(links), 1e-9)
	assert.InDelta(t, 12.50, RecipeCost(links[:1]), 1e-9)
	assert.Zero(t, RecipeCost(nil))
}

func TestMargin_UndefinedWithoutPositivePrice(t *testing.T) {
	assert.Nil(t, Margin(0, 10))
	assert.Nil(t, Margin(-1, 10))
}

func TestIngredientCost(t *testing.T) {
	ppu := 0.45
	assert.InDelta(t, 90.0, IngredientCost(200, &ppu), 1e-9)
	assert.Zero(t, IngredientCost(200, nil), "без цены за единицу вклад нулевой")
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{Name: "Наполеон", Option: "1 кг", Price: 600, Quantity: 1, Total: 600},
		{Name: "Капкейки", Option: "6 шт", Price: 450, Quantity: 1, Total: 450},
	}
	assert.InDelta(t, 1050.0, OrderTotal(items), 1e-9)
	assert.Zero(t, OrderTotal(nil))
}

func TestItemTotal(t *testing.T) {
	assert.InDelta(t, 1350.0, ItemTotal(450, 3), 1e-9)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusInProgress, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusInProgress, OrderStatusCompleted, true},
		{OrderStatusInProgress, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusCompleted, OrderStatusInProgress, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s → %s", tc.from, tc.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPending))
	assert.False(t, ValidOrderStatus("paused"))
}

func TestOptionsForType(t *testing.T) {
	assert.Equal(t, []string{"1 кг", "1.5 кг", "2 кг"}, OptionsForType(ProductTypeCake))
	assert.Equal(t, []string{"400г", "500г"}, OptionsForType(ProductTypeBentoCake))
	assert.Equal(t, []string{"6 шт", "9 шт", "12 шт"}, OptionsForType(ProductTypeCupcake))
	assert.Equal(t, []string{"4 шт", "6 шт", "9 шт", "12 шт"}, OptionsForType(ProductTypeMochi))
	assert.Empty(t, OptionsForType("pie"))
}

func TestValidTransactionCategory(t *testing.T) {
	assert.True(t, ValidTransactionCategory("Торты"))
	assert.True(t, ValidTransactionCategory("Коммунальные"))
	assert.False(t, ValidTransactionCategory("Криптовалюта"))
}
