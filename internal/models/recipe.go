package models

// ProductType тип продукта рецепта
type ProductType string

const (
	ProductTypeCake      ProductType = "cake"       // Торт
	ProductTypeBentoCake ProductType = "bento-cake" // Бенто-торт
	ProductTypeCupcake   ProductType = "cupcake"    // Капкейки
	ProductTypeMochi     ProductType = "mochi"      // Моти
)

// RecipeIngredient позиция рецепта: ссылка на ингредиент и расход
type RecipeIngredient struct {
	ID           int     `json:"id"`
	IngredientID int     `json:"ingredientId"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Unit         Unit    `json:"unit"`
	Cost         float64 `json:"cost"` // amount × цена ингредиента за единицу
}

// Recipe рецепт с себестоимостью и ценой продажи
type Recipe struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Type        ProductType        `json:"type"`
	Description string             `json:"description,omitempty"`
	Cost        float64            `json:"cost"`
	Price       float64            `json:"price"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty"`
}

// IngredientCost вклад позиции в себестоимость: расход × цена за единицу
func IngredientCost(amount float64, pricePerUnit *float64) float64 {
	if pricePerUnit == nil {
		return 0
	}
	return amount * *pricePerUnit
}

// RecipeCost себестоимость рецепта — сумма вкладов всех позиций
// Пересчитывается при каждом добавлении/удалении позиции
func RecipeCost(ingredients []RecipeIngredient) float64 {
	total := 0.0
	for _, ing := range ingredients {
		total += ing.Cost
	}
	return total
}

// DefaultPrice цена по умолчанию, если продавец не задал свою: 2 × себестоимость
func DefaultPrice(cost float64) float64 {
	return cost * 2
}

// Margin маржа в процентах: (цена − себестоимость) / цена × 100
// Не определена (nil) при цене <= 0
func Margin(price, cost float64) *float64 {
	if price <= 0 {
		return nil
	}
	v := (price - cost) / price * 100
	return &v
}

// OptionsForType варианты фасовки для типа продукта
// Подписи повторяют выбор в форме заказа
func OptionsForType(t ProductType) []string {
	switch t {
	case ProductTypeCake:
		return []string{"1 кг", "1.5 кг", "2 кг"}
	case ProductTypeBentoCake:
		return []string{"400г", "500г"}
	case ProductTypeCupcake:
		return []string{"6 шт", "9 шт", "12 шт"}
	case ProductTypeMochi:
		return []string{"4 шт", "6 шт", "9 шт", "12 шт"}
	default:
		return []string{}
	}
}
