package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurovdigital/bakery-management-system/internal/models"
)

func TestRecipeService_CreateComputesCost(t *testing.T) {
	var recipePayload map[string]interface{}
	var linkPayloads []map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/ingredients/1", func(w http.ResponseWriter, r *http.Request) {
		// 1000 г за 450 ₽ — 0.45 ₽/г
		w.Write([]byte(`{"data": {"id": 1, "attributes": {"name": "Творожный сыр", "packageUnit": "г", "packageSize": 1000, "packagePrice": 450}}}`))
	})
	mux.HandleFunc("GET /api/ingredients/2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": 2, "attributes": {"name": "Мука пшеничная", "packageUnit": "г", "packageSize": 2000, "packagePrice": 120, "pricePerUnit": 0.06}}}`))
	})
	mux.HandleFunc("POST /api/recipes", func(w http.ResponseWriter, r *http.Request) {
		recipePayload = readData(t, r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data": {"id": 9, "attributes": {"name": "Чизкейк"}}}`))
	})
	mux.HandleFunc("POST /api/recipe-ingredients", func(w http.ResponseWriter, r *http.Request) {
		linkPayloads = append(linkPayloads, readData(t, r))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(fmt.Sprintf(`{"data": {"id": %d}}`, len(linkPayloads))))
	})

	svc := NewRecipeService(newTestAPI(t, mux), nil)

	created, err := svc.Create(context.Background(),
		models.Recipe{Name: "Чизкейк", Type: models.ProductTypeCake},
		[]RecipeLink{
			{IngredientID: 1, Amount: 200}, // 200 × 0.45 = 90
			{IngredientID: 2, Amount: 300}, // 300 × 0.06 = 18
		})
	require.NoError(t, err)

	assert.Equal(t, 9, created.ID)
	assert.InDelta(t, 108.0, created.Cost, 1e-9)
	// Цена не задана — производная 2× себестоимости
	assert.InDelta(t, 216.0, created.Price, 1e-9)

	require.NotNil(t, recipePayload)
	assert.InDelta(t, 108.0, recipePayload["cost"].(float64), 1e-9)

	require.Len(t, linkPayloads, 2)
	assert.Equal(t, float64(9), linkPayloads[0]["recipe"])
	assert.Equal(t, float64(1), linkPayloads[0]["ingredient"])
	assert.InDelta(t, 90.0, linkPayloads[0]["cost"].(float64), 1e-9)
	assert.Equal(t, "г", linkPayloads[0]["unit"], "единица наследуется от ингредиента")
	assert.InDelta(t, 18.0, linkPayloads[1]["cost"].(float64), 1e-9)
}

func TestRecipeService_CreateUnknownIngredient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/ingredients/99", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	svc := NewRecipeService(newTestAPI(t, mux), nil)

	_, err := svc.Create(context.Background(),
		models.Recipe{Name: "Тест"},
		[]RecipeLink{{IngredientID: 99, Amount: 100}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "не найден")
}

func TestRecipeService_GetResolvesLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/recipes/9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "recipeIngredients.ingredient", r.URL.Query().Get("populate"))
		w.Write([]byte(`{
			"data": {
				"id": 9,
				"attributes": {
					"name": "Чизкейк", "type": "cake", "cost": 108, "price": 216,
					"recipeIngredients": {"data": [
						{"id": 1, "attributes": {
							"amount": 200, "cost": 90,
							"ingredient": {"data": {"id": 1, "attributes": {"name": "Творожный сыр", "packageUnit": "г"}}}
						}}
					]}
				}
			}
		}`))
	})

	svc := NewRecipeService(newTestAPI(t, mux), nil)

	recipe := svc.Get(context.Background(), 9)
	require.NotNil(t, recipe)
	assert.Equal(t, models.ProductTypeCake, recipe.Type)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, 1, recipe.Ingredients[0].IngredientID)
	assert.Equal(t, "Творожный сыр", recipe.Ingredients[0].Name)
	assert.Equal(t, models.UnitGram, recipe.Ingredients[0].Unit)
	assert.InDelta(t, 90.0, recipe.Ingredients[0].Cost, 1e-9)

	margin := models.Margin(recipe.Price, recipe.Cost)
	require.NotNil(t, margin)
	assert.InDelta(t, 50.0, *margin, 1e-9)
}

func TestRecipeService_Options(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/recipes/3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": 3, "attributes": {"name": "Моти", "type": "mochi"}}}`))
	})

	svc := NewRecipeService(newTestAPI(t, mux), nil)

	options, found := svc.Options(context.Background(), 3)
	require.True(t, found)
	assert.Equal(t, []string{"4 шт", "6 шт", "9 шт", "12 шт"}, options)
}
