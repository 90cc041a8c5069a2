package services

import (
	"context"
	"fmt"
	"log"

	"github.com/yurovdigital/bakery-management-system/internal/cache"
	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

const (
	resourceRecipes           = "recipes"
	resourceRecipeIngredients = "recipe-ingredients"
)

var recipePopulate = []string{"recipeIngredients.ingredient"}

// RecipeLink входные данные позиции рецепта: какой ингредиент и сколько
type RecipeLink struct {
	IngredientID int     `json:"ingredientId"`
	Amount       float64 `json:"amount"`
}

// RecipeService управляет рецептами и их связями с ингредиентами
type RecipeService struct {
	api   *strapi.Client
	cache *cache.QueryCache
}

// NewRecipeService создает новый экземпляр RecipeService
func NewRecipeService(api *strapi.Client, qc *cache.QueryCache) *RecipeService {
	return &RecipeService{api: api, cache: qc}
}

// List получает страницу рецептов с раскрытыми позициями
func (s *RecipeService) List(ctx context.Context, page, pageSize int) ([]models.Recipe, strapi.Pagination) {
	opts := strapi.ListOptions{Page: page, PageSize: pageSize, Populate: recipePopulate}
	key := cache.ListKey(resourceRecipes, opts)

	resp, ok := s.cache.GetList(ctx, key)
	if !ok {
		resp = s.api.List(ctx, resourceRecipes, opts)
		s.cache.SetList(ctx, key, resp)
	}

	recipes := make([]models.Recipe, 0, len(resp.Data))
	for _, rec := range resp.Data {
		recipes = append(recipes, recipeFromRecord(rec))
	}
	return recipes, resp.Meta.Pagination
}

// Get получает рецепт по ID с позициями; nil, если не найден
func (s *RecipeService) Get(ctx context.Context, id int) *models.Recipe {
	key := cache.DetailKey(resourceRecipes, id, recipePopulate)

	rec, ok := s.cache.GetRecord(ctx, key)
	if !ok {
		rec = s.api.Get(ctx, resourceRecipes, id, recipePopulate...)
		if rec == nil {
			return nil
		}
		s.cache.SetRecord(ctx, key, rec)
	}

	recipe := recipeFromRecord(rec)
	return &recipe
}

// Create создает рецепт и его позиции
// Порядок повторяет форму рецепта: сначала сам рецепт, затем по одной
// записи recipe-ingredients на каждый ингредиент; себестоимость
// пересчитывается из позиций, цена по умолчанию — 2× себестоимости
func (s *RecipeService) Create(ctx context.Context, recipe models.Recipe, links []RecipeLink) (*models.Recipe, error) {
	if recipe.Name == "" {
		return nil, fmt.Errorf("название рецепта обязательно")
	}

	resolved, cost, err := s.resolveLinks(ctx, links)
	if err != nil {
		return nil, err
	}
	recipe.Cost = cost
	if recipe.Price <= 0 {
		recipe.Price = models.DefaultPrice(cost)
	}
	recipe.Ingredients = nil // Позиции создаются отдельными записями

	created, err := s.api.Create(ctx, resourceRecipes, toPayload(recipe))
	if err != nil {
		return nil, err
	}
	recipeID := created.ID()

	for _, link := range resolved {
		payload := map[string]interface{}{
			"amount":     link.Amount,
			"unit":       link.Unit,
			"cost":       link.Cost,
			"ingredient": link.IngredientID,
			"recipe":     recipeID,
		}
		if _, err := s.api.Create(ctx, resourceRecipeIngredients, payload); err != nil {
			return nil, fmt.Errorf("рецепт %d создан, но позиция не добавлена: %w", recipeID, err)
		}
	}

	s.cache.InvalidateResource(ctx, resourceRecipes)

	recipe.ID = recipeID
	recipe.Ingredients = resolved
	return &recipe, nil
}

// Update обновляет рецепт; если переданы links, позиции заменяются
// целиком (старые удаляются, новые создаются) с пересчетом себестоимости
func (s *RecipeService) Update(ctx context.Context, id int, recipe models.Recipe, links []RecipeLink) (*models.Recipe, error) {
	if links != nil {
		resolved, cost, err := s.resolveLinks(ctx, links)
		if err != nil {
			return nil, err
		}
		recipe.Cost = cost
		if recipe.Price <= 0 {
			recipe.Price = models.DefaultPrice(cost)
		}

		// Удаляем прежние позиции
		existing := s.api.Get(ctx, resourceRecipes, id, recipePopulate...)
		for _, old := range strapi.RelationList(existing, "recipeIngredients") {
			if oldID := old.ID(); oldID != 0 {
				if _, err := s.api.Delete(ctx, resourceRecipeIngredients, oldID); err != nil {
					return nil, fmt.Errorf("не удалось удалить позицию %d: %w", oldID, err)
				}
			}
		}

		for _, link := range resolved {
			payload := map[string]interface{}{
				"amount":     link.Amount,
				"unit":       link.Unit,
				"cost":       link.Cost,
				"ingredient": link.IngredientID,
				"recipe":     id,
			}
			if _, err := s.api.Create(ctx, resourceRecipeIngredients, payload); err != nil {
				return nil, fmt.Errorf("позиция рецепта %d не добавлена: %w", id, err)
			}
		}
		recipe.Ingredients = resolved
	}

	ingredients := recipe.Ingredients
	recipe.Ingredients = nil
	rec, err := s.api.Update(ctx, resourceRecipes, id, toPayload(recipe))
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateResource(ctx, resourceRecipes)

	updated := recipeFromRecord(rec)
	if len(updated.Ingredients) == 0 {
		updated.Ingredients = ingredients
	}
	return &updated, nil
}

// Delete удаляет рецепт вместе с его позициями
func (s *RecipeService) Delete(ctx context.Context, id int) error {
	existing := s.api.Get(ctx, resourceRecipes, id, recipePopulate...)
	for _, link := range strapi.RelationList(existing, "recipeIngredients") {
		if linkID := link.ID(); linkID != 0 {
			if _, err := s.api.Delete(ctx, resourceRecipeIngredients, linkID); err != nil {
				log.Printf("⚠️ Рецепт %d: осиротевшая позиция %d не удалена: %v", id, linkID, err)
			}
		}
	}

	if _, err := s.api.Delete(ctx, resourceRecipes, id); err != nil {
		return err
	}
	s.cache.InvalidateResource(ctx, resourceRecipes)
	return nil
}

// Options возвращает варианты фасовки для типа продукта рецепта
func (s *RecipeService) Options(ctx context.Context, id int) ([]string, bool) {
	recipe := s.Get(ctx, id)
	if recipe == nil {
		return nil, false
	}
	return models.OptionsForType(recipe.Type), true
}

// resolveLinks загружает ингредиенты позиций и считает вклад каждой
// в себестоимость: расход × цена ингредиента за единицу
func (s *RecipeService) resolveLinks(ctx context.Context, links []RecipeLink) ([]models.RecipeIngredient, float64, error) {
	resolved := make([]models.RecipeIngredient, 0, len(links))
	for _, link := range links {
		rec := s.api.Get(ctx, resourceIngredients, link.IngredientID)
		if rec == nil {
			return nil, 0, fmt.Errorf("ингредиент %d не найден", link.IngredientID)
		}

		var ing models.Ingredient
		if err := strapi.Decode(rec, &ing); err != nil {
			return nil, 0, fmt.Errorf("failed to decode ingredient %d: %w", link.IngredientID, err)
		}
		if ing.PricePerUnit == nil {
			ing.RecalcPricePerUnit()
		}

		resolved = append(resolved, models.RecipeIngredient{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Amount:       link.Amount,
			Unit:         ing.PackageUnit, // Единица наследуется от ингредиента
			Cost:         models.IngredientCost(link.Amount, ing.PricePerUnit),
		})
	}
	return resolved, models.RecipeCost(resolved), nil
}

// recipeFromRecord собирает рецепт из плоской записи, раскрывая связи
func recipeFromRecord(rec strapi.Record) models.Recipe {
	var recipe models.Recipe
	if err := strapi.Decode(withoutFields(rec, "recipeIngredients", "ingredients"), &recipe); err != nil {
		return models.Recipe{ID: rec.ID()}
	}
	recipe.ID = rec.ID()

	links := strapi.RelationList(rec, "recipeIngredients")
	if len(links) == 0 {
		return recipe
	}

	recipe.Ingredients = make([]models.RecipeIngredient, 0, len(links))
	for _, link := range links {
		var item models.RecipeIngredient
		if err := strapi.Decode(link, &item); err != nil {
			continue
		}
		item.ID = link.ID()

		if ing := strapi.Relation(link, "ingredient"); ing != nil {
			item.IngredientID = ing.ID()
			if name, ok := ing["name"].(string); ok && item.Name == "" {
				item.Name = name
			}
			if unit, ok := ing["packageUnit"].(string); ok && item.Unit == "" {
				item.Unit = models.Unit(unit)
			}
		}
		recipe.Ingredients = append(recipe.Ingredients, item)
	}
	return recipe
}
