package services

import (
	"context"
	"fmt"

	"github.com/yurovdigital/bakery-management-system/internal/cache"
	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

const resourceIngredients = "ingredients"

// IngredientService управляет ингредиентами через CMS
type IngredientService struct {
	api   *strapi.Client
	cache *cache.QueryCache
}

// NewIngredientService создает новый экземпляр IngredientService
func NewIngredientService(api *strapi.Client, qc *cache.QueryCache) *IngredientService {
	return &IngredientService{api: api, cache: qc}
}

// List получает страницу ингредиентов (сквозное чтение через кеш)
func (s *IngredientService) List(ctx context.Context, page, pageSize int) ([]models.Ingredient, strapi.Pagination) {
	opts := strapi.ListOptions{Page: page, PageSize: pageSize}
	key := cache.ListKey(resourceIngredients, opts)

	resp, ok := s.cache.GetList(ctx, key)
	if !ok {
		resp = s.api.List(ctx, resourceIngredients, opts)
		s.cache.SetList(ctx, key, resp)
	}

	ingredients := make([]models.Ingredient, 0, len(resp.Data))
	for _, rec := range resp.Data {
		var ing models.Ingredient
		if err := strapi.Decode(rec, &ing); err != nil {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, resp.Meta.Pagination
}

// Get получает ингредиент по ID; nil, если запись отсутствует
func (s *IngredientService) Get(ctx context.Context, id int) *models.Ingredient {
	key := cache.DetailKey(resourceIngredients, id, nil)

	rec, ok := s.cache.GetRecord(ctx, key)
	if !ok {
		rec = s.api.Get(ctx, resourceIngredients, id)
		if rec == nil {
			return nil
		}
		s.cache.SetRecord(ctx, key, rec)
	}

	var ing models.Ingredient
	if err := strapi.Decode(rec, &ing); err != nil {
		return nil
	}
	return &ing
}

// Create создает ингредиент; цена за единицу пересчитывается перед записью,
// чтобы CMS всегда хранила актуальное производное значение
func (s *IngredientService) Create(ctx context.Context, ing models.Ingredient) (*models.Ingredient, error) {
	if ing.Name == "" {
		return nil, fmt.Errorf("название ингредиента обязательно")
	}
	ing.RecalcPricePerUnit()

	rec, err := s.api.Create(ctx, resourceIngredients, toPayload(ing))
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateResource(ctx, resourceIngredients)

	var created models.Ingredient
	if err := strapi.Decode(rec, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created ingredient: %w", err)
	}
	return &created, nil
}

// Update обновляет ингредиент
func (s *IngredientService) Update(ctx context.Context, id int, ing models.Ingredient) (*models.Ingredient, error) {
	ing.RecalcPricePerUnit()

	rec, err := s.api.Update(ctx, resourceIngredients, id, toPayload(ing))
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateResource(ctx, resourceIngredients)

	var updated models.Ingredient
	if err := strapi.Decode(rec, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated ingredient: %w", err)
	}
	return &updated, nil
}

// Delete удаляет ингредиент
func (s *IngredientService) Delete(ctx context.Context, id int) error {
	if _, err := s.api.Delete(ctx, resourceIngredients, id); err != nil {
		return err
	}
	s.cache.InvalidateResource(ctx, resourceIngredients)
	return nil
}
