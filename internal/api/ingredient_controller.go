package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/services"
)

// IngredientController управляет API endpoints для ингредиентов
type IngredientController struct {
	service *services.IngredientService
}

// NewIngredientController создает новый контроллер ингредиентов
func NewIngredientController(service *services.IngredientService) *IngredientController {
	return &IngredientController{service: service}
}

// GetIngredients получает список ингредиентов
// GET /api/v1/ingredients?page=1&pageSize=25
func (ic *IngredientController) GetIngredients(c *gin.Context) {
	page, pageSize := parsePagination(c)
	ingredients, pagination := ic.service.List(c.Request.Context(), page, pageSize)

	c.JSON(http.StatusOK, gin.H{
		"ingredients": ingredients,
		"pagination":  pagination,
	})
}

// GetIngredient получает ингредиент по ID
// GET /api/v1/ingredients/:id
func (ic *IngredientController) GetIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ingredient := ic.service.Get(c.Request.Context(), id)
	if ingredient == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ингредиент не найден",
		})
		return
	}

	c.JSON(http.StatusOK, ingredient)
}

// CreateIngredient создает новый ингредиент
// POST /api/v1/ingredients
func (ic *IngredientController) CreateIngredient(c *gin.Context) {
	var req models.Ingredient
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	created, err := ic.service.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка создания ингредиента",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateIngredient обновляет ингредиент
// PUT /api/v1/ingredients/:id
func (ic *IngredientController) UpdateIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.Ingredient
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	updated, err := ic.service.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка обновления ингредиента",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteIngredient удаляет ингредиент
// DELETE /api/v1/ingredients/:id
func (ic *IngredientController) DeleteIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ic.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка удаления ингредиента",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ингредиент удален"})
}
