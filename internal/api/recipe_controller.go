package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/services"
)

// RecipeController управляет API endpoints для рецептов
type RecipeController struct {
	service *services.RecipeService
}

// NewRecipeController создает новый контроллер рецептов
func NewRecipeController(service *services.RecipeService) *RecipeController {
	return &RecipeController{service: service}
}

// recipeRequest тело запроса создания/обновления рецепта
// Позиции приходят ссылками на ингредиенты, себестоимость считает сервер
type recipeRequest struct {
	Name        string                `json:"name" binding:"required"`
	Type        models.ProductType    `json:"type" binding:"required"`
	Description string                `json:"description"`
	Price       float64               `json:"price"`
	Ingredients []services.RecipeLink `json:"ingredients"`
}

func (r recipeRequest) recipe() models.Recipe {
	return models.Recipe{
		Name:        r.Name,
		Type:        r.Type,
		Description: r.Description,
		Price:       r.Price,
	}
}

// GetRecipes получает список рецептов с раскрытыми позициями
// GET /api/v1/recipes?page=1&pageSize=25
func (rc *RecipeController) GetRecipes(c *gin.Context) {
	page, pageSize := parsePagination(c)
	recipes, pagination := rc.service.List(c.Request.Context(), page, pageSize)

	c.JSON(http.StatusOK, gin.H{
		"recipes":    recipes,
		"pagination": pagination,
	})
}

// GetRecipe получает рецепт по ID
// GET /api/v1/recipes/:id
func (rc *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	recipe := rc.service.Get(c.Request.Context(), id)
	if recipe == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Рецепт не найден",
		})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// GetRecipeOptions получает варианты фасовки для типа изделия рецепта
// GET /api/v1/recipes/:id/options
func (rc *RecipeController) GetRecipeOptions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	options, found := rc.service.Options(c.Request.Context(), id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Рецепт не найден",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"options": options})
}

// CreateRecipe создает рецепт вместе с позициями
// POST /api/v1/recipes
func (rc *RecipeController) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	created, err := rc.service.Create(c.Request.Context(), req.recipe(), req.Ingredients)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка создания рецепта",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateRecipe обновляет рецепт, заменяя позиции новым набором
// PUT /api/v1/recipes/:id
func (rc *RecipeController) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	updated, err := rc.service.Update(c.Request.Context(), id, req.recipe(), req.Ingredients)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка обновления рецепта",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteRecipe удаляет рецепт и его позиции
// DELETE /api/v1/recipes/:id
func (rc *RecipeController) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := rc.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка удаления рецепта",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Рецепт удален"})
}
