package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/services"
)

// OrderController управляет API endpoints для заказов
type OrderController struct {
	service *services.OrderService
}

// NewOrderController создает новый контроллер заказов
func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// GetOrders получает список заказов, опционально отфильтрованный по статусу
// GET /api/v1/orders?page=1&pageSize=25&status=pending
func (oc *OrderController) GetOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !models.ValidOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Неизвестный статус заказа",
		})
		return
	}

	orders, pagination := oc.service.List(c.Request.Context(), page, pageSize, status)

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": pagination,
	})
}

// GetOrder получает заказ по ID с раскрытым клиентом и позициями
// GET /api/v1/orders/:id
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order := oc.service.Get(c.Request.Context(), id)
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Заказ не найден",
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// CreateOrder создает заказ вместе с позициями
// POST /api/v1/orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req models.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	created, err := oc.service.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка создания заказа",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateOrderStatus переводит заказ в новый статус
// PATCH /api/v1/orders/:id/status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	updated, err := oc.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка смены статуса",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UpdateOrder частично обновляет поля заказа (дата доставки, адрес, заметки)
// PUT /api/v1/orders/:id
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}
	// Статус меняется только через отдельный endpoint с проверкой переходов
	delete(req, "status")

	updated, err := oc.service.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка обновления заказа",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteOrder удаляет заказ вместе с позициями
// DELETE /api/v1/orders/:id
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := oc.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка удаления заказа",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Заказ удален"})
}
