package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/services"
)

// ClientController управляет API endpoints для клиентов кондитерской
type ClientController struct {
	service *services.ClientService
}

// NewClientController создает новый контроллер клиентов
func NewClientController(service *services.ClientService) *ClientController {
	return &ClientController{service: service}
}

// GetClients получает список клиентов
// GET /api/v1/clients?page=1&pageSize=25
func (cc *ClientController) GetClients(c *gin.Context) {
	page, pageSize := parsePagination(c)
	clients, pagination := cc.service.List(c.Request.Context(), page, pageSize)

	c.JSON(http.StatusOK, gin.H{
		"clients":    clients,
		"pagination": pagination,
	})
}

// GetClient получает клиента по ID вместе с историей заказов
// GET /api/v1/clients/:id
func (cc *ClientController) GetClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	client := cc.service.Get(c.Request.Context(), id)
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Клиент не найден",
		})
		return
	}

	c.JSON(http.StatusOK, client)
}

// CreateClient создает нового клиента
// POST /api/v1/clients
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	created, err := cc.service.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка создания клиента",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateClient обновляет данные клиента
// PUT /api/v1/clients/:id
func (cc *ClientController) UpdateClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	updated, err := cc.service.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка обновления клиента",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteClient удаляет клиента
// DELETE /api/v1/clients/:id
func (cc *ClientController) DeleteClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := cc.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка удаления клиента",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Клиент удален"})
}
