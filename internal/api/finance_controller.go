package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/services"
)

// FinanceController управляет API endpoints для финансовых транзакций
type FinanceController struct {
	service *services.FinanceService
}

// NewFinanceController создает новый контроллер финансов
func NewFinanceController(service *services.FinanceService) *FinanceController {
	return &FinanceController{service: service}
}

// GetTransactions получает список транзакций с фильтрами
// GET /api/v1/finance/transactions?type=income&category=Торты&page=1
func (fc *FinanceController) GetTransactions(c *gin.Context) {
	page, pageSize := parsePagination(c)
	typ := models.TransactionType(c.Query("type"))
	category := c.Query("category")

	transactions, pagination := fc.service.List(c.Request.Context(), page, pageSize, typ, category)

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination":   pagination,
	})
}

// CreateTransaction создает новую финансовую транзакцию
// POST /api/v1/finance/transactions
func (fc *FinanceController) CreateTransaction(c *gin.Context) {
	var req models.FinancialTransaction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	created, err := fc.service.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка создания транзакции",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// DeleteTransaction удаляет транзакцию
// DELETE /api/v1/finance/transactions/:id
func (fc *FinanceController) DeleteTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := fc.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка удаления транзакции",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Транзакция удалена"})
}

// GetStats получает сводку доход/расход/прибыль за период
// GET /api/v1/finance/stats?period=month
func (fc *FinanceController) GetStats(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	stats, err := fc.service.Stats(c.Request.Context(), period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка получения статистики",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetChart получает помесячный ряд доход/расход для графика
// GET /api/v1/finance/chart?months=6
func (fc *FinanceController) GetChart(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))

	points, err := fc.service.ChartData(c.Request.Context(), months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Ошибка построения графика",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chart": points})
}

// ExportTransactions выгружает транзакции в Excel
// GET /api/v1/finance/export?type=expense&category=Ингредиенты
func (fc *FinanceController) ExportTransactions(c *gin.Context) {
	typ := models.TransactionType(c.Query("type"))
	category := c.Query("category")

	f, err := fc.service.ExportXLSX(c.Request.Context(), typ, category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка выгрузки транзакций",
			"details": err.Error(),
		})
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Printf("❌ Ошибка записи Excel файла в ответ: %v", err)
	}
}
