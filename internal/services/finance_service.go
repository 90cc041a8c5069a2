package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yurovdigital/bakery-management-system/internal/cache"
	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

const resourceTransactions = "financial-transactions"

// FinanceService управляет финансовыми транзакциями и отчетностью
type FinanceService struct {
	api   *strapi.Client
	cache *cache.QueryCache
	now   func() time.Time
}

// NewFinanceService создает новый экземпляр FinanceService
func NewFinanceService(api *strapi.Client, qc *cache.QueryCache) *FinanceService {
	return &FinanceService{api: api, cache: qc, now: time.Now}
}

// transactionListOptions собирает параметры списка транзакций с фильтрами
func transactionListOptions(page, pageSize int, typ models.TransactionType, category string) strapi.ListOptions {
	opts := strapi.ListOptions{
		Page:     page,
		PageSize: pageSize,
		Sort:     []string{"date:desc"},
		Populate: []string{"order"},
		Filters:  map[string]string{},
	}
	if typ != "" {
		opts.Filters["filters[type][$eq]"] = string(typ)
	}
	if category != "" {
		opts.Filters["filters[category][$eq]"] = category
	}
	return opts
}

// List получает страницу транзакций, отсортированных по дате (новые сверху)
func (s *FinanceService) List(ctx context.Context, page, pageSize int, typ models.TransactionType, category string) ([]models.FinancialTransaction, strapi.Pagination) {
	opts := transactionListOptions(page, pageSize, typ, category)
	key := cache.ListKey(resourceTransactions, opts)

	resp, ok := s.cache.GetList(ctx, key)
	if !ok {
		resp = s.api.List(ctx, resourceTransactions, opts)
		s.cache.SetList(ctx, key, resp)
	}

	transactions := make([]models.FinancialTransaction, 0, len(resp.Data))
	for _, rec := range resp.Data {
		transactions = append(transactions, transactionFromRecord(rec))
	}
	return transactions, resp.Meta.Pagination
}

// Create создает транзакцию (fail-hard: форма должна увидеть отказ CMS)
func (s *FinanceService) Create(ctx context.Context, tx models.FinancialTransaction) (*models.FinancialTransaction, error) {
	if tx.Amount == 0 {
		return nil, fmt.Errorf("сумма транзакции обязательна")
	}
	if tx.Type != models.TransactionTypeIncome && tx.Type != models.TransactionTypeExpense {
		return nil, fmt.Errorf("направление транзакции должно быть income или expense")
	}
	if tx.Category != "" && !models.ValidTransactionCategory(tx.Category) {
		return nil, fmt.Errorf("неизвестная категория: %s", tx.Category)
	}
	if tx.Date == "" {
		tx.Date = s.now().Format("2006-01-02")
	}

	payload := toPayload(tx)
	if tx.OrderID != 0 {
		delete(payload, "orderId")
		payload["order"] = tx.OrderID
	}

	rec, err := s.api.Create(ctx, resourceTransactions, payload)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateResource(ctx, resourceTransactions)

	created := transactionFromRecord(rec)
	return &created, nil
}

// Delete удаляет транзакцию
func (s *FinanceService) Delete(ctx context.Context, id int) error {
	if _, err := s.api.Delete(ctx, resourceTransactions, id); err != nil {
		return err
	}
	s.cache.InvalidateResource(ctx, resourceTransactions)
	return nil
}

// Stats сводка доход/расход/прибыль за период (month или year)
func (s *FinanceService) Stats(ctx context.Context, period string) (*models.FinancialStats, error) {
	if period != "month" && period != "year" {
		return nil, fmt.Errorf("период должен быть month или year")
	}

	now := s.now()
	var since time.Time
	if period == "month" {
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		since = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	}

	stats := &models.FinancialStats{Period: period}
	for _, tx := range s.collectSince(ctx, since) {
		stats.Count++
		switch tx.Type {
		case models.TransactionTypeIncome:
			stats.Income += tx.Amount
		case models.TransactionTypeExpense:
			stats.Expense += tx.Amount
		}
	}
	stats.Profit = stats.Income - stats.Expense
	return stats, nil
}

// ChartData ряд доход/расход по месяцам за последние months месяцев
// Месяцы без транзакций присутствуют в ряду с нулями
func (s *FinanceService) ChartData(ctx context.Context, months int) ([]models.MonthlyFinancePoint, error) {
	if months < 1 {
		months = 6
	}
	if months > 36 {
		months = 36
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	points := make([]models.MonthlyFinancePoint, months)
	index := make(map[string]*models.MonthlyFinancePoint, months)
	for i := 0; i < months; i++ {
		month := since.AddDate(0, i, 0).Format("2006-01")
		points[i] = models.MonthlyFinancePoint{Month: month}
		index[month] = &points[i]
	}

	for _, tx := range s.collectSince(ctx, since) {
		date, err := time.Parse("2006-01-02", tx.Date)
		if err != nil {
			// CMS может отдавать дату с временем
			if date, err = time.Parse(time.RFC3339, tx.Date); err != nil {
				continue
			}
		}
		point, ok := index[date.Format("2006-01")]
		if !ok {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			point.Income += tx.Amount
		case models.TransactionTypeExpense:
			point.Expense += tx.Amount
		}
	}
	return points, nil
}

// ExportXLSX выгружает транзакции в Excel-книгу для отчетности
func (s *FinanceService) ExportXLSX(ctx context.Context, typ models.TransactionType, category string) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Транзакции"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Дата", "Описание", "Категория", "Тип", "Сумма"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	page := 1
	for {
		opts := transactionListOptions(page, 100, typ, category)
		resp := s.api.List(ctx, resourceTransactions, opts)
		for _, rec := range resp.Data {
			tx := transactionFromRecord(rec)
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), tx.Date)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), tx.Description)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), tx.Category)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), string(tx.Type))
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), tx.Amount)
			row++
		}
		if page >= resp.Meta.Pagination.PageCount || len(resp.Data) == 0 {
			break
		}
		page++
	}

	if row == 2 {
		return f, fmt.Errorf("нет транзакций для выгрузки")
	}
	return f, nil
}

// collectSince собирает все транзакции не старше since, постранично
// Чтение fail-soft: недоступная CMS дает пустую сводку, а не ошибку
func (s *FinanceService) collectSince(ctx context.Context, since time.Time) []models.FinancialTransaction {
	var all []models.FinancialTransaction
	page := 1
	for {
		opts := strapi.ListOptions{
			Page:     page,
			PageSize: 100,
			Sort:     []string{"date:desc"},
			Filters: map[string]string{
				"filters[date][$gte]": since.Format("2006-01-02"),
			},
		}
		resp := s.api.List(ctx, resourceTransactions, opts)
		for _, rec := range resp.Data {
			all = append(all, transactionFromRecord(rec))
		}
		if page >= resp.Meta.Pagination.PageCount || len(resp.Data) == 0 {
			break
		}
		page++
	}
	return all
}

// transactionFromRecord собирает транзакцию из плоской записи
func transactionFromRecord(rec strapi.Record) models.FinancialTransaction {
	var tx models.FinancialTransaction
	if err := strapi.Decode(withoutFields(rec, "order"), &tx); err != nil {
		return models.FinancialTransaction{ID: rec.ID()}
	}
	tx.ID = rec.ID()

	if order := strapi.Relation(rec, "order"); order != nil {
		tx.OrderID = order.ID()
	}
	return tx
}
