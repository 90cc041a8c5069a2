package models

// TransactionType направление финансовой транзакции
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"  // Доход
	TransactionTypeExpense TransactionType = "expense" // Расход
)

// Категории транзакций, как они заведены в CMS
var TransactionCategories = []string{
	"Торты",
	"Капкейки",
	"Моти",
	"Разное",
	"Ингредиенты",
	"Упаковка",
	"Аренда",
	"Коммунальные",
}

// ValidTransactionCategory проверяет принадлежность категории справочнику
func ValidTransactionCategory(category string) bool {
	for _, c := range TransactionCategories {
		if c == category {
			return true
		}
	}
	return false
}

// FinancialTransaction финансовая транзакция, опционально привязанная к заказу
type FinancialTransaction struct {
	ID          int             `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	OrderID     int             `json:"orderId,omitempty"`
}

// FinancialStats сводка за период
type FinancialStats struct {
	Period  string  `json:"period"` // month | year
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
	Count   int     `json:"count"`
}

// MonthlyFinancePoint точка графика доход/расход по месяцам
type MonthlyFinancePoint struct {
	Month   string  `json:"month"` // YYYY-MM
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}
