package models

// OrderStatus статус заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"     // Новый
	OrderStatusInProgress OrderStatus = "in-progress" // В работе
	OrderStatusCompleted  OrderStatus = "completed"   // Выполнен
	OrderStatusCancelled  OrderStatus = "cancelled"   // Отменен
)

// Допустимые переходы: pending → in-progress → completed,
// отмена возможна из pending и in-progress
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// ValidOrderStatus проверяет, что значение входит в перечисление статусов
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition проверяет допустимость перехода статуса
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem позиция заказа: рецепт, вариант фасовки, цена и количество
type OrderItem struct {
	ID       int     `json:"id"`
	RecipeID int     `json:"recipeId"`
	Name     string  `json:"name"`
	Option   string  `json:"option"` // Вариант фасовки, например "1 кг" или "6 шт"
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"` // price × quantity
}

// Order заказ клиента
type Order struct {
	ID           int         `json:"id"`
	ClientID     int         `json:"clientId"`
	Client       string      `json:"client"` // Имя клиента для отображения
	Items        []OrderItem `json:"products,omitempty"`
	Total        float64     `json:"total"`
	Date         string      `json:"date"`
	DeliveryDate string      `json:"deliveryDate"`
	Status       OrderStatus `json:"status"`
	Address      string      `json:"address,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// ItemTotal сумма позиции: цена × количество
func ItemTotal(price float64, quantity int) float64 {
	return price * float64(quantity)
}

// OrderTotal сумма заказа — сумма всех позиций
// Пересчитывается при каждом добавлении/удалении позиции
func OrderTotal(items []OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Total
	}
	return total
}
