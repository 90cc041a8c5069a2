package models

// Client клиент пекарни
// Счетчики Orders и TotalSpent денормализованы и ведутся на стороне CMS
// (хуки заказов), здесь они только читаются
type Client struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email,omitempty"`
	Address    string  `json:"address,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	Orders     int     `json:"orders"`
	TotalSpent float64 `json:"totalSpent"`
}
