package models

// Unit единица измерения упаковки ингредиента
type Unit string

const (
	UnitGram       Unit = "г"  // Граммы
	UnitMilliliter Unit = "мл" // Миллилитры
	UnitPiece      Unit = "шт" // Штуки
)

// Ingredient ингредиент со стоимостью упаковки и производной ценой за единицу
type Ingredient struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	PackageSize  float64  `json:"packageSize"`
	PackageUnit  Unit     `json:"packageUnit"`
	PackagePrice float64  `json:"packagePrice"`
	PricePerUnit *float64 `json:"pricePerUnit"`
	InStock      bool     `json:"inStock"`
	Description  string   `json:"description,omitempty"`
}

// PricePerUnit цена за единицу: цена упаковки / размер упаковки
// Не определена (nil), пока размер и цена не положительны
func PricePerUnit(packageSize, packagePrice float64) *float64 {
	if packageSize <= 0 || packagePrice <= 0 {
		return nil
	}
	v := packagePrice / packageSize
	return &v
}

// RecalcPricePerUnit пересчитывает производное поле после правки зависимых
// Вызывается перед каждой записью в CMS, кешированного состояния нет
func (i *Ingredient) RecalcPricePerUnit() {
	i.PricePerUnit = PricePerUnit(i.PackageSize, i.PackagePrice)
}
