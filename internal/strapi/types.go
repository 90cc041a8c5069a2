package strapi

import "encoding/json"

// Record плоская запись Strapi: id и поля домена на одном уровне
type Record map[string]interface{}

// ID извлекает идентификатор записи
// Strapi отдает числа как float64 после json.Unmarshal, но id может прийти
// и строкой (documentId в v5), поэтому разбираем все варианты
func (r Record) ID() int {
	if r == nil {
		return 0
	}
	switch v := r["id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

// Decode преобразует плоскую запись в типизированную модель
func Decode(rec Record, out interface{}) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Pagination факты пагинации из meta ответа Strapi
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Meta метаданные ответа API
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// ListResponse ответ списочного запроса после нормализации записей
type ListResponse struct {
	Data []Record `json:"data"`
	Meta Meta     `json:"meta"`
}
