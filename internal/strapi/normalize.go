package strapi

// Преобразование данных из формата Strapi в плоские записи.
// Strapi в зависимости от версии и конфигурации отдает записи либо как
// {id, attributes: {...}}, либо сразу плоско {id, ...поля} — нормализатор
// обязан принимать обе формы, не зная заранее, какая придет.

// Normalize приводит сырое значение к плоской записи {id, ...поля}
// nil или не-объект дает запись-заглушку {id: 0} — вызывающий код
// распознает отсутствие данных по ID() == 0, исключений не бывает
func Normalize(raw interface{}) Record {
	obj, ok := raw.(map[string]interface{})
	if !ok || obj == nil {
		return Record{"id": 0}
	}

	attrs, hasAttrs := obj["attributes"].(map[string]interface{})
	if !hasAttrs {
		// Данные уже в плоском формате
		return Record(obj)
	}

	// Конверт {id, attributes}: id всегда берем из внешнего уровня,
	// поле id внутри attributes не должно его перекрывать
	flat := make(Record, len(attrs)+1)
	for k, v := range attrs {
		flat[k] = v
	}
	flat["id"] = obj["id"]
	return flat
}

// NormalizeArray нормализует массив записей с сохранением порядка
// Каждый элемент обрабатывается отдельно: массив может смешивать
// конвертную и плоскую формы, формат по первому элементу не угадываем
func NormalizeArray(raw interface{}) []Record {
	items, ok := raw.([]interface{})
	if !ok {
		return []Record{}
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, Normalize(item))
	}
	return records
}

// Relation извлекает связанную запись из конверта отношения {data: {...}}
// Возвращает nil, если отношение отсутствует — это отличимо от записи
// с id == 0 (данные пришли, но невалидные)
func Relation(rec Record, field string) Record {
	if rec == nil {
		return nil
	}
	envelope, ok := rec[field].(map[string]interface{})
	if !ok {
		return nil
	}
	data, ok := envelope["data"]
	if !ok || data == nil {
		// Strapi может отдать отношение и без конверта, сразу объектом
		if _, hasID := envelope["id"]; hasID {
			return Normalize(envelope)
		}
		return nil
	}
	return Normalize(data)
}

// RelationList извлекает массив связанных записей из конверта {data: [...]}
// Отсутствующий конверт дает пустой список, никогда не nil
func RelationList(rec Record, field string) []Record {
	if rec == nil {
		return []Record{}
	}
	envelope, ok := rec[field].(map[string]interface{})
	if !ok {
		// Без конверта: отношение может прийти сразу массивом
		if items, isArr := rec[field].([]interface{}); isArr {
			return NormalizeArray(items)
		}
		return []Record{}
	}
	return NormalizeArray(envelope["data"])
}
