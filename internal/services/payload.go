package services

import "encoding/json"

// withoutFields неглубокая копия записи без перечисленных полей
// Нужна перед Decode: конверт отношения (map) не должен попадать
// в скалярное поле модели с тем же именем
func withoutFields(rec map[string]interface{}, fields ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, f := range fields {
		delete(out, f)
	}
	return out
}

// toPayload готовит модель к отправке в CMS: плоская map без поля id
// (идентификаторы назначает бэкенд, в теле мутации их быть не должно)
func toPayload(v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{}
	}

	payload := map[string]interface{}{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return map[string]interface{}{}
	}
	delete(payload, "id")
	return payload
}
