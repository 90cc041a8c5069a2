package strapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestNormalize_Envelope(t *testing.T) {
	raw := mustParse(t, `{"id": 7, "attributes": {"name": "Сахар", "packagePrice": 80}}`)

	rec := Normalize(raw)

	assert.Equal(t, 7, rec.ID())
	assert.Equal(t, "Сахар", rec["name"])
	assert.Equal(t, float64(80), rec["packagePrice"])
	_, hasAttrs := rec["attributes"]
	assert.False(t, hasAttrs, "поле attributes не должно попадать в плоскую запись")
}

func TestNormalize_EnvelopeOuterIDWins(t *testing.T) {
	raw := mustParse(t, `{"id": 7, "attributes": {"id": 999, "name": "Мука"}}`)

	rec := Normalize(raw)

	assert.Equal(t, 7, rec.ID(), "id из attributes не должен перекрывать внешний id")
}

func TestNormalize_AlreadyFlat(t *testing.T) {
	raw := mustParse(t, `{"id": 3, "name": "Творожный сыр", "inStock": true}`)

	rec := Normalize(raw)

	assert.Equal(t, 3, rec.ID())
	assert.Equal(t, "Творожный сыр", rec["name"])
	assert.Equal(t, true, rec["inStock"])
}

func TestNormalize_NilGivesSentinel(t *testing.T) {
	rec := Normalize(nil)

	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.ID())
	assert.Len(t, rec, 1, "заглушка содержит только id")
}

func TestNormalize_MalformedGivesSentinel(t *testing.T) {
	for _, raw := range []interface{}{"строка", 42.0, true, []interface{}{1, 2}} {
		rec := Normalize(raw)
		assert.Equal(t, 0, rec.ID())
	}
}

func TestNormalizeArray_Empty(t *testing.T) {
	assert.Empty(t, NormalizeArray(nil))
	assert.Empty(t, NormalizeArray("не массив"))
	assert.Empty(t, NormalizeArray([]interface{}{}))
}

func TestNormalizeArray_PreservesOrder(t *testing.T) {
	raw := mustParse(t, `[
		{"id": 2, "attributes": {"name": "второй"}},
		{"id": 1, "attributes": {"name": "первый"}}
	]`)

	records := NormalizeArray(raw)

	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].ID())
	assert.Equal(t, 1, records[1].ID())
}

func TestNormalizeArray_MixedShapes(t *testing.T) {
	// Смешанный массив: часть записей в конверте, часть плоские.
	// Формат определяется для каждого элемента отдельно.
	raw := mustParse(t, `[
		{"id": 1, "attributes": {"name": "конверт"}},
		{"id": 2, "name": "плоский"}
	]`)

	records := NormalizeArray(raw)

	require.Len(t, records, 2)
	assert.Equal(t, "конверт", records[0]["name"])
	assert.Equal(t, "плоский", records[1]["name"])
}

func TestRelation_Absent(t *testing.T) {
	assert.Nil(t, Relation(nil, "client"))
	assert.Nil(t, Relation(Record{}, "client"))
	assert.Nil(t, Relation(Record{"client": nil}, "client"))

	rec := Normalize(mustParse(t, `{"id": 1, "client": {"data": null}}`))
	assert.Nil(t, Relation(rec, "client"))
}

func TestRelation_Present(t *testing.T) {
	rec := Normalize(mustParse(t, `{
		"id": 10,
		"client": {"data": {"id": 4, "attributes": {"name": "Анна", "phone": "+79990001122"}}}
	}`))

	client := Relation(rec, "client")

	require.NotNil(t, client)
	assert.Equal(t, 4, client.ID())
	assert.Equal(t, "Анна", client["name"])
}

func TestRelation_DistinctFromSentinel(t *testing.T) {
	// Отсутствующее отношение (nil) и запись-заглушка (id == 0) различимы
	absent := Relation(Record{}, "client")
	assert.Nil(t, absent)

	rec := Normalize(mustParse(t, `{"id": 1, "client": {"data": "мусор"}}`))
	broken := Relation(rec, "client")
	require.NotNil(t, broken)
	assert.Equal(t, 0, broken.ID())
}

func TestRelationList_Absent(t *testing.T) {
	list := RelationList(Record{}, "orderItems")
	require.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRelationList_Present(t *testing.T) {
	rec := Normalize(mustParse(t, `{
		"id": 5,
		"orderItems": {"data": [
			{"id": 1, "attributes": {"quantity": 2}},
			{"id": 2, "attributes": {"quantity": 1}}
		]}
	}`))

	items := RelationList(rec, "orderItems")

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID())
	assert.Equal(t, float64(2), items[0]["quantity"])
	assert.Equal(t, 2, items[1].ID())
}

func TestDecode(t *testing.T) {
	rec := Normalize(mustParse(t, `{"id": 9, "attributes": {"name": "Арахис", "packageSize": 500}}`))

	var out struct {
		ID          int     `json:"id"`
		Name        string  `json:"name"`
		PackageSize float64 `json:"packageSize"`
	}
	require.NoError(t, Decode(rec, &out))

	assert.Equal(t, 9, out.ID)
	assert.Equal(t, "Арахис", out.Name)
	assert.Equal(t, float64(500), out.PackageSize)
}
