package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

// newTestAPI поднимает фейковую CMS и возвращает клиента, направленного на нее
func newTestAPI(t *testing.T, mux *http.ServeMux) *strapi.Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return strapi.NewClient(server.URL, "")
}

func readData(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body.Data
}

type fakeHub struct {
	messages [][]byte
}

func (h *fakeHub) BroadcastMessage(message []byte) {
	h.messages = append(h.messages, message)
}

func TestOrderService_CreateFansOutItems(t *testing.T) {
	var orderPayload map[string]interface{}
	var itemPayloads []map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		orderPayload = readData(t, r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data": {"id": 77, "attributes": {"status": "pending"}}}`))
	})
	mux.HandleFunc("POST /api/order-items", func(w http.ResponseWriter, r *http.Request) {
		itemPayloads = append(itemPayloads, readData(t, r))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data": {"id": 1}}`))
	})

	hub := &fakeHub{}
	svc := NewOrderService(newTestAPI(t, mux), nil)
	svc.SetBroadcaster(hub)

	order := models.Order{
		ClientID:     4,
		Date:         "2026-08-20",
		DeliveryDate: "2026-08-25",
		Items: []models.OrderItem{
			{RecipeID: 1, Name: "Наполеон", Option: "1 кг", Price: 600, Quantity: 1},
			{RecipeID: 2, Name: "Капкейки", Option: "6 шт", Price: 150, Quantity: 3},
		},
	}

	created, err := svc.Create(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, 77, created.ID)
	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.InDelta(t, 1050.0, created.Total, 1e-9)

	// Заказ ушел одной записью с пересчитанным итогом и ссылкой на клиента
	require.NotNil(t, orderPayload)
	assert.Equal(t, float64(4), orderPayload["client"])
	assert.InDelta(t, 1050.0, orderPayload["total"].(float64), 1e-9)
	_, hasProducts := orderPayload["products"]
	assert.False(t, hasProducts, "позиции не должны попадать в тело заказа")

	// Каждая позиция — отдельной записью со ссылкой на заказ
	require.Len(t, itemPayloads, 2)
	assert.Equal(t, float64(77), itemPayloads[0]["order"])
	assert.InDelta(t, 600.0, itemPayloads[0]["total"].(float64), 1e-9)
	assert.InDelta(t, 450.0, itemPayloads[1]["total"].(float64), 1e-9)

	// Обновление разослано по WebSocket
	require.Len(t, hub.messages, 1)
	assert.Contains(t, string(hub.messages[0]), "order.created")
}

func TestOrderService_CreateValidation(t *testing.T) {
	svc := NewOrderService(strapi.NewClient("http://localhost:1337", ""), nil)

	_, err := svc.Create(context.Background(), models.Order{Items: []models.OrderItem{{RecipeID: 1}}})
	assert.Error(t, err, "заказ без клиента")

	_, err = svc.Create(context.Background(), models.Order{ClientID: 1})
	assert.Error(t, err, "заказ без позиций")
}

func TestOrderService_UpdateStatusRejectsBadTransition(t *testing.T) {
	putCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders/5", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": 5, "attributes": {"status": "completed"}}}`))
	})
	mux.HandleFunc("PUT /api/orders/5", func(w http.ResponseWriter, r *http.Request) {
		putCalled = true
	})

	svc := NewOrderService(newTestAPI(t, mux), nil)

	_, err := svc.UpdateStatus(context.Background(), 5, models.OrderStatusInProgress)
	require.Error(t, err)
	assert.False(t, putCalled, "недопустимый переход не должен доходить до CMS")

	_, err = svc.UpdateStatus(context.Background(), 5, "paused")
	assert.Error(t, err, "неизвестный статус отклоняется до запроса")
}

func TestOrderService_UpdateStatusBackendFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders/8", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": 8, "attributes": {"status": "pending"}}}`))
	})
	mux.HandleFunc("PUT /api/orders/8", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "validation failed"}}`))
	})

	hub := &fakeHub{}
	svc := NewOrderService(newTestAPI(t, mux), nil)
	svc.SetBroadcaster(hub)

	_, err := svc.UpdateStatus(context.Background(), 8, models.OrderStatusInProgress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Empty(t, hub.messages, "при отказе CMS событие не рассылается")
}

func TestOrderService_ListResolvesRelations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": [{
				"id": 12,
				"attributes": {
					"date": "2026-08-20",
					"deliveryDate": "2026-08-25",
					"status": "pending",
					"client": {"data": {"id": 4, "attributes": {"name": "Анна"}}},
					"orderItems": {"data": [
						{"id": 31, "attributes": {
							"option": "1 кг", "price": 600, "quantity": 1, "total": 600,
							"recipe": {"data": {"id": 2, "attributes": {"name": "Наполеон"}}}
						}}
					]}
				}
			}],
			"meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 1, "total": 1}}
		}`))
	})

	svc := NewOrderService(newTestAPI(t, mux), nil)

	orders, pagination := svc.List(context.Background(), 1, 25, "")
	require.Len(t, orders, 1)
	assert.Equal(t, 1, pagination.Total)

	order := orders[0]
	assert.Equal(t, 12, order.ID)
	assert.Equal(t, 4, order.ClientID)
	assert.Equal(t, "Анна", order.Client)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].RecipeID)
	assert.Equal(t, "Наполеон", order.Items[0].Name)
	assert.Equal(t, "1 кг", order.Items[0].Option)
	assert.InDelta(t, 600.0, order.Total, 1e-9)
}

func TestOrderService_ListFailSoft(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	svc := NewOrderService(newTestAPI(t, mux), nil)

	orders, pagination := svc.List(context.Background(), 1, 25, "")
	assert.Empty(t, orders)
	assert.Zero(t, pagination.Total)
}
