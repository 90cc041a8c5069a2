package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/yurovdigital/bakery-management-system/internal/cache"
	"github.com/yurovdigital/bakery-management-system/internal/events"
	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

const (
	resourceOrders     = "orders"
	resourceOrderItems = "order-items"
)

var orderPopulate = []string{"client", "orderItems.recipe"}

// Broadcaster рассылка обновлений заказов подключенным консолям
// Реализуется WebSocket-хабом из internal/api
type Broadcaster interface {
	BroadcastMessage(message []byte)
}

// OrderService управляет заказами и их позициями
// Мутации инвалидируют кеш заказов и клиентов (CMS пересчитывает
// статистику клиента), публикуют событие в Kafka и рассылают обновление
// по WebSocket
type OrderService struct {
	api       *strapi.Client
	cache     *cache.QueryCache
	publisher *events.Publisher
	hub       Broadcaster
}

// NewOrderService создает новый экземпляр OrderService
func NewOrderService(api *strapi.Client, qc *cache.QueryCache) *OrderService {
	return &OrderService{api: api, cache: qc}
}

// SetPublisher подключает издателя событий Kafka (опционально)
func (s *OrderService) SetPublisher(p *events.Publisher) {
	s.publisher = p
}

// SetBroadcaster подключает WebSocket-хаб (опционально)
func (s *OrderService) SetBroadcaster(hub Broadcaster) {
	s.hub = hub
}

// List получает страницу заказов с клиентом и позициями
func (s *OrderService) List(ctx context.Context, page, pageSize int, status models.OrderStatus) ([]models.Order, strapi.Pagination) {
	opts := strapi.ListOptions{Page: page, PageSize: pageSize, Populate: orderPopulate, Sort: []string{"deliveryDate:asc"}}
	if status != "" {
		opts.Filters = map[string]string{"filters[status][$eq]": string(status)}
	}
	key := cache.ListKey(resourceOrders, opts)

	resp, ok := s.cache.GetList(ctx, key)
	if !ok {
		resp = s.api.List(ctx, resourceOrders, opts)
		s.cache.SetList(ctx, key, resp)
	}

	orders := make([]models.Order, 0, len(resp.Data))
	for _, rec := range resp.Data {
		orders = append(orders, orderFromRecord(rec))
	}
	return orders, resp.Meta.Pagination
}

// Get получает заказ по ID; nil, если не найден
func (s *OrderService) Get(ctx context.Context, id int) *models.Order {
	key := cache.DetailKey(resourceOrders, id, orderPopulate)

	rec, ok := s.cache.GetRecord(ctx, key)
	if !ok {
		rec = s.api.Get(ctx, resourceOrders, id, orderPopulate...)
		if rec == nil {
			return nil
		}
		s.cache.SetRecord(ctx, key, rec)
	}

	order := orderFromRecord(rec)
	return &order
}

// Create создает заказ и его позиции
// Порядок повторяет форму заказа: сначала заказ, затем order-items;
// суммы позиций и итог пересчитываются перед записью
func (s *OrderService) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	if order.ClientID == 0 {
		return nil, fmt.Errorf("заказ без клиента не допускается")
	}
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("заказ без позиций не допускается")
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	for i := range order.Items {
		order.Items[i].Total = models.ItemTotal(order.Items[i].Price, order.Items[i].Quantity)
	}
	order.Total = models.OrderTotal(order.Items)

	payload := toPayload(order)
	delete(payload, "products") // Позиции создаются отдельными записями
	payload["client"] = order.ClientID

	created, err := s.api.Create(ctx, resourceOrders, payload)
	if err != nil {
		return nil, err
	}
	orderID := created.ID()

	for _, item := range order.Items {
		itemPayload := map[string]interface{}{
			"recipe":   item.RecipeID,
			"name":     item.Name,
			"option":   item.Option,
			"price":    item.Price,
			"quantity": item.Quantity,
			"total":    item.Total,
			"order":    orderID,
		}
		if _, err := s.api.Create(ctx, resourceOrderItems, itemPayload); err != nil {
			return nil, fmt.Errorf("заказ %d создан, но позиция не добавлена: %w", orderID, err)
		}
	}

	// Статистика клиента пересчитывается в CMS — кеш клиентов тоже устарел
	s.cache.InvalidateResource(ctx, resourceOrders)
	s.cache.InvalidateResource(ctx, resourceClients)

	order.ID = orderID
	s.emit(ctx, events.OrderEvent{Type: events.OrderCreated, OrderID: orderID, Status: string(order.Status), Total: order.Total})
	return &order, nil
}

// UpdateStatus переводит заказ в новый статус с проверкой автомата состояний
// При отказе CMS ошибка возвращается вызывающему, кеш не инвалидируется
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("неизвестный статус заказа: %s", status)
	}

	current := s.api.Get(ctx, resourceOrders, id)
	if current == nil {
		return nil, fmt.Errorf("заказ %d не найден", id)
	}
	from := models.OrderStatus(fmt.Sprint(current["status"]))
	if !models.CanTransition(from, status) {
		return nil, fmt.Errorf("переход статуса %s → %s не допускается", from, status)
	}

	rec, err := s.api.Update(ctx, resourceOrders, id, map[string]interface{}{"status": status})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateResource(ctx, resourceOrders)

	order := orderFromRecord(rec)
	order.ID = id
	order.Status = status
	s.emit(ctx, events.OrderEvent{Type: events.OrderStatusChanged, OrderID: id, Status: string(status)})
	return &order, nil
}

// Update обновляет поля заказа частичным набором (fail-hard)
func (s *OrderService) Update(ctx context.Context, id int, data map[string]interface{}) (*models.Order, error) {
	delete(data, "id")

	rec, err := s.api.Update(ctx, resourceOrders, id, data)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateResource(ctx, resourceOrders)
	s.cache.InvalidateResource(ctx, resourceClients)

	order := orderFromRecord(rec)
	order.ID = id
	return &order, nil
}

// Delete удаляет заказ вместе с позициями
func (s *OrderService) Delete(ctx context.Context, id int) error {
	existing := s.api.Get(ctx, resourceOrders, id, orderPopulate...)
	for _, item := range strapi.RelationList(existing, "orderItems") {
		if itemID := item.ID(); itemID != 0 {
			if _, err := s.api.Delete(ctx, resourceOrderItems, itemID); err != nil {
				log.Printf("⚠️ Заказ %d: осиротевшая позиция %d не удалена: %v", id, itemID, err)
			}
		}
	}

	if _, err := s.api.Delete(ctx, resourceOrders, id); err != nil {
		return err
	}
	s.cache.InvalidateResource(ctx, resourceOrders)
	s.cache.InvalidateResource(ctx, resourceClients)

	s.emit(ctx, events.OrderEvent{Type: events.OrderDeleted, OrderID: id})
	return nil
}

// emit публикует событие в Kafka и рассылает его по WebSocket
func (s *OrderService) emit(ctx context.Context, event events.OrderEvent) {
	s.publisher.Publish(ctx, event)

	if s.hub != nil {
		if data, err := json.Marshal(event); err == nil {
			s.hub.BroadcastMessage(data)
		}
	}
}

// orderFromRecord собирает заказ из плоской записи, раскрывая связи
func orderFromRecord(rec strapi.Record) models.Order {
	var order models.Order
	if err := strapi.Decode(withoutFields(rec, "client", "orderItems"), &order); err != nil {
		return models.Order{ID: rec.ID()}
	}
	order.ID = rec.ID()

	if client := strapi.Relation(rec, "client"); client != nil {
		order.ClientID = client.ID()
		if name, ok := client["name"].(string); ok {
			order.Client = name
		}
	}

	items := strapi.RelationList(rec, "orderItems")
	if len(items) == 0 {
		return order
	}

	order.Items = make([]models.OrderItem, 0, len(items))
	for _, raw := range items {
		var item models.OrderItem
		if err := strapi.Decode(raw, &item); err != nil {
			continue
		}
		item.ID = raw.ID()

		if recipe := strapi.Relation(raw, "recipe"); recipe != nil {
			item.RecipeID = recipe.ID()
			if name, ok := recipe["name"].(string); ok && item.Name == "" {
				item.Name = name
			}
		}
		order.Items = append(order.Items, item)
	}
	order.Total = models.OrderTotal(order.Items)
	return order
}
