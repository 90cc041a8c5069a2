package services

import (
	"context"
	"fmt"

	"github.com/yurovdigital/bakery-management-system/internal/cache"
	"github.com/yurovdigital/bakery-management-system/internal/models"
	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

const resourceClients = "clients"

// ClientService управляет клиентами пекарни
// Счетчики заказов и потраченных сумм ведет CMS, сервис их не трогает
type ClientService struct {
	api   *strapi.Client
	cache *cache.QueryCache
}

// NewClientService создает новый экземпляр ClientService
func NewClientService(api *strapi.Client, qc *cache.QueryCache) *ClientService {
	return &ClientService{api: api, cache: qc}
}

// List получает страницу клиентов
func (s *ClientService) List(ctx context.Context, page, pageSize int) ([]models.Client, strapi.Pagination) {
	opts := strapi.ListOptions{Page: page, PageSize: pageSize}
	key := cache.ListKey(resourceClients, opts)

	resp, ok := s.cache.GetList(ctx, key)
	if !ok {
		resp = s.api.List(ctx, resourceClients, opts)
		s.cache.SetList(ctx, key, resp)
	}

	clients := make([]models.Client, 0, len(resp.Data))
	for _, rec := range resp.Data {
		var cl models.Client
		if err := strapi.Decode(rec, &cl); err != nil {
			continue
		}
		clients = append(clients, cl)
	}
	return clients, resp.Meta.Pagination
}

// Get получает клиента по ID вместе с его заказами; nil, если не найден
func (s *ClientService) Get(ctx context.Context, id int) *models.Client {
	key := cache.DetailKey(resourceClients, id, []string{"orders"})

	rec, ok := s.cache.GetRecord(ctx, key)
	if !ok {
		rec = s.api.Get(ctx, resourceClients, id, "orders")
		if rec == nil {
			return nil
		}
		s.cache.SetRecord(ctx, key, rec)
	}

	var cl models.Client
	// Поле orders в детальном ответе раскрыто в конверт отношения,
	// счетчик восстанавливаем из длины списка
	if err := strapi.Decode(withoutFields(rec, "orders"), &cl); err != nil {
		return nil
	}
	cl.ID = rec.ID()
	if orders := strapi.RelationList(rec, "orders"); len(orders) > 0 {
		cl.Orders = len(orders)
	}
	return &cl
}

// Create создает клиента
func (s *ClientService) Create(ctx context.Context, cl models.Client) (*models.Client, error) {
	if cl.Name == "" || cl.Phone == "" {
		return nil, fmt.Errorf("имя и телефон клиента обязательны")
	}

	rec, err := s.api.Create(ctx, resourceClients, toPayload(cl))
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateResource(ctx, resourceClients)

	var created models.Client
	if err := strapi.Decode(rec, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created client: %w", err)
	}
	return &created, nil
}

// Update обновляет данные клиента
func (s *ClientService) Update(ctx context.Context, id int, cl models.Client) (*models.Client, error) {
	rec, err := s.api.Update(ctx, resourceClients, id, toPayload(cl))
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateResource(ctx, resourceClients)

	var updated models.Client
	if err := strapi.Decode(rec, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated client: %w", err)
	}
	return &updated, nil
}

// Delete удаляет клиента
func (s *ClientService) Delete(ctx context.Context, id int) error {
	if _, err := s.api.Delete(ctx, resourceClients, id); err != nil {
		return err
	}
	s.cache.InvalidateResource(ctx, resourceClients)
	return nil
}
