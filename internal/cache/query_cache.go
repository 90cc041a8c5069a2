package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

// Кеш запросов к Strapi в Redis. Ключ складывается из ресурса, страницы,
// размера страницы и хеша остальных параметров; мутации инвалидируют все
// ключи своего ресурса по префиксу. Конечное время жизни записи — окно
// свежести, после которого данные перечитываются из CMS.

const keyPrefix = "bakery:query"

// QueryCache кеш списочных и детальных запросов с инвалидацией по ресурсу
// nil-указатель допустим: все методы при этом работают как no-op,
// сервис просто ходит в CMS напрямую
type QueryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQueryCache создает кеш поверх подключения к Redis
func NewQueryCache(client *redis.Client, ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &QueryCache{client: client, ttl: ttl}
}

func (c *QueryCache) disabled() bool {
	return c == nil || c.client == nil
}

// ListKey собирает ключ списочного запроса
// Параметры фильтрации и сортировки входят хешем: строка запроса
// детерминирована (ListOptions.Query сортирует ключи)
func ListKey(resource string, opts strapi.ListOptions) string {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 25
	}

	h := fnv.New32a()
	h.Write([]byte(opts.Query()))
	return fmt.Sprintf("%s:%s:p%d:ps%d:%x", keyPrefix, resource, page, pageSize, h.Sum32())
}

// DetailKey собирает ключ запроса одной записи
func DetailKey(resource string, id int, populate []string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.Join(populate, ",")))
	return fmt.Sprintf("%s:%s:id%d:%x", keyPrefix, resource, id, h.Sum32())
}

// GetList читает закешированный списочный ответ
func (c *QueryCache) GetList(ctx context.Context, key string) (*strapi.ListResponse, bool) {
	if c.disabled() {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var resp strapi.ListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// SetList сохраняет списочный ответ с TTL
// Конкурентные обновления одного ключа не упорядочиваются: побеждает
// последняя запись, слегка устаревший ответ допустим
func (c *QueryCache) SetList(ctx context.Context, key string, resp *strapi.ListResponse) {
	if c.disabled() || resp == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Cache: ошибка записи ключа %s: %v", key, err)
	}
}

// GetRecord читает закешированную запись
func (c *QueryCache) GetRecord(ctx context.Context, key string) (strapi.Record, bool) {
	if c.disabled() {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var rec strapi.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	return rec, true
}

// SetRecord сохраняет запись с TTL
func (c *QueryCache) SetRecord(ctx context.Context, key string, rec strapi.Record) {
	if c.disabled() || rec == nil {
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Cache: ошибка записи ключа %s: %v", key, err)
	}
}

// InvalidateResource удаляет все ключи ресурса (списки и детальные записи)
// Вызывается после успешной мутации; ошибка Redis не пробрасывается —
// просроченные записи все равно умрут по TTL
func (c *QueryCache) InvalidateResource(ctx context.Context, resource string) {
	if c.disabled() {
		return
	}

	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, resource)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		log.Printf("⚠️ Cache: ошибка поиска ключей %s: %v", pattern, err)
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Cache: ошибка инвалидации %s: %v", resource, err)
		return
	}
	log.Printf("🗑️ Cache: инвалидировано %d ключей ресурса %s", len(keys), resource)
}
