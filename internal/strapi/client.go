package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Notifier side-channel для уведомлений об ошибках чтения
// Читающие операции глотают ошибки и отдают пустые данные, но UI должен
// узнать о проблеме — колбэк подключается в main.go (лог + WebSocket)
type Notifier func(op, resource string, err error)

// Client клиент для работы с REST API Strapi
type Client struct {
	baseURL  string // {host}/api
	token    string // статический bearer-токен из конфигурации
	client   *http.Client
	notifier Notifier
}

// NewClient создает новый клиент Strapi API
func NewClient(host, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(host, "/") + "/api",
		token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetNotifier подключает side-channel уведомлений об ошибках чтения
func (c *Client) SetNotifier(n Notifier) {
	c.notifier = n
}

func (c *Client) notify(op, resource string, err error) {
	log.Printf("⚠️ Strapi: ошибка %s %s: %v", op, resource, err)
	if c.notifier != nil {
		c.notifier(op, resource, err)
	}
}

// ListOptions параметры списочного запроса
type ListOptions struct {
	Page     int
	PageSize int
	Filters  map[string]string // уже в формате Strapi: "filters[type][$eq]" -> "income"
	Sort     []string          // например "date:desc"
	Populate []string          // связи для подгрузки, например "orderItems.recipe"
}

// Query собирает отсортированную строку запроса
// Порядок параметров детерминирован — строка используется и как часть
// ключа кеша, поэтому обход map не должен влиять на результат
func (o ListOptions) Query() string {
	page := o.Page
	if page < 1 {
		page = 1
	}
	pageSize := o.PageSize
	if pageSize < 1 {
		pageSize = 25
	}

	values := url.Values{}
	values.Set("pagination[page]", strconv.Itoa(page))
	values.Set("pagination[pageSize]", strconv.Itoa(pageSize))

	keys := make([]string, 0, len(o.Filters))
	for k := range o.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, o.Filters[k])
	}

	if len(o.Sort) > 0 {
		values.Set("sort", strings.Join(o.Sort, ","))
	}
	if len(o.Populate) > 0 {
		values.Set("populate", strings.Join(o.Populate, ","))
	}

	return values.Encode()
}

func (o ListOptions) normalized() (page, pageSize int) {
	page = o.Page
	if page < 1 {
		page = 1
	}
	pageSize = o.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	return page, pageSize
}

// emptyList пустой результат с обнуленной пагинацией для деградации чтения
func emptyList(page, pageSize int) *ListResponse {
	return &ListResponse{
		Data: []Record{},
		Meta: Meta{Pagination: Pagination{
			Page:     page,
			PageSize: pageSize,
		}},
	}
}

// List получает страницу записей ресурса
// Политика fail-soft: при любой ошибке транспорта, сервера или разбора
// ответа возвращается пустой список с нулевой пагинацией — списочные
// экраны всегда должны рендериться, ошибка уходит в side-channel
func (c *Client) List(ctx context.Context, resource string, opts ListOptions) *ListResponse {
	page, pageSize := opts.normalized()

	body, status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%s?%s", c.baseURL, resource, opts.Query()), nil)
	if err != nil {
		c.notify("list", resource, err)
		return emptyList(page, pageSize)
	}
	if status != http.StatusOK {
		c.notify("list", resource, apiError(status, body))
		return emptyList(page, pageSize)
	}

	var raw struct {
		Data interface{} `json:"data"`
		Meta *Meta       `json:"meta"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		c.notify("list", resource, fmt.Errorf("failed to unmarshal response: %w", err))
		return emptyList(page, pageSize)
	}

	resp := &ListResponse{Data: NormalizeArray(raw.Data)}
	if raw.Meta != nil {
		resp.Meta = *raw.Meta
	} else {
		resp.Meta = Meta{Pagination: Pagination{Page: page, PageSize: pageSize}}
	}
	return resp
}

// Get получает одну запись по ID
// Возвращает nil при нулевом ID, 404 или любой ошибке; 404 не уходит в
// уведомления — легитимно отсутствующая запись не повод для алерта
func (c *Client) Get(ctx context.Context, resource string, id int, populate ...string) Record {
	if id == 0 {
		log.Printf("⚠️ Strapi: запрос %s без ID", resource)
		return nil
	}

	endpoint := fmt.Sprintf("%s/%s/%d", c.baseURL, resource, id)
	if len(populate) > 0 {
		endpoint += "?populate=" + url.QueryEscape(strings.Join(populate, ","))
	}

	body, status, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.notify("get", resource, err)
		return nil
	}
	if status == http.StatusNotFound {
		return nil
	}
	if status != http.StatusOK {
		c.notify("get", resource, apiError(status, body))
		return nil
	}

	var raw struct {
		Data interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		c.notify("get", resource, fmt.Errorf("failed to unmarshal response: %w", err))
		return nil
	}
	if raw.Data == nil {
		return nil
	}
	return Normalize(raw.Data)
}

// Create создает новую запись
// Политика fail-hard: ошибка возвращается вызывающему, форма должна
// остаться открытой для исправления
func (c *Client) Create(ctx context.Context, resource string, data interface{}) (Record, error) {
	return c.write(ctx, http.MethodPost, fmt.Sprintf("%s/%s", c.baseURL, resource), resource, data, http.StatusOK, http.StatusCreated)
}

// Update обновляет запись частичным набором полей (fail-hard)
func (c *Client) Update(ctx context.Context, resource string, id int, data interface{}) (Record, error) {
	return c.write(ctx, http.MethodPut, fmt.Sprintf("%s/%s/%d", c.baseURL, resource, id), resource, data, http.StatusOK)
}

// Delete удаляет запись и возвращает удаленные данные (fail-hard)
func (c *Client) Delete(ctx context.Context, resource string, id int) (Record, error) {
	return c.write(ctx, http.MethodDelete, fmt.Sprintf("%s/%s/%d", c.baseURL, resource, id), resource, nil, http.StatusOK, http.StatusNoContent)
}

// write общий путь мутаций: тело {data: ...}, проверка статуса, разбор ответа
func (c *Client) write(ctx context.Context, method, endpoint, resource string, data interface{}, okStatuses ...int) (Record, error) {
	var payload io.Reader
	if data != nil {
		wrapped, err := json.Marshal(map[string]interface{}{"data": data})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		payload = bytes.NewReader(wrapped)
	}

	body, status, err := c.do(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, resource, err)
	}

	ok := false
	for _, s := range okStatuses {
		if status == s {
			ok = true
			break
		}
	}
	if !ok {
		return nil, apiError(status, body)
	}

	if len(body) == 0 {
		return Record{}, nil
	}
	var raw struct {
		Data interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return Normalize(raw.Data), nil
}

// do выполняет HTTP запрос с bearer-токеном и читает тело ответа
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return data, resp.StatusCode, nil
}

// apiError извлекает сообщение из тела ошибки Strapi {"error": {...}}
func apiError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("strapi API error (status %d): %s", status, payload.Error.Message)
	}
	return fmt.Errorf("strapi API error (status %d)", status)
}
