package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Типы событий заказов
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"
)

// OrderEvent событие жизненного цикла заказа для внешних потребителей
// (бот напоминаний, выгрузка аналитики)
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   int         `json:"orderId"`
	Status    string      `json:"status,omitempty"`
	Total     float64     `json:"total,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Publisher асинхронный издатель событий заказов в Kafka
// nil-указатель допустим: Publish и Close при этом no-op, сервис заказов
// работает и без брокера
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher создает издателя, если заданы брокеры
// username/password/caCert нужны только для управляемых брокеров
func NewPublisher(kafkaBrokers, username, password, caCert string) *Publisher {
	brokers := ParseBrokers(kafkaBrokers)
	if len(brokers) == 0 {
		return nil
	}

	writer := &kafka.Writer{
		Addr:      kafka.TCP(brokers...),
		Topic:     "bakery-orders",
		Balancer:  &kafka.LeastBytes{},
		Async:     true, // Событие не должно задерживать ответ формы
		Transport: newTransport(username, password, caCert),
	}
	log.Printf("✅ Kafka producer подключен к %s (топик bakery-orders)", kafkaBrokers)

	return &Publisher{writer: writer}
}

// Publish отправляет событие заказа
// Ошибка публикации только логируется: события вторичны по отношению
// к записи в CMS и не должны ронять мутацию
func (p *Publisher) Publish(ctx context.Context, event OrderEvent) {
	if p == nil || p.writer == nil {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Kafka: ошибка сериализации события %s: %v", event.Type, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(uuid.New().String()),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("⚠️ Kafka: ошибка отправки события %s (заказ %d): %v", event.Type, event.OrderID, err)
	}
}

// Close закрывает writer
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
