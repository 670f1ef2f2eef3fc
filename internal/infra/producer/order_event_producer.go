package producer

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type OrderEventType string

var (
	OrderEventCreated   OrderEventType = "order_created"
	OrderEventUpdated   OrderEventType = "order_updated"
	OrderEventCancelled OrderEventType = "order_cancelled"
	OrderEventDeleted   OrderEventType = "order_deleted"
)

// OrderEvent 訂單異動事件，於transaction commit後發佈
type OrderEvent struct {
	EventType   OrderEventType    `json:"event_type"`
	OrderID     uint              `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	UserID      *uint             `json:"user_id,omitempty"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// IOrderEventProducer defines the methods that an order event producer must implement
type IOrderEventProducer interface {
	// PublishOrderEvent sends an order lifecycle event to Kafka
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	// Close closes the producer
	Close() error
}

type OrderEventProducer struct {
	writer *kafka.Writer
	closed atomic.Bool
}

var _ IOrderEventProducer = (*OrderEventProducer)(nil)

// NewOrderEventProducer creates a new Kafka producer for order events
func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		Async:        false,

		// 壓縮設置
		Compression: kafka.Snappy,
	}

	return &OrderEventProducer{
		writer: writer,
	}
}

// PublishOrderEvent 同步發送事件，會block到訊息寫入完成
// 以訂單編號當作message key，同一訂單的事件會進同一分區，保持順序
func (p *OrderEventProducer) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: value,
		Time:  event.OccurredAt,
	})
}

// Close implements the IOrderEventProducer interface
func (p *OrderEventProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
