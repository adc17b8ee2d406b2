package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/mamantilie/internal/domain"
)

const (
	EventStatusUpdated  = "status_updated"
	EventOrderCelebrate = "order_celebrate"
)

// Сообщения RabbitMQ
type StatusUpdateMessage struct {
	EventID      string                `json:"event_id"`
	Event        string                `json:"event"`
	OrderID      string                `json:"order_id"`
	CustomerName string                `json:"customer_name"`
	OldStatus    domain.DeliveryStatus `json:"old_status"`
	NewStatus    domain.DeliveryStatus `json:"new_status"`
	Completed    bool                  `json:"completed"`
	Timestamp    time.Time             `json:"timestamp"`
}

// CelebrateMessage tells front-ends to play the completion effect for an order.
type CelebrateMessage struct {
	EventID      string    `json:"event_id"`
	Event        string    `json:"event"`
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	FoodType     string    `json:"food_type"`
	Timestamp    time.Time `json:"timestamp"`
}

// Интерфейсы Messaging (Adapter/RabbitMQ)
type MessagePublisher interface {
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
	PublishCelebrate(ctx context.Context, msg CelebrateMessage) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
