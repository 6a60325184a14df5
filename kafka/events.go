package kafka

import "time"

// ProductPurchasedEvent is emitted by the payment flow when an order is paid
type ProductPurchasedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	PaymentID uint      `json:"payment_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int32     `json:"quantity"`
	UserID    uint      `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeProductPurchased = "product.purchased"
)

// Kafka topics
const (
	TopicProductEvents    = "product-events"
	TopicProductPurchased = "product-purchased"
)

// Message headers
const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)
