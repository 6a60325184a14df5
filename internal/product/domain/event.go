package domain

import (
	"context"
	"time"
)

// Product lifecycle event types
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent describes a committed change to the catalog
type ProductEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	Image     string    `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewProductEvent builds an event snapshot of p
func NewProductEvent(eventType string, p *Product) ProductEvent {
	return ProductEvent{
		EventType: eventType,
		ProductID: p.ID,
		Name:      p.Name,
		Type:      p.Type,
		Price:     p.Price.StringFixed(2),
		Stock:     p.Stock,
		Image:     p.Image,
	}
}

// EventPublisher emits lifecycle events after a change is committed
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event ProductEvent) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishProductEvent(context.Context, ProductEvent) error { return nil }
