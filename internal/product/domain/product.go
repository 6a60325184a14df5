package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents the product entity
type Product struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"not null;index:idx_products_name_type"`
	Type      string          `json:"type" gorm:"not null;index:idx_products_name_type"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock     int             `json:"stock" gorm:"not null;default:0"`
	Image     string          `json:"image,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsAvailable checks if product is in stock
func (p *Product) IsAvailable() bool {
	return p.Stock > 0
}

// SameIdentity reports whether p and the given name/type collide under the
// catalog's duplicate rule.
func (p *Product) SameIdentity(name, productType string) bool {
	return NormalizeIdentity(p.Name) == NormalizeIdentity(name) &&
		NormalizeIdentity(p.Type) == NormalizeIdentity(productType)
}

// NormalizeIdentity strips spaces and upper-cases s so that "Blue Shirt" and
// "blueshirt" compare equal.
func NormalizeIdentity(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByNameAndType(ctx context.Context, name, productType string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	// Update persists every field of product; it is the commit point of an update.
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, product *Product) error
	Count(ctx context.Context) (int64, error)
}

// ImageUploader stores image content and returns a stable public URL.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}
