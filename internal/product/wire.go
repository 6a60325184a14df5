//go:build wireinject
// +build wireinject

package product

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/product-catalog/internal/product/domain"
)

// InitializeService wires the product service on top of a GORM database
func InitializeService(db *gorm.DB, uploader domain.ImageUploader, publisher domain.EventPublisher) (*Service, error) {
	wire.Build(
		RepositorySet,
		ServiceSet,
	)
	return nil, nil
}
