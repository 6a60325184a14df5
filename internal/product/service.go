package product

import (
	"context"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/internal/product/usecase/query"
)

// CommandHandlers holds all command handlers
type CommandHandlers struct {
	Add      *command.AddProductHandler
	Update   *command.UpdateProductHandler
	Delete   *command.DeleteProductHandler
	Verify   *command.VerifyNameAndTypeHandler
	Purchase *command.ApplyPurchaseHandler
}

// QueryHandlers holds all query handlers
type QueryHandlers struct {
	Get    *query.GetProductHandler
	List   *query.ListProductsHandler
	Search *query.SearchProductsHandler
	Stats  *query.GetStatsHandler
}

// Service is the product workflow entry point used by every delivery
// adapter
type Service struct {
	commands *CommandHandlers
	queries  *QueryHandlers
}

// NewService creates a new product workflow service
func NewService(commands *CommandHandlers, queries *QueryHandlers) *Service {
	return &Service{commands: commands, queries: queries}
}

// AddProduct creates a product, uploading image first when it is non-empty
func (s *Service) AddProduct(ctx context.Context, in dto.ProductDTO, image []byte) (*domain.Product, error) {
	return s.commands.Add.Handle(ctx, command.AddProductCommand{Product: in, Image: image})
}

// UpdateProduct applies patch to product id
func (s *Service) UpdateProduct(ctx context.Context, id uint, patch dto.UpdateProductDTO, image []byte) (*dto.ProductDTO, error) {
	return s.commands.Update.Handle(ctx, command.UpdateProductCommand{ID: id, Patch: patch, Image: image})
}

// DeleteProduct removes product id
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.commands.Delete.Handle(ctx, command.DeleteProductCommand{ID: id})
}

// VerifyNameAndType fails with domain.ErrDuplicateProduct when the pair is taken
func (s *Service) VerifyNameAndType(ctx context.Context, name, productType string) error {
	return s.commands.Verify.Handle(ctx, command.VerifyNameAndTypeCommand{Name: name, Type: productType})
}

// ApplyPurchase takes quantity units of product id out of stock
func (s *Service) ApplyPurchase(ctx context.Context, id uint, quantity int) (*dto.ProductDTO, error) {
	return s.commands.Purchase.Handle(ctx, command.ApplyPurchaseCommand{ProductID: id, Quantity: quantity})
}

func (s *Service) GetProductByID(ctx context.Context, id uint) (*domain.Product, error) {
	return s.queries.Get.Handle(ctx, query.GetProductQuery{ID: id})
}

func (s *Service) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return s.queries.List.Handle(ctx, query.ListProductsQuery{})
}

func (s *Service) GetAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	return s.queries.List.Handle(ctx, query.ListProductsQuery{AvailableOnly: true})
}

func (s *Service) SearchProducts(ctx context.Context, term string) ([]dto.ProductDTO, error) {
	return s.queries.Search.Handle(ctx, query.SearchProductsQuery{Term: term})
}

func (s *Service) GetStats(ctx context.Context) (*query.ProductStats, error) {
	return s.queries.Stats.Handle(ctx, query.GetStatsQuery{})
}
