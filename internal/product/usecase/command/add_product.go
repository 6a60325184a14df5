package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
	"github.com/tair/product-catalog/pkg/logger"
)

// MessageProductAdded confirms a successful AddProduct
const MessageProductAdded = "product added"

// AddProductCommand represents the command to add a new product
type AddProductCommand struct {
	Product dto.ProductDTO
	// Image is optional raw image content
	Image []byte
}

// AddProductHandler handles product creation command
type AddProductHandler struct {
	repo      domain.ProductRepository
	uploader  domain.ImageUploader
	publisher domain.EventPublisher
	guard     *VerifyNameAndTypeHandler
}

// NewAddProductHandler creates a new add product handler
func NewAddProductHandler(
	repo domain.ProductRepository,
	uploader domain.ImageUploader,
	publisher domain.EventPublisher,
	guard *VerifyNameAndTypeHandler,
) *AddProductHandler {
	return &AddProductHandler{repo: repo, uploader: uploader, publisher: publisher, guard: guard}
}

// Handle executes the add product command
func (h *AddProductHandler) Handle(ctx context.Context, cmd AddProductCommand) (*domain.Product, error) {
	in := cmd.Product

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidProduct)
	}
	if err := domain.ValidateCategory(in.Type); err != nil {
		return nil, err
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidProduct)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidProduct)
	}

	if err := h.guard.Handle(ctx, VerifyNameAndTypeCommand{Name: in.Name, Type: in.Type}); err != nil {
		return nil, err
	}

	// Uploading after the checks keeps rejected requests from leaving orphan images
	if len(cmd.Image) > 0 {
		url, err := upload(ctx, h.uploader, cmd.Image)
		if err != nil {
			return nil, err
		}
		in.Image = url
	}

	product := dto.ToEntity(in)
	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	publish(ctx, h.publisher, domain.EventProductCreated, product)

	logger.Info(ctx).
		Uint("product_id", product.ID).
		Str("name", product.Name).
		Str("type", product.Type).
		Msg("Product added")

	return product, nil
}

func upload(ctx context.Context, uploader domain.ImageUploader, data []byte) (string, error) {
	url, err := uploader.Upload(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return url, nil
}

// publish is best effort: the change is already committed when it runs
func publish(ctx context.Context, publisher domain.EventPublisher, eventType string, product *domain.Product) {
	if err := publisher.PublishProductEvent(ctx, domain.NewProductEvent(eventType, product)); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", eventType).
			Uint("product_id", product.ID).
			Msg("Failed to publish product event")
	}
}
