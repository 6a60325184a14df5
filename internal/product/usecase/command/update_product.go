package command

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
)

// UpdateProductCommand represents the command to update a product
type UpdateProductCommand struct {
	ID    uint
	Patch dto.UpdateProductDTO
	// Image is optional raw image content; when set it replaces Patch.Image
	Image []byte
}

// UpdateProductHandler handles product update command.
// The whole patch is validated before the entity is touched, so a failed
// update never leaves a half-applied product behind.
type UpdateProductHandler struct {
	repo      domain.ProductRepository
	uploader  domain.ImageUploader
	publisher domain.EventPublisher
	guard     *VerifyNameAndTypeHandler
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(
	repo domain.ProductRepository,
	uploader domain.ImageUploader,
	publisher domain.EventPublisher,
	guard *VerifyNameAndTypeHandler,
) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, uploader: uploader, publisher: publisher, guard: guard}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*dto.ProductDTO, error) {
	patch := cmd.Patch

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if patch.HasName() || patch.HasType() {
		name, productType := product.Name, product.Type
		if patch.HasName() {
			name = *patch.Name
		}
		if patch.HasType() {
			productType = *patch.Type
		}
		err := h.guard.Handle(ctx, VerifyNameAndTypeCommand{Name: name, Type: productType, ExcludeID: product.ID})
		if err != nil {
			return nil, err
		}
	}

	if len(cmd.Image) > 0 {
		url, err := upload(ctx, h.uploader, cmd.Image)
		if err != nil {
			return nil, err
		}
		patch.Image = &url
	}

	applyPatch(product, patch)

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	publish(ctx, h.publisher, domain.EventProductUpdated, product)

	out := dto.ToDTO(product)
	return &out, nil
}

func validatePatch(patch dto.UpdateProductDTO) error {
	if patch.HasType() {
		if err := domain.ValidateCategory(*patch.Type); err != nil {
			return err
		}
	}
	if patch.Price != nil && patch.Price.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidProduct)
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidProduct)
	}
	return nil
}

func applyPatch(product *domain.Product, patch dto.UpdateProductDTO) {
	if patch.HasName() {
		product.Name = *patch.Name
	}
	if patch.HasType() {
		product.Type = *patch.Type
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.HasImage() {
		product.Image = *patch.Image
	}
}
