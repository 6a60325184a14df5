package command

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
)

// ApplyPurchaseCommand represents a sale that must be taken out of stock
type ApplyPurchaseCommand struct {
	ProductID uint
	Quantity  int
}

// ApplyPurchaseHandler decrements stock through the regular update workflow
type ApplyPurchaseHandler struct {
	repo   domain.ProductRepository
	update *UpdateProductHandler
}

// NewApplyPurchaseHandler creates a new apply purchase handler
func NewApplyPurchaseHandler(repo domain.ProductRepository, update *UpdateProductHandler) *ApplyPurchaseHandler {
	return &ApplyPurchaseHandler{repo: repo, update: update}
}

// Handle executes the apply purchase command. Stock never drops below zero.
func (h *ApplyPurchaseHandler) Handle(ctx context.Context, cmd ApplyPurchaseCommand) (*dto.ProductDTO, error) {
	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidProduct)
	}

	product, err := h.repo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	stock := max(product.Stock-cmd.Quantity, 0)
	return h.update.Handle(ctx, UpdateProductCommand{
		ID:    product.ID,
		Patch: dto.UpdateProductDTO{Stock: &stock},
	})
}
