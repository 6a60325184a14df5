package query

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
)

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	AvailableOnly bool // keep only products with stock > 0
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query in store order
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if !query.AvailableOnly {
		return products, nil
	}

	available := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return available, nil
}
