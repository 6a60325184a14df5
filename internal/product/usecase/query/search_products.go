package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
)

// SearchProductsQuery represents a free-text catalog search
type SearchProductsQuery struct {
	Term string
}

// SearchProductsHandler handles search products query
type SearchProductsHandler struct {
	repo domain.ProductRepository
}

// NewSearchProductsHandler creates a new search products handler
func NewSearchProductsHandler(repo domain.ProductRepository) *SearchProductsHandler {
	return &SearchProductsHandler{repo: repo}
}

// Handle returns in-stock products whose name or type contains the term,
// ignoring case. An empty term matches everything.
func (h *SearchProductsHandler) Handle(ctx context.Context, query SearchProductsQuery) ([]dto.ProductDTO, error) {
	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	term := strings.ToLower(query.Term)
	matches := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Type), term) {
			continue
		}
		if !p.IsAvailable() {
			continue
		}
		matches = append(matches, p)
	}

	return dto.ToDTOs(matches), nil
}
