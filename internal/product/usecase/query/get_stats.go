package query

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/product-catalog/internal/product/domain"
)

// GetStatsQuery represents the query to get catalog statistics
type GetStatsQuery struct{}

// ProductStats represents catalog statistics
type ProductStats struct {
	TotalProducts      int64            `json:"total_products"`
	AvailableProducts  int64            `json:"available_products"`
	OutOfStock         int64            `json:"out_of_stock"`
	TotalStock         int64            `json:"total_stock"`
	AveragePrice       decimal.Decimal  `json:"average_price"`
	ProductsByCategory map[string]int64 `json:"products_by_category"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.ProductRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.ProductRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*ProductStats, error) {
	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	stats := &ProductStats{
		TotalProducts:      int64(len(products)),
		AveragePrice:       decimal.Zero,
		ProductsByCategory: make(map[string]int64),
	}

	totalPrice := decimal.Zero
	for _, p := range products {
		if p.IsAvailable() {
			stats.AvailableProducts++
		} else {
			stats.OutOfStock++
		}
		stats.TotalStock += int64(p.Stock)
		totalPrice = totalPrice.Add(p.Price)
		stats.ProductsByCategory[p.Type]++
	}

	if stats.TotalProducts > 0 {
		stats.AveragePrice = totalPrice.Div(decimal.NewFromInt(stats.TotalProducts)).Round(2)
	}

	return stats, nil
}
