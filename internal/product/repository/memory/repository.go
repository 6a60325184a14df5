package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tair/product-catalog/internal/product/domain"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// It hands out copies, so callers never alias stored state.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uint]domain.Product
	nextID   uint
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[uint]domain.Product),
		nextID:   1,
	}
}

func (r *ProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id uint) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

func (r *ProductRepository) FindByNameAndType(_ context.Context, name, productType string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.sortedIDs() {
		product := r.products[id]
		if product.Name == name && product.Type == productType {
			return &product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// FindAll returns products in insertion (id) order
func (r *ProductRepository) FindAll(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.products))
	for _, id := range r.sortedIDs() {
		products = append(products, r.products[id])
	}
	return products, nil
}

func (r *ProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, product.ID)
	return nil
}

func (r *ProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// sortedIDs must be called with r.mu held
func (r *ProductRepository) sortedIDs() []uint {
	ids := make([]uint, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
