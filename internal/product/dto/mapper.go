package dto

import "github.com/tair/product-catalog/internal/product/domain"

// ToEntity copies the transfer fields onto a new entity. ID and timestamps
// are left for the store to assign.
func ToEntity(in ProductDTO) *domain.Product {
	return &domain.Product{
		Name:  in.Name,
		Type:  in.Type,
		Price: in.Price,
		Stock: in.Stock,
		Image: in.Image,
	}
}

// ToDTO maps an entity to its transfer representation
func ToDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:    p.ID,
		Name:  p.Name,
		Type:  p.Type,
		Price: p.Price,
		Stock: p.Stock,
		Image: p.Image,
	}
}

// ToDTOs maps a slice of entities, preserving order
func ToDTOs(products []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, ToDTO(&products[i]))
	}
	return out
}
