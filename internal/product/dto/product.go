package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductDTO is the boundary view of a product, used as create input and
// as read output
type ProductDTO struct {
	ID    uint            `json:"id,omitempty"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Image string          `json:"image,omitempty"`
}

// UpdateProductDTO is a partial update. A nil field, or an empty string,
// leaves the stored value unchanged.
type UpdateProductDTO struct {
	Name  *string          `json:"name,omitempty"`
	Type  *string          `json:"type,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock *int             `json:"stock,omitempty"`
	Image *string          `json:"image,omitempty"`
}

// HasName reports whether the patch carries a new name. A blank name counts
// as absent.
func (u UpdateProductDTO) HasName() bool { return u.Name != nil && strings.TrimSpace(*u.Name) != "" }

// HasType reports whether the patch carries a new type
func (u UpdateProductDTO) HasType() bool { return u.Type != nil && *u.Type != "" }

// HasImage reports whether the patch carries a new image URL
func (u UpdateProductDTO) HasImage() bool { return u.Image != nil && *u.Image != "" }
