package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
)

// VerifyNameAndTypeCommand asks whether name/type is free. ExcludeID lets an
// update ignore the product being edited.
type VerifyNameAndTypeCommand struct {
	Name      string
	Type      string
	ExcludeID uint
}

// VerifyNameAndTypeHandler is the catalog's duplicate guard. Two products
// collide when their names and types match after removing spaces and
// upper-casing.
type VerifyNameAndTypeHandler struct {
	repo domain.ProductRepository
}

// NewVerifyNameAndTypeHandler creates a new duplicate guard
func NewVerifyNameAndTypeHandler(repo domain.ProductRepository) *VerifyNameAndTypeHandler {
	return &VerifyNameAndTypeHandler{repo: repo}
}

// Handle returns ErrDuplicateProduct when another product already uses the pair
func (h *VerifyNameAndTypeHandler) Handle(ctx context.Context, cmd VerifyNameAndTypeCommand) error {
	// Exact hits are answered by the index before falling back to a scan
	existing, err := h.repo.FindByNameAndType(ctx, cmd.Name, cmd.Type)
	switch {
	case err == nil && existing.ID != cmd.ExcludeID:
		return duplicateError(cmd)
	case err != nil && !errors.Is(err, domain.ErrProductNotFound):
		return fmt.Errorf("failed to verify product: %w", err)
	}

	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify product: %w", err)
	}

	for i := range products {
		if products[i].ID == cmd.ExcludeID {
			continue
		}
		if products[i].SameIdentity(cmd.Name, cmd.Type) {
			return duplicateError(cmd)
		}
	}

	return nil
}

func duplicateError(cmd VerifyNameAndTypeCommand) error {
	return fmt.Errorf("%w: %q (%s)", domain.ErrDuplicateProduct, cmd.Name, cmd.Type)
}
