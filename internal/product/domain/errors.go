package domain

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product already exists")
	ErrCategoryRequired = errors.New("category required")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrUploadFailed     = errors.New("image upload failed")
)
