package http

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	// registers the generated OpenAPI document with swag
	_ "github.com/tair/product-catalog/docs/catalog"
)

// RegisterSwaggerDocs serves the Swagger UI and the generated document
func RegisterSwaggerDocs(router *mux.Router) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler())
}

func swaggerHandler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
}

// AddProduct godoc
// @Summary Add a product
// @Description Create a product with an optional image (Admin only)
// @Tags Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Product name"
// @Param type formData string true "Category"
// @Param price formData number true "Price"
// @Param stock formData int true "Units in stock"
// @Param image formData file false "Product image"
// @Success 201 {object} object{success=bool,message=string,data=dto.ProductDTO}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *ProductHandler) AddProductDoc() {}

// ListProducts godoc
// @Summary List all products
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object{products=[]dto.ProductDTO,total=int}}
// @Router /api/products [get]
func (h *ProductHandler) ListProductsDoc() {}

// ListAvailableProducts godoc
// @Summary List products in stock
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object{products=[]dto.ProductDTO,total=int}}
// @Router /api/products/available [get]
func (h *ProductHandler) ListAvailableProductsDoc() {}

// SearchProducts godoc
// @Summary Search products in stock by name or category
// @Tags Products
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {object} object{success=bool,data=object{products=[]dto.ProductDTO,total=int}}
// @Router /api/products/search [get]
func (h *ProductHandler) SearchProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=dto.ProductDTO}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProductDoc() {}

// UpdateProduct godoc
// @Summary Update a product
// @Description Apply the provided fields, all or nothing (Admin only)
// @Tags Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Param name formData string false "Product name"
// @Param type formData string false "Category"
// @Param price formData number false "Price"
// @Param stock formData int false "Units in stock"
// @Param image formData file false "Product image"
// @Success 200 {object} object{success=bool,message=string,data=dto.ProductDTO}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{id} [put]
func (h *ProductHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProductDoc() {}

// GetStats godoc
// @Summary Catalog statistics
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=query.ProductStats}
// @Router /api/products/stats [get]
func (h *ProductHandler) GetStatsDoc() {}
