package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/product-catalog/internal/product"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/logger"
)

// maxUploadSize bounds the in-memory part of a multipart request
const maxUploadSize = 10 << 20

var errBadRequest = errors.New("bad request")

// ProductHandler exposes the product workflow over HTTP
type ProductHandler struct {
	service   *product.Service
	validator *auth.Validator
	metrics   *Metrics
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, validator *auth.Validator, metrics *Metrics) *ProductHandler {
	return &ProductHandler{service: service, validator: validator, metrics: metrics}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	admin := AdminMiddleware(h.validator)
	m := h.metrics.instrument

	// Public routes
	router.HandleFunc("/api/products", m("/api/products", h.ListProducts)).Methods(http.MethodGet)
	router.HandleFunc("/api/products/available", m("/api/products/available", h.ListAvailableProducts)).Methods(http.MethodGet)
	router.HandleFunc("/api/products/search", m("/api/products/search", h.SearchProducts)).Methods(http.MethodGet)
	router.HandleFunc("/api/products/stats", m("/api/products/stats", h.GetStats)).Methods(http.MethodGet)
	router.HandleFunc("/api/products/{id:[0-9]+}", m("/api/products/{id}", h.GetProduct)).Methods(http.MethodGet)

	// Admin routes
	router.HandleFunc("/api/products", m("/api/products", admin(h.AddProduct))).Methods(http.MethodPost)
	router.HandleFunc("/api/products/{id:[0-9]+}", m("/api/products/{id}", admin(h.UpdateProduct))).Methods(http.MethodPut)
	router.HandleFunc("/api/products/{id:[0-9]+}", m("/api/products/{id}", admin(h.DeleteProduct))).Methods(http.MethodDelete)
}

// AddProduct handles POST /api/products
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	in, image, err := parseProductForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.AddProduct(r.Context(), in, image)
	if err != nil {
		h.fail(w, r, err, "Failed to add product")
		return
	}

	h.refreshProductCount(r.Context())

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: command.MessageProductAdded,
		Data:    dto.ToDTO(created),
	})
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProducts(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list products")
		return
	}
	respondProducts(w, dto.ToDTOs(products))
}

// ListAvailableProducts handles GET /api/products/available
func (h *ProductHandler) ListAvailableProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAvailableProducts(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list available products")
		return
	}
	respondProducts(w, dto.ToDTOs(products))
}

// SearchProducts handles GET /api/products/search?q=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err, "Failed to search products")
		return
	}
	respondProducts(w, products)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: dto.ToDTO(p)})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	patch, image, err := parsePatchForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), id, patch, image)
	if err != nil {
		h.fail(w, r, err, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "product updated",
		Data:    updated,
	})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to delete product")
		return
	}

	h.refreshProductCount(r.Context())

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "product deleted",
	})
}

// GetStats handles GET /api/products/stats
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to get stats")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: stats})
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker func(ctx context.Context) error

func RegisterHealthCheck(router *mux.Router, check HealthChecker) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.Error(r.Context()).Err(err).Msg("Health check failed")
				respondError(w, http.StatusServiceUnavailable, "Database unavailable")
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Product service is healthy",
		})
	}).Methods(http.MethodGet)
}

func (h *ProductHandler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	event := logger.Warn(r.Context())
	if status >= http.StatusInternalServerError {
		event = logger.Error(r.Context())
	}
	event.Err(err).Int("status", status).Msg(msg)

	if status == http.StatusInternalServerError {
		respondError(w, status, msg)
		return
	}
	respondError(w, status, err.Error())
}

// statusFor maps workflow errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateProduct):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCategoryRequired),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidProduct):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// refreshProductCount updates the total products gauge
func (h *ProductHandler) refreshProductCount(ctx context.Context) {
	stats, err := h.service.GetStats(ctx)
	if err == nil {
		h.metrics.totalProducts.Set(float64(stats.TotalProducts))
	}
}

func respondProducts(w http.ResponseWriter, products []dto.ProductDTO) {
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"products": products,
			"total":    len(products),
		},
	})
}

func productID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseForm accepts multipart and urlencoded bodies and returns the
// optional "image" file
func parseForm(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("%w: invalid form: %v", errBadRequest, err)
	}

	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid image: %v", errBadRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid image: %v", errBadRequest, err)
	}
	return data, nil
}

func parseProductForm(r *http.Request) (dto.ProductDTO, []byte, error) {
	image, err := parseForm(r)
	if err != nil {
		return dto.ProductDTO{}, nil, err
	}

	in := dto.ProductDTO{
		Name: r.PostFormValue("name"),
		Type: r.PostFormValue("type"),
	}
	if in.Price, err = parsePrice(r.PostFormValue("price")); err != nil {
		return dto.ProductDTO{}, nil, err
	}
	if in.Stock, err = parseStock(r.PostFormValue("stock")); err != nil {
		return dto.ProductDTO{}, nil, err
	}
	return in, image, nil
}

func parsePatchForm(r *http.Request) (dto.UpdateProductDTO, []byte, error) {
	image, err := parseForm(r)
	if err != nil {
		return dto.UpdateProductDTO{}, nil, err
	}

	var patch dto.UpdateProductDTO
	patch.Name = optionalField(r, "name")
	patch.Type = optionalField(r, "type")
	if v := optionalField(r, "price"); v != nil && *v != "" {
		price, err := parsePrice(*v)
		if err != nil {
			return dto.UpdateProductDTO{}, nil, err
		}
		patch.Price = &price
	}
	if v := optionalField(r, "stock"); v != nil && *v != "" {
		stock, err := parseStock(*v)
		if err != nil {
			return dto.UpdateProductDTO{}, nil, err
		}
		patch.Stock = &stock
	}
	return patch, image, nil
}

func optionalField(r *http.Request, key string) *string {
	if !r.PostForm.Has(key) {
		return nil
	}
	v := r.PostForm.Get(key)
	return &v
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: price is required", errBadRequest)
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid price %q", errBadRequest, s)
	}
	return price, nil
}

func parseStock(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: stock is required", errBadRequest)
	}
	stock, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid stock %q", errBadRequest, s)
	}
	return stock, nil
}
