package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/internal/service"
	"github.com/reviewme/catalog/pkg/httputil"
	"github.com/reviewme/catalog/pkg/middleware"
	"github.com/reviewme/catalog/pkg/pagination"
	"github.com/reviewme/catalog/pkg/validator"
)

// listCacheMaxAge is the browser/proxy cache lifetime for catalog reads.
// Kept short so rating aggregates don't go stale for long.
const listCacheMaxAge = 30

// maxBodyBytes caps request body size for all write endpoints.
const maxBodyBytes = 1 << 20

// decodeJSON decodes a size-limited JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
	Category    string `json:"category" validate:"required,max=100"`
	ImageURL    string `json:"imageUrl" validate:"required,url"`
}

// updateProductRequest carries a partial edit: absent fields keep their
// stored values.
type updateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	PriceCents  *int64  `json:"priceCents" validate:"omitempty,gte=0"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=100"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
}

type productListResponse struct {
	Products    []domain.Product `json:"products"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	svc    *service.ProductService
	logger *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, logger: logger}
}

// Routes registers the product routes on the given router.
func (h *ProductHandler) Routes(r chi.Router) {
	r.With(middleware.CacheControl(listCacheMaxAge)).Get("/", h.List)
	r.Post("/", h.Create)
	r.With(middleware.CacheControl(listCacheMaxAge)).Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /products
// @Summary List products with filtering, search, sorting and pagination
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.FromRequest(r)

	result, err := h.svc.List(r.Context(), service.ListProductsInput{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, productListResponse{
		Products:    result.Products,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
	})
}

// GetByID handles GET /products/{id}
// @Summary Get a single product by ID
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.svc.GetByID(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Create handles POST /products
// @Summary Add a product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.svc.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id}
// @Summary Edit a product; only the provided fields are changed
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req updateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.svc.Update(r.Context(), id.String(), service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}
// @Summary Remove a product and its reviews
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "product deleted"})
}
