package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/internal/service"
	"github.com/reviewme/catalog/pkg/httputil"
	"github.com/reviewme/catalog/pkg/validator"
)

type createReviewRequest struct {
	ProductID string `json:"product" validate:"required,uuid"`
	Username  string `json:"username" validate:"required,min=1,max=60"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Title     string `json:"title" validate:"required,min=1,max=200"`
	Comment   string `json:"comment" validate:"required,min=1,max=2000"`
}

// updateReviewRequest carries a partial edit: absent fields keep their
// stored values.
type updateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Comment *string `json:"comment" validate:"omitempty,min=1,max=2000"`
}

type reviewListResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	svc    *service.ReviewService
	logger *slog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

// Routes registers the review routes on the given router.
func (h *ReviewHandler) Routes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Get("/product/{productId}", h.ListForProduct)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/helpful", h.MarkHelpful)
}

// ListAll handles GET /reviews
// @Summary List every review, newest first
func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// ListForProduct handles GET /reviews/product/{productId}
// @Summary List all reviews for a product, newest first
func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	reviews, err := h.svc.ListForProduct(r.Context(), productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviewListResponse{Reviews: reviews})
}

// GetByID handles GET /reviews/{id}
// @Summary Get a single review by ID
func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	review, err := h.svc.GetByID(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

// Create handles POST /reviews
// @Summary Submit a review for a product
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.svc.Create(r.Context(), service.CreateReviewInput{
		ProductID: req.ProductID,
		Username:  req.Username,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, review)
}

// Update handles PUT /reviews/{id}
// @Summary Edit a review; only the provided fields are changed
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req updateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.svc.Update(r.Context(), id.String(), service.UpdateReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /reviews/{id}
// @Summary Remove a review
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "review deleted"})
}

// MarkHelpful handles POST /reviews/{id}/helpful
// @Summary Record a helpful vote on a review
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	review, err := h.svc.MarkHelpful(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}
