package transport

import (
	"net/http"

	"ostro-bazar/internal/middleware"
	"ostro-bazar/internal/repository"
	"ostro-bazar/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRequest represents the create/update product payload
type ProductRequest struct {
	Title         string   `json:"title" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice *float64 `json:"original_price"`
	CategoryID    string   `json:"category_id" validate:"required,uuid"`
	Thumbnail     string   `json:"thumbnail"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Description   string   `json:"description"`
}

// StockRequest represents the stock-only update payload
type StockRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// ProductResponse is the product shape served to clients, category joined in
// by name the way the storefront consumes it.
type ProductResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Category      string   `json:"category"`
	Thumbnail     string   `json:"thumbnail"`
	Rating        float64  `json:"rating"`
	Stock         int      `json:"stock"`
	Description   string   `json:"description,omitempty"`
}

func toProductResponse(row *repository.ProductRow) ProductResponse {
	return ProductResponse{
		ID:            row.ID.String(),
		Title:         row.Title,
		Price:         row.Price,
		OriginalPrice: row.OriginalPrice,
		Category:      row.CategoryName,
		Thumbnail:     row.Thumbnail,
		Rating:        row.Rating,
		Stock:         row.Stock,
		Description:   row.Description,
	}
}

// ProductHandler handles HTTP requests for catalog management
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers catalog routes. Reads are public; writes require
// an authenticated admin.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Put("/{id}/stock", h.UpdateStock)
			r.Delete("/{id}", h.Delete)
		})
	})

	r.Get("/api/categories", h.ListCategories)
}

// List serves the product catalog, optionally filtered by ?category=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	rows, err := h.productService.List(r.Context(), category)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	products := make([]ProductResponse, 0, len(rows))
	for _, row := range rows {
		products = append(products, toProductResponse(row))
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get serves a single product by id
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	row, err := h.productService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(row))
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := h.toInput(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		switch err {
		case service.ErrMissingFields:
			middleware.RespondWithError(w, http.StatusBadRequest, "missing required fields")
		case service.ErrUnknownCategory:
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown category")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("title", product.Title),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"message":    "Created",
		"product_id": product.ID.String(),
	})
}

// Update handles full product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := h.toInput(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.productService.Update(r.Context(), id, input); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Updated"})
}

// UpdateStock handles stock-only updates
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req StockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "quantity required")
		return
	}

	if err := h.productService.UpdateStock(r.Context(), id, *req.Quantity); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update stock", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update stock")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Stock updated"})
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "delete failed, item might be in use")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// ListCategories serves all categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *ProductHandler) toInput(req ProductRequest) (service.ProductInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return service.ProductInput{}, err
	}

	return service.ProductInput{
		Title:         req.Title,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    categoryID,
		Thumbnail:     req.Thumbnail,
		Rating:        req.Rating,
		Stock:         req.Stock,
		Description:   req.Description,
	}, nil
}
