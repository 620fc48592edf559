package transport

import (
	"errors"
	"net/http"

	"ostro-bazar/internal/catalog"
	"ostro-bazar/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the product catalog to storefront clients through
// the gateway. When the backend is unreachable it reports a distinct
// offline state instead of failing opaquely.
type CatalogHandler struct {
	gateway *catalog.Gateway
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(gateway *catalog.Gateway, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// RegisterRoutes registers catalog browse routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
}

// List serves products, optionally filtered by ?category=
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.gateway.ListByCategory(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get serves a single product
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.gateway.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, catalog.ErrUnavailable):
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "system offline: could not reach the catalog")
	default:
		h.logger.Error("Catalog request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "catalog request failed")
	}
}
