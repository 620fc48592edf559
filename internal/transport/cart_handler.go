package transport

import (
	"errors"
	"net/http"

	"ostro-bazar/internal/cart"
	"ostro-bazar/internal/catalog"
	"ostro-bazar/internal/middleware"
	"ostro-bazar/internal/pricing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest identifies the product to add
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// QuantityRequest carries a replacement quantity. The field is a pointer so
// only a missing quantity fails validation; zero and negative values decode
// fine and are silently rejected by the store.
type QuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// DiscountRequest carries a discount code submission
type DiscountRequest struct {
	Code string `json:"code"`
}

// OpenRequest toggles cart view visibility
type OpenRequest struct {
	Open bool `json:"open"`
}

// CartResponse is the full cart state plus the price breakdown, recomputed
// on every read.
type CartResponse struct {
	Items  []cart.LineItem `json:"items"`
	IsOpen bool            `json:"is_open"`
	Totals pricing.Totals  `json:"totals"`
}

// CartHandler dispatches user intents into the cart store and serves cart
// state back.
type CartHandler struct {
	store   *cart.Store
	gateway *catalog.Gateway
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(store *cart.Store, gateway *catalog.Gateway, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		store:   store,
		gateway: gateway,
		logger:  logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{productID}", h.UpdateQuantity)
		r.Delete("/items/{productID}", h.RemoveItem)
		r.Post("/discount", h.ApplyDiscount)
		r.Post("/open", h.SetOpen)
		r.Post("/checkout", h.Checkout)
	})
}

func (h *CartHandler) cartResponse() CartResponse {
	return CartResponse{
		Items:  h.store.Items(),
		IsOpen: h.store.IsOpen(),
		Totals: h.store.Totals(),
	}
}

// GetCart serves current cart state and totals
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.cartResponse())
}

// AddItem looks the product up in the catalog and adds it to the cart.
// Catalog availability gates only this lookup; every other cart operation
// works with the backend down.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.gateway.Get(r.Context(), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, catalog.ErrUnavailable):
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "system offline: could not reach the catalog")
		default:
			h.logger.Error("Failed to fetch product for cart", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add item")
		}
		return
	}

	h.store.Add(*product)
	h.logger.Info("Item added to cart", zap.String("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, h.cartResponse())
}

// UpdateQuantity replaces a line item's quantity. Values below 1 leave the
// cart untouched; the response reflects whatever state results.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req QuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.store.UpdateQuantity(productID, *req.Quantity)
	middleware.RespondWithJSON(w, http.StatusOK, h.cartResponse())
}

// RemoveItem deletes a line item
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	h.store.Remove(productID)
	middleware.RespondWithJSON(w, http.StatusOK, h.cartResponse())
}

// ApplyDiscount submits a discount code
func (h *CartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := h.store.ApplyDiscount(req.Code)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"cart":   h.cartResponse(),
	})
}

// SetOpen toggles cart view visibility
func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.store.SetOpen(req.Open)
	middleware.RespondWithJSON(w, http.StatusOK, h.cartResponse())
}

// Checkout clears the cart and closes the cart view. Terminal: no payment
// or order interface is called.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.store.Checkout()
	h.logger.Info("Checkout completed, cart cleared")
	middleware.RespondWithJSON(w, http.StatusOK, h.cartResponse())
}
