package transport

import (
	"errors"
	"fmt"
	"net/http"

	"ecostore/internal/cart"
	"ecostore/internal/catalog"
	"ecostore/internal/domain"
	"ecostore/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest represents the add-to-cart request payload
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

// UpdateItemRequest represents the update-quantity request payload
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// CartResponse represents the cart contents plus a human-readable notice
// for the mutation that produced it, when there is one.
type CartResponse struct {
	Items     []domain.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
	Notice    string            `json:"notice,omitempty"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	carts   *cart.Store
	catalog *catalog.Store
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cart.Store, store *catalog.Store, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: store,
		logger:  logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.UpdateItem)
		r.Delete("/items/{productID}", h.RemoveItem)
	})
}

// GetCart returns the session's cart contents and total
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	respondWithCart(w, c, "")
}

// AddItem adds a product to the cart, merging with any existing item for
// the same product. Adds that would exceed stock are rejected in full.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.ProductByID(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	result, err := c.Add(*product, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrStockExceeded) {
			middleware.RespondWithError(w, http.StatusConflict, "Sorry, we don't have enough items in stock")
			return
		}
		h.logger.Error("Failed to add to cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	notice := fmt.Sprintf("Added %s to cart", product.Name)
	if result.Status == cart.StatusUpdated {
		notice = fmt.Sprintf("Updated %s quantity in cart", product.Name)
	}
	h.logger.Info("Cart item added",
		zap.String("product_id", product.ID),
		zap.Int("quantity", result.Item.Quantity),
	)
	respondWithCart(w, c, notice)
}

// UpdateItem sets the quantity for a cart item, clamped to the product's
// stock. Unknown products are a no-op.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c.UpdateQuantity(chi.URLParam(r, "productID"), req.Quantity)
	respondWithCart(w, c, "")
}

// RemoveItem removes a cart item. Removing an absent item is a no-op.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	result := c.Remove(chi.URLParam(r, "productID"))
	notice := ""
	if result.Status == cart.StatusRemoved {
		notice = fmt.Sprintf("Removed %s from cart", result.Item.Product.Name)
	}
	respondWithCart(w, c, notice)
}

// ClearCart empties the cart unconditionally
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	c.Clear()
	respondWithCart(w, c, "Cart has been cleared")
}

func (h *CartHandler) sessionCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Missing session in request context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return nil, false
	}
	return h.carts.Cart(sessionID), true
}

func respondWithCart(w http.ResponseWriter, c *cart.Cart, notice string) {
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Items:     c.Items(),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
		Notice:    notice,
	})
}
