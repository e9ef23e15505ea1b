package transport

import (
	"context"
	"errors"
	"net/http"

	"ecostore/internal/checkout"
	"ecostore/internal/domain"
	"ecostore/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutResponse represents the checkout state returned after every
// checkout operation.
type CheckoutResponse struct {
	Step       checkout.Step    `json:"step"`
	Processing bool             `json:"processing"`
	Summary    checkout.Summary `json:"summary"`
	Order      *checkout.Order  `json:"order,omitempty"`
	Notice     string           `json:"notice,omitempty"`
}

// CheckoutHandler handles HTTP requests for the checkout flow
type CheckoutHandler struct {
	service *checkout.Service
	logger  *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service *checkout.Service, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all checkout routes
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/checkout", func(r chi.Router) {
		r.Get("/", h.GetState)
		r.Delete("/", h.Reset)
		r.Post("/shipping", h.SubmitShipping)
		r.Post("/payment", h.SubmitPayment)
		r.Post("/back", h.Back)
		r.Post("/order", h.PlaceOrder)
	})
}

// GetState returns the current step, entered data and order summary
func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	state := h.service.State(sessionID)
	middleware.RespondWithJSON(w, http.StatusOK, struct {
		CheckoutResponse
		Shipping domain.ShippingInfo `json:"shipping"`
		Payment  domain.PaymentInfo  `json:"payment"`
	}{
		CheckoutResponse: CheckoutResponse{
			Step:       state.Step,
			Processing: state.Processing,
			Summary:    h.service.Summary(sessionID),
			Order:      state.Order,
		},
		Shipping: state.Shipping,
		Payment:  maskPayment(state.Payment),
	})
}

// maskPayment redacts card data before it leaves the service: the CVV is
// dropped entirely and the card number keeps only its last four digits.
func maskPayment(p domain.PaymentInfo) domain.PaymentInfo {
	p.CVV = ""
	if n := len(p.CardNumber); n > 4 {
		p.CardNumber = "**** **** **** " + p.CardNumber[n-4:]
	}
	return p
}

// SubmitShipping validates the shipping form and advances to payment
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var info domain.ShippingInfo
	if err := middleware.DecodeJSON(r, &info); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SubmitShipping(sessionID, info); err != nil {
		h.respondWithCheckoutError(w, err)
		return
	}
	h.respond(w, sessionID, "")
}

// SubmitPayment validates the payment form and advances to review
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var info domain.PaymentInfo
	if err := middleware.DecodeJSON(r, &info); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SubmitPayment(sessionID, info); err != nil {
		h.respondWithCheckoutError(w, err)
		return
	}
	h.respond(w, sessionID, "")
}

// Back steps back to the previous checkout step, preserving entered data
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Back(sessionID); err != nil {
		h.respondWithCheckoutError(w, err)
		return
	}
	h.respond(w, sessionID, "")
}

// PlaceOrder runs the simulated order processing, clears the cart and
// returns the confirmation payload.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.PlaceOrder(r.Context(), sessionID); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Client went away mid-processing; nothing to respond to.
			h.logger.Debug("Order placement aborted", zap.Error(err))
			return
		}
		h.respondWithCheckoutError(w, err)
		return
	}
	h.respond(w, sessionID, "Your order has been placed successfully!")
}

// Reset discards the checkout progress for the session
func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Reset(sessionID); err != nil {
		h.respondWithCheckoutError(w, err)
		return
	}
	h.respond(w, sessionID, "")
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, sessionID, notice string) {
	state := h.service.State(sessionID)
	middleware.RespondWithJSON(w, http.StatusOK, CheckoutResponse{
		Step:       state.Step,
		Processing: state.Processing,
		Summary:    h.service.Summary(sessionID),
		Order:      state.Order,
		Notice:     notice,
	})
}

func (h *CheckoutHandler) respondWithCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrMissingCardFields):
		middleware.RespondWithError(w, http.StatusBadRequest, "Please fill in all card information")
	case errors.Is(err, checkout.ErrMissingFields):
		middleware.RespondWithError(w, http.StatusBadRequest, "Please fill in all required fields")
	case errors.Is(err, checkout.ErrInvalidTransition):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrOrderInProgress):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Checkout operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "checkout operation failed")
	}
}

func (h *CheckoutHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Missing session in request context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return "", false
	}
	return sessionID, true
}
