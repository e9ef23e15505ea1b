package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"ecostore/internal/cart"
	"ecostore/internal/domain"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Step identifies a stage of the checkout flow. The flow is linear:
// shipping -> payment -> review -> confirmation, with explicit Back
// transitions and no skipping.
type Step string

const (
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepReview       Step = "review"
	StepConfirmation Step = "confirmation"
)

var (
	ErrMissingFields     = errors.New("please fill in all required fields")
	ErrMissingCardFields = errors.New("please fill in all card information")
	ErrInvalidTransition = errors.New("action not allowed in the current checkout step")
	ErrOrderInProgress   = errors.New("an order is already being placed")
)

// Config holds the checkout pricing and processing knobs.
type Config struct {
	// ProcessingDelay is the simulated order processing time.
	ProcessingDelay time.Duration
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold float64
	// FlatShippingRate applies below the free shipping threshold.
	FlatShippingRate float64
	// TaxRate is applied to the subtotal, e.g. 0.1 for 10%.
	TaxRate float64
	// SessionTTL is how long an idle checkout session survives before
	// being dropped. Zero disables expiry.
	SessionTTL time.Duration
}

// Summary is the order cost breakdown shown on the cart and review pages.
type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	// FreeShippingGap is how much more to spend to qualify for free
	// shipping; zero when shipping is already free or the cart is empty.
	FreeShippingGap float64 `json:"free_shipping_gap"`
}

// Order is the confirmation payload for a placed order. The reference is
// display-only and not a durable identifier.
type Order struct {
	Reference string  `json:"reference"`
	Email     string  `json:"email"`
	Total     float64 `json:"total"`
}

// State is a snapshot of one session's checkout progress.
type State struct {
	Step       Step                `json:"step"`
	Shipping   domain.ShippingInfo `json:"shipping"`
	Payment    domain.PaymentInfo  `json:"payment"`
	Processing bool                `json:"processing"`
	Order      *Order              `json:"order,omitempty"`
}

type session struct {
	mu         sync.Mutex
	step       Step
	shipping   domain.ShippingInfo
	payment    domain.PaymentInfo
	processing bool
	order      *Order
	lastActive time.Time
}

func (sess *session) idleSince(cutoff time.Time) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return !sess.processing && sess.lastActive.Before(cutoff)
}

// Service drives the checkout state machine for each session. Entered field
// values live only in memory and never survive the session.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session
	carts    *cart.Store
	validate *validator.Validate
	cfg      Config
	logger   *zap.Logger
	done     chan struct{}
	once     sync.Once
}

// NewService creates a checkout service backed by the given cart store. A
// positive SessionTTL starts a background janitor that drops idle sessions.
func NewService(carts *cart.Store, cfg Config, logger *zap.Logger) *Service {
	s := &Service{
		sessions: make(map[string]*session),
		carts:    carts,
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger,
		done:     make(chan struct{}),
	}
	if cfg.SessionTTL > 0 {
		go s.janitor()
	}
	return s
}

func (s *Service) session(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{step: StepShipping}
		s.sessions[sessionID] = sess
	}
	sess.lastActive = time.Now()
	return sess
}

// Len returns the number of live checkout sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the janitor goroutine.
func (s *Service) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Service) janitor() {
	interval := s.cfg.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.purgeIdle(time.Now().Add(-s.cfg.SessionTTL))
		}
	}
}

// purgeIdle drops sessions idle since before the cutoff. Sessions mid
// order-processing are never dropped.
func (s *Service) purgeIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug("Expired idle checkout session", zap.String("session_id", id))
		}
	}
}

// State returns a snapshot of the session's checkout progress, starting a
// fresh flow at the shipping step if none exists.
func (s *Service) State(sessionID string) State {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return State{
		Step:       sess.step,
		Shipping:   sess.shipping,
		Payment:    sess.payment,
		Processing: sess.processing,
		Order:      sess.order,
	}
}

// SubmitShipping validates the shipping form and advances to the payment
// step. Any missing required field keeps the flow in the shipping step.
func (s *Service) SubmitShipping(sessionID string, info domain.ShippingInfo) error {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.processing {
		return ErrOrderInProgress
	}
	if sess.step != StepShipping {
		return ErrInvalidTransition
	}
	if err := s.validate.Struct(info); err != nil {
		return fmt.Errorf("%w: %w", ErrMissingFields, err)
	}
	sess.shipping = info
	sess.step = StepPayment
	return nil
}

// SubmitPayment validates the payment form and advances to the review step.
// Card fields are checked only for the credit-card method.
func (s *Service) SubmitPayment(sessionID string, info domain.PaymentInfo) error {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.processing {
		return ErrOrderInProgress
	}
	if sess.step != StepPayment {
		return ErrInvalidTransition
	}
	if err := s.validate.Struct(info); err != nil {
		if info.Method == domain.PaymentMethodCard {
			return fmt.Errorf("%w: %w", ErrMissingCardFields, err)
		}
		return fmt.Errorf("%w: %w", ErrMissingFields, err)
	}
	sess.payment = info
	sess.step = StepReview
	return nil
}

// Back steps from payment to shipping or from review to payment, preserving
// the entered form data. Back is rejected while an order is processing, so
// the flow cannot leave review under PlaceOrder's feet.
func (s *Service) Back(sessionID string) (Step, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.processing {
		return sess.step, ErrOrderInProgress
	}
	switch sess.step {
	case StepPayment:
		sess.step = StepShipping
	case StepReview:
		sess.step = StepPayment
	default:
		return sess.step, ErrInvalidTransition
	}
	return sess.step, nil
}

// PlaceOrder runs the simulated processing delay, clears the cart and
// advances to the confirmation step. Once invoked it always succeeds unless
// the request context is cancelled, in which case the flow stays in review.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string) (Order, error) {
	sess := s.session(sessionID)

	sess.mu.Lock()
	if sess.step != StepReview {
		sess.mu.Unlock()
		return Order{}, ErrInvalidTransition
	}
	if sess.processing {
		sess.mu.Unlock()
		return Order{}, ErrOrderInProgress
	}
	sess.processing = true
	sess.mu.Unlock()

	select {
	case <-ctx.Done():
		sess.mu.Lock()
		sess.processing = false
		sess.mu.Unlock()
		return Order{}, ctx.Err()
	case <-time.After(s.cfg.ProcessingDelay):
	}

	summary := s.Summary(sessionID)
	s.carts.Cart(sessionID).Clear()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.processing = false
	sess.step = StepConfirmation
	sess.order = &Order{
		Reference: newOrderReference(),
		Email:     sess.shipping.Email,
		Total:     summary.Total,
	}
	s.logger.Info("Order placed",
		zap.String("session_id", sessionID),
		zap.String("reference", sess.order.Reference),
		zap.Float64("total", sess.order.Total),
	)
	return *sess.order, nil
}

// Reset discards the session's checkout progress so a new flow starts at
// the shipping step. Reset is rejected while an order is processing.
func (s *Service) Reset(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	sess.mu.Lock()
	processing := sess.processing
	sess.mu.Unlock()
	if processing {
		return ErrOrderInProgress
	}
	delete(s.sessions, sessionID)
	return nil
}

// Summary computes the order cost breakdown from the session's cart.
func (s *Service) Summary(sessionID string) Summary {
	subtotal := s.carts.Cart(sessionID).Total()

	var shipping float64
	var gap float64
	if subtotal > 0 && subtotal <= s.cfg.FreeShippingThreshold {
		shipping = s.cfg.FlatShippingRate
		gap = s.cfg.FreeShippingThreshold - subtotal
	}
	tax := subtotal * s.cfg.TaxRate

	return Summary{
		Subtotal:        subtotal,
		Shipping:        shipping,
		Tax:             tax,
		Total:           subtotal + shipping + tax,
		FreeShippingGap: gap,
	}
}

// newOrderReference generates a display-only order number like ECO-0042.
func newOrderReference() string {
	return fmt.Sprintf("ECO-%04d", rand.IntN(10000))
}
