package cart

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store maps session ids to carts. Carts are created on first access and
// dropped after sitting idle for the configured TTL.
type Store struct {
	mu     sync.Mutex
	carts  map[string]*Cart
	ttl    time.Duration
	logger *zap.Logger
	done   chan struct{}
	once   sync.Once
}

// NewStore creates a session cart store. A positive ttl starts a background
// janitor that drops idle carts; a zero ttl disables expiry.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	s := &Store{
		carts:  make(map[string]*Cart),
		ttl:    ttl,
		logger: logger,
		done:   make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

// Cart returns the cart for the given session, creating it if needed.
func (s *Store) Cart(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = newCart()
		s.carts[sessionID] = c
	}
	return c
}

// Len returns the number of live carts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// Close stops the janitor goroutine.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) janitor() {
	interval := s.ttl / 2
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
			s.purgeIdle(time.Now().Add(-s.ttl))
		}
	}
}

func (s *Store) purgeIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.carts {
		if c.idleSince(cutoff) {
			delete(s.carts, id)
			s.logger.Debug("Expired idle cart", zap.String("session_id", id))
		}
	}
}
