package cart

import (
	"testing"
	"time"

	"ecostore/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testProduct(id string, price float64, discount float64, stock int) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    price,
		Discount: discount,
		Stock:    stock,
	}
}

func TestAddMergesAndRejectsPastStock(t *testing.T) {
	c := newCart()
	p := testProduct("1", 199.99, 0, 15)

	result, err := c.Add(p, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, result.Status)
	assert.Equal(t, 10, result.Item.Quantity)

	// Second add would exceed stock: rejected in full, cart unchanged.
	_, err = c.Add(p, 10)
	require.ErrorIs(t, err, ErrStockExceeded)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
}

func TestAddWithinStockMerges(t *testing.T) {
	c := newCart()
	p := testProduct("1", 50, 0, 15)

	_, err := c.Add(p, 10)
	require.NoError(t, err)

	result, err := c.Add(p, 5)
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, result.Status)
	assert.Equal(t, 15, result.Item.Quantity)
	require.Len(t, c.Items(), 1)
}

func TestAddRejectsFirstAddPastStock(t *testing.T) {
	c := newCart()
	p := testProduct("1", 50, 0, 3)

	_, err := c.Add(p, 4)
	require.ErrorIs(t, err, ErrStockExceeded)
	assert.Empty(t, c.Items())
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	c := newCart()
	for _, id := range []string{"3", "1", "2"} {
		_, err := c.Add(testProduct(id, 10, 0, 5), 1)
		require.NoError(t, err)
	}

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "3", items[0].Product.ID)
	assert.Equal(t, "1", items[1].Product.ID)
	assert.Equal(t, "2", items[2].Product.ID)
}

func TestUpdateQuantityClamps(t *testing.T) {
	c := newCart()
	p := testProduct("1", 50, 0, 15)
	_, err := c.Add(p, 5)
	require.NoError(t, err)

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"zero raised to one", 0, 1},
		{"negative raised to one", -7, 1},
		{"above stock capped", 999, 15},
		{"in range kept", 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.UpdateQuantity("1", tt.requested)
			assert.Equal(t, StatusUpdated, result.Status)
			assert.Equal(t, tt.want, result.Item.Quantity)
		})
	}
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	c := newCart()
	result := c.UpdateQuantity("missing", 3)
	assert.Equal(t, StatusNoop, result.Status)
	assert.Empty(t, c.Items())
}

func TestRemove(t *testing.T) {
	c := newCart()
	p := testProduct("1", 50, 0, 15)
	_, err := c.Add(p, 2)
	require.NoError(t, err)

	result := c.Remove("1")
	assert.Equal(t, StatusRemoved, result.Status)
	assert.Equal(t, "Product 1", result.Item.Product.Name)
	assert.Empty(t, c.Items())

	// Removing an absent product is a no-op, not an error.
	result = c.Remove("1")
	assert.Equal(t, StatusNoop, result.Status)
}

func TestClear(t *testing.T) {
	c := newCart()
	_, err := c.Add(testProduct("1", 50, 0, 15), 2)
	require.NoError(t, err)
	_, err = c.Add(testProduct("2", 30, 0, 15), 1)
	require.NoError(t, err)

	c.Clear()
	assert.Empty(t, c.Items())
	assert.Zero(t, c.Total())
}

func TestTotalAppliesDiscount(t *testing.T) {
	c := newCart()
	p := testProduct("1", 24.99, 20, 50)
	_, err := c.Add(p, 2)
	require.NoError(t, err)

	// 24.99 * 0.8 * 2
	assert.InDelta(t, 39.984, c.Total(), 1e-9)
}

func TestTotalEmptyCartIsZero(t *testing.T) {
	c := newCart()
	assert.Zero(t, c.Total())
	assert.Zero(t, c.ItemCount())
}

func TestStoreKeepsCartsPerSession(t *testing.T) {
	logger := zap.NewNop()
	s := NewStore(0, logger)
	defer s.Close()

	a := s.Cart("session-a")
	b := s.Cart("session-b")
	require.NotSame(t, a, b)

	_, err := a.Add(testProduct("1", 10, 0, 5), 1)
	require.NoError(t, err)
	assert.Len(t, a.Items(), 1)
	assert.Empty(t, b.Items())

	// Same session id returns the same cart.
	assert.Same(t, a, s.Cart("session-a"))
}

func TestStorePurgesIdleCarts(t *testing.T) {
	logger := zap.NewNop()
	s := NewStore(0, logger)
	defer s.Close()

	s.Cart("stale")
	s.Cart("fresh")
	require.Equal(t, 2, s.Len())

	time.Sleep(10 * time.Millisecond)
	s.Cart("fresh").Clear() // touches the cart

	s.purgeIdle(time.Now().Add(-5 * time.Millisecond))
	assert.Equal(t, 1, s.Len())
}
