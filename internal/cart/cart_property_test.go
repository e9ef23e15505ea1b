package cart

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_MergedQuantityNeverExceedsStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("the cart item quantity equals the sum of accepted adds and never exceeds stock", prop.ForAll(
		func(stock int, quantities []int) bool {
			c := newCart()
			p := testProduct("1", 9.99, 0, stock)

			accepted := 0
			for _, q := range quantities {
				before := 0
				if items := c.Items(); len(items) > 0 {
					before = items[0].Quantity
				}

				_, err := c.Add(p, q)
				if q < 1 {
					q = 1
				}

				if err == ErrStockExceeded {
					// A rejected add must leave the cart unchanged.
					items := c.Items()
					after := 0
					if len(items) > 0 {
						after = items[0].Quantity
					}
					if after != before {
						t.Logf("FAIL: rejected add mutated quantity from %d to %d", before, after)
						return false
					}
					continue
				}
				accepted += q
			}

			items := c.Items()
			got := 0
			if len(items) > 0 {
				got = items[0].Quantity
			}
			if got != accepted {
				t.Logf("FAIL: quantity %d does not match accepted sum %d", got, accepted)
				return false
			}
			if got > stock {
				t.Logf("FAIL: quantity %d exceeds stock %d", got, stock)
				return false
			}
			return true
		},
		gen.IntRange(1, 50),
		gen.SliceOf(gen.IntRange(-3, 20)),
	))

	properties.TestingRun(t)
}

func TestProperty_UpdateQuantityAlwaysClampsToStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stored quantity is always clamp(q, 1, stock)", prop.ForAll(
		func(stock int, requested int) bool {
			c := newCart()
			p := testProduct("1", 9.99, 0, stock)
			if _, err := c.Add(p, 1); err != nil {
				return false
			}

			result := c.UpdateQuantity("1", requested)

			want := requested
			if want < 1 {
				want = 1
			}
			if want > stock {
				want = stock
			}
			return result.Item.Quantity == want
		},
		gen.IntRange(1, 100),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}

func TestProperty_TotalMatchesDiscountFormula(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cart total is the sum of discounted unit prices times quantities", prop.ForAll(
		func(prices []float64, discount int, quantity int) bool {
			c := newCart()

			var want float64
			for i, price := range prices {
				p := testProduct(string(rune('a'+i)), price, float64(discount), quantity)
				if _, err := c.Add(p, quantity); err != nil {
					return false
				}
				unit := price
				if discount > 0 {
					unit = price * (1 - float64(discount)/100)
				}
				want += unit * float64(quantity)
			}

			return math.Abs(c.Total()-want) < 1e-6
		},
		gen.SliceOfN(5, gen.Float64Range(0.01, 2000)),
		gen.IntRange(0, 90),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
