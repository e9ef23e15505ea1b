package filter

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"ecostore/internal/domain"

	"github.com/gorilla/schema"
)

// Sort keys accepted by the pipeline. Anything else leaves catalog order
// untouched.
const (
	SortPriceLowHigh = "price-low-high"
	SortPriceHighLow = "price-high-low"
	SortNewest       = "newest"
	SortPopular      = "popular"
)

// Criteria describes one filtered view of the catalog. A Criteria is fully
// reconstructable from URL query parameters, so a shared link reproduces the
// same view.
type Criteria struct {
	Category string   `schema:"category"`
	Brands   []string `schema:"brand"`
	MinPrice *int     `schema:"minPrice"`
	MaxPrice *int     `schema:"maxPrice"`
	Sort     string   `schema:"sort"`
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// ParseQuery reconstructs a Criteria from page query parameters.
func ParseQuery(values url.Values) (Criteria, error) {
	var c Criteria
	if err := queryDecoder.Decode(&c, values); err != nil {
		return Criteria{}, fmt.Errorf("failed to decode filter criteria: %w", err)
	}
	return c, nil
}

// Query encodes the Criteria back into query parameters. Absent criteria
// produce no parameters, so Query and ParseQuery round-trip.
func (c Criteria) Query() url.Values {
	values := url.Values{}
	if c.Category != "" {
		values.Set("category", c.Category)
	}
	if c.Sort != "" {
		values.Set("sort", c.Sort)
	}
	for _, brand := range c.Brands {
		values.Add("brand", brand)
	}
	if c.MinPrice != nil {
		values.Set("minPrice", strconv.Itoa(*c.MinPrice))
	}
	if c.MaxPrice != nil {
		values.Set("maxPrice", strconv.Itoa(*c.MaxPrice))
	}
	return values
}

// Apply runs the filter stages and sort over the given product list and
// returns a new list. The input is never mutated; applying the same
// criteria twice yields identical output.
func Apply(products []domain.Product, c Criteria) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if c.matches(p) {
			out = append(out, p)
		}
	}
	sortProducts(out, c.Sort)
	return out
}

func (c Criteria) matches(p domain.Product) bool {
	if c.Category != "" && p.CategoryID != c.Category {
		return false
	}
	// An empty brand set means no brand filtering, not "exclude all".
	if len(c.Brands) > 0 && !contains(c.Brands, p.Brand) {
		return false
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		price := p.EffectivePrice()
		if c.MinPrice != nil && price < float64(*c.MinPrice) {
			return false
		}
		if c.MaxPrice != nil && price > float64(*c.MaxPrice) {
			return false
		}
	}
	return true
}

// sortProducts sorts in place with a stable sort, so products comparing
// equal under the chosen key keep their catalog order.
func sortProducts(products []domain.Product, key string) {
	switch key {
	case SortPriceLowHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].EffectivePrice() < products[j].EffectivePrice()
		})
	case SortPriceHighLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].EffectivePrice() > products[j].EffectivePrice()
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsNew && !products[j].IsNew
		})
	case SortPopular:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
