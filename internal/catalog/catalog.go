package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"ecostore/internal/domain"

	"gopkg.in/yaml.v3"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

//go:embed seed.yaml
var seedData []byte

// Store owns the static product and category lists and answers read-only
// queries. The underlying data never mutates after load, so a Store is safe
// for any number of concurrent readers.
type Store struct {
	products   []domain.Product
	categories []domain.Category
	byID       map[string]int
	catByID    map[string]int
}

// New builds a Store from explicit product and category lists, preserving
// catalog order.
func New(products []domain.Product, categories []domain.Category) *Store {
	s := &Store{
		products:   products,
		categories: categories,
		byID:       make(map[string]int, len(products)),
		catByID:    make(map[string]int, len(categories)),
	}
	for i, p := range products {
		s.byID[p.ID] = i
	}
	for i, c := range categories {
		s.catByID[c.ID] = i
	}
	return s
}

type seed struct {
	Categories []domain.Category `yaml:"categories"`
	Products   []domain.Product  `yaml:"products"`
}

// Load builds a Store from the embedded catalog seed.
func Load() (*Store, error) {
	var data seed
	if err := yaml.Unmarshal(seedData, &data); err != nil {
		return nil, fmt.Errorf("failed to decode catalog seed: %w", err)
	}
	return New(data.Products, data.Categories), nil
}

// Products returns all products in catalog order.
func (s *Store) Products() []domain.Product {
	return clone(s.products)
}

// Categories returns all categories in catalog order.
func (s *Store) Categories() []domain.Category {
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Featured returns products flagged as featured, in catalog order.
func (s *Store) Featured() []domain.Product {
	return s.filter(func(p domain.Product) bool { return p.Featured })
}

// NewArrivals returns products flagged as new, in catalog order.
func (s *Store) NewArrivals() []domain.Product {
	return s.filter(func(p domain.Product) bool { return p.IsNew })
}

// Discounted returns products with a discount greater than zero, in catalog
// order.
func (s *Store) Discounted() []domain.Product {
	return s.filter(func(p domain.Product) bool { return p.Discount > 0 })
}

// ByCategory returns products in the given category. An unknown category id
// yields an empty list, not an error.
func (s *Store) ByCategory(categoryID string) []domain.Product {
	return s.filter(func(p domain.Product) bool { return p.CategoryID == categoryID })
}

// Related returns up to limit products sharing a category with the given
// product, excluding the product itself.
func (s *Store) Related(productID, categoryID string, limit int) []domain.Product {
	related := []domain.Product{}
	for _, p := range s.products {
		if p.CategoryID == categoryID && p.ID != productID {
			related = append(related, p)
			if len(related) == limit {
				break
			}
		}
	}
	return related
}

// ProductByID returns the matching product or ErrProductNotFound.
func (s *Store) ProductByID(id string) (*domain.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

// CategoryByID returns the matching category or ErrCategoryNotFound.
func (s *Store) CategoryByID(id string) (*domain.Category, error) {
	i, ok := s.catByID[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	c := s.categories[i]
	return &c, nil
}

// Brands returns the unique brand names across the catalog, in the order
// they first appear.
func (s *Store) Brands() []string {
	seen := make(map[string]bool, len(s.products))
	brands := []string{}
	for _, p := range s.products {
		if !seen[p.Brand] {
			seen[p.Brand] = true
			brands = append(brands, p.Brand)
		}
	}
	return brands
}

func (s *Store) filter(keep func(domain.Product) bool) []domain.Product {
	out := []domain.Product{}
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func clone(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}
