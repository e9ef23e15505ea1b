package domain

// Product represents a product in the catalog. Products are immutable once
// the catalog is loaded.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       float64  `json:"price" yaml:"price"`
	Image       string   `json:"image" yaml:"image"`
	CategoryID  string   `json:"category_id" yaml:"category_id"`
	Brand       string   `json:"brand" yaml:"brand"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Stock       int      `json:"stock" yaml:"stock"`
	ReviewCount int      `json:"review_count" yaml:"review_count"`
	Featured    bool     `json:"featured,omitempty" yaml:"featured,omitempty"`
	IsNew       bool     `json:"is_new,omitempty" yaml:"is_new,omitempty"`
	Discount    float64  `json:"discount,omitempty" yaml:"discount,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// EffectivePrice returns the unit price after applying the discount
// percentage, if any.
func (p Product) EffectivePrice() float64 {
	if p.Discount > 0 {
		return p.Price * (1 - p.Discount/100)
	}
	return p.Price
}

// Category represents a product category. Products reference categories by
// ID; an unknown category id simply yields an empty product list.
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
}

// CartItem pairs a product snapshot with a positive quantity. The quantity
// is always within [1, Product.Stock].
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns the effective price of the item times its quantity.
func (i CartItem) Subtotal() float64 {
	return i.Product.EffectivePrice() * float64(i.Quantity)
}
