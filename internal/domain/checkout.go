package domain

// ShippingInfo holds the shipping form state for a checkout session. Only
// field presence is validated; format checks are out of scope.
type ShippingInfo struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Phone      string `json:"phone"`
}

// Payment method identifiers accepted by the checkout flow.
const (
	PaymentMethodCard   = "credit-card"
	PaymentMethodPayPal = "paypal"
)

// PaymentInfo holds the payment form state for a checkout session. Card
// fields are required only when Method is credit-card.
type PaymentInfo struct {
	Method     string `json:"method" validate:"required"`
	CardNumber string `json:"card_number" validate:"required_if=Method credit-card"`
	CardName   string `json:"card_name" validate:"required_if=Method credit-card"`
	Expiry     string `json:"expiry" validate:"required_if=Method credit-card"`
	CVV        string `json:"cvv" validate:"required_if=Method credit-card"`
}
