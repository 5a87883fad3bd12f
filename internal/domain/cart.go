package domain

import "time"

// CartItem is one (user, product) pairing with a quantity. There is at most
// one item per product in a user's cart; adding an already-present product
// merges into the existing item instead of creating a second one.
type CartItem struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"-"`
	ProductID int64     `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CartLine is a CartItem enriched with live product data for display.
// Prices are always re-resolved from the catalog at read time, so a line's
// subtotal reflects the current price, not the price at add time.
type CartLine struct {
	CartItem
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image,omitempty"`
	Subtotal    float64 `json:"subtotal"`
	// Unavailable marks a line whose product no longer resolves in the
	// catalog. The line is kept in the listing with a zero price.
	Unavailable bool `json:"unavailable,omitempty"`
}

// CartSummary is the badge projection: total item count (sum of quantities,
// not distinct products) and the monetary total of the cart.
type CartSummary struct {
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`
}
