package domain

// Product is owned by the catalog; the cart core only ever reads it.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image"`
	Category    string  `json:"category"`
}
