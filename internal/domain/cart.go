package domain

// CartItem is one line of the locally persisted shopping cart.
type CartItem struct {
	ProductID int64   `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	HeroImage string  `json:"hero_image"`
	StoreName string  `json:"store_name"`
	Qty       int     `json:"qty"`
}
