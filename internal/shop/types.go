package shop

// Product is a catalog entry as served by the backend. Price is minor units;
// the wire format uses decimal dollars and is converted at the client boundary.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       int64
	ImageURL    string
	Stock       int
}

// RegisterRequest carries the registration payload. Name and surname stay on
// the form; the backend only receives these four fields.
type RegisterRequest struct {
	Username string
	Email    string
	Mobile   string
	Password string
}

// ShippingInfo is the destination block of an order.
type ShippingInfo struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// OrderProduct is one cart line inside an order. Price is minor units.
type OrderProduct struct {
	ID       int64
	Name     string
	Price    int64
	Quantity int
}

// Order is a checkout payload. TotalAmount is minor units and must equal the
// sum of Price*Quantity over Products; the backend re-validates regardless.
type Order struct {
	TotalAmount  int64
	ShippingInfo ShippingInfo
	Products     []OrderProduct
}

// Dollars converts minor units to the decimal amount used on the wire.
func Dollars(minor int64) float64 {
	return float64(minor) / 100
}

// Minor converts a wire decimal amount to minor units, rounding half up.
func Minor(dollars float64) int64 {
	if dollars < 0 {
		return -Minor(-dollars)
	}
	return int64(dollars*100 + 0.5)
}
