package domain

import "errors"

// ErrMissingProductID rejects cart lines built without a product identity.
var ErrMissingProductID = errors.New("product id is required")

// CartLine is one product's presence in the cart: the quantity plus a
// denormalized snapshot of the product's display fields, which may lag the
// catalog until the next reconciliation. JSON field names match the persisted
// cart blob of the storefront.
type CartLine struct {
	ProductID   string `json:"_id"`
	Name        string `json:"ProductName"`
	ImageURL    string `json:"ImageURL"`
	Price       string `json:"Price"`
	Description string `json:"Description"`
	Quantity    int    `json:"qty"`
}

// NewCartLine builds a line for one unit of the given product.
func NewCartLine(p Product) (CartLine, error) {
	if p.ID == "" {
		return CartLine{}, ErrMissingProductID
	}
	return CartLine{
		ProductID:   p.ID,
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		Description: p.Description,
		Quantity:    1,
	}, nil
}

// ClampQuantity coerces any requested quantity to the valid range. Anything
// below one, including the zero value a non-numeric input decodes to, becomes
// one.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// LineTotal is the line's price contribution: unit price times quantity.
func (l CartLine) LineTotal() float64 {
	return PriceValue(l.Price) * float64(ClampQuantity(l.Quantity))
}

// ItemCount sums the quantities of the given lines.
func ItemCount(lines []CartLine) int {
	count := 0
	for _, l := range lines {
		count += ClampQuantity(l.Quantity)
	}
	return count
}

// TotalPrice sums the line totals of the given lines.
func TotalPrice(lines []CartLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}
