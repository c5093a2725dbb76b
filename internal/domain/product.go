package domain

import (
	"strconv"
	"strings"
)

// Product is a catalog entry as served by the products endpoint. JSON field
// names follow the storefront API contract, including the display-formatted
// price string ("R19.99").
type Product struct {
	ID          string `json:"_id"`
	Name        string `json:"ProductName"`
	ImageURL    string `json:"ImageURL"`
	Price       string `json:"Price"`
	Description string `json:"Description"`
}

// PriceValue extracts the numeric value from a display price string.
// Every rune that is not a digit or '.' is stripped before parsing; an
// unparseable remainder is worth 0 rather than an error, so one malformed
// price can never fail a whole total.
func PriceValue(price string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, price)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
